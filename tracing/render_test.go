package tracing

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/crytic/calltrace/contracts"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	coreTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
)

// testTokenAbiJson is a minimal contract ABI used to exercise call and event decoding.
const testTokenAbiJson = `[
	{"type": "function", "name": "ping", "inputs": [], "outputs": []},
	{"type": "function", "name": "transfer", "inputs": [
		{"name": "to", "type": "address"},
		{"name": "amount", "type": "uint256"}
	], "outputs": [{"name": "", "type": "bool"}]},
	{"type": "event", "name": "Transfer", "inputs": [
		{"name": "from", "type": "address", "indexed": true},
		{"name": "to", "type": "address", "indexed": true},
		{"name": "value", "type": "uint256", "indexed": false}
	]}
]`

var testTokenAddress = common.HexToAddress("0x00000000000000000000000000000000000fee1d")

// newTestRegistry parses the test ABI and registers it under the name Token.
func newTestRegistry(t *testing.T) (*contracts.Registry, abi.ABI) {
	parsedAbi, err := abi.JSON(strings.NewReader(testTokenAbiJson))
	assert.NoError(t, err)
	registry := contracts.NewRegistry()
	registry.Register(contracts.NewContract("Token", testTokenAddress, parsedAbi, nil))
	return registry, parsedAbi
}

// TestRenderZeroArgumentCall ensures a matched zero-argument call renders as Name::method() and
// produces no further lines for a frame without children or logs.
func TestRenderZeroArgumentCall(t *testing.T) {
	registry, parsedAbi := newTestRegistry(t)
	trace := NewTrace(&CallTrace{
		Depth:   0,
		Success: true,
		Address: testTokenAddress,
		Input:   parsedAbi.Methods["ping"].ID,
		GasCost: 21000,
	})

	lines, err := NewRenderer(registry, false).Lines(trace)
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, "[21000] Token::ping()", lines[0].String())
}

// TestRenderDecodedArguments ensures ABI-encoded arguments are decoded and displayed.
func TestRenderDecodedArguments(t *testing.T) {
	registry, parsedAbi := newTestRegistry(t)
	recipient := common.HexToAddress("0x00000000000000000000000000000000deadbeef")
	packedArgs, err := parsedAbi.Methods["transfer"].Inputs.Pack(recipient, big.NewInt(1000))
	assert.NoError(t, err)

	trace := NewTrace(&CallTrace{
		Depth:   0,
		Success: true,
		Address: testTokenAddress,
		Input:   append(append([]byte{}, parsedAbi.Methods["transfer"].ID...), packedArgs...),
		GasCost: 40000,
	})

	lines, err := NewRenderer(registry, false).Lines(trace)
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, "[40000] Token::transfer("+recipient.Hex()+", 1000)", lines[0].String())
}

// TestRenderDecodeFailureIsFatal ensures that truncated arguments behind a matched selector abort
// the render pass with an error.
func TestRenderDecodeFailureIsFatal(t *testing.T) {
	registry, parsedAbi := newTestRegistry(t)
	trace := NewTrace(&CallTrace{
		Depth:   0,
		Address: testTokenAddress,
		Input:   append(append([]byte{}, parsedAbi.Methods["transfer"].ID...), 0x01, 0x02),
	})

	_, err := NewRenderer(registry, false).Lines(trace)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode input")
}

// TestRenderUnmatchedFrames ensures frames without a registered contract render the raw address
// and hex payload, and that a matched contract with an unknown selector keeps its name.
func TestRenderUnmatchedFrames(t *testing.T) {
	registry, _ := newTestRegistry(t)
	unknownAddress := common.HexToAddress("0x00000000000000000000000000000000000dead0")

	// Unknown contract, selector-sized input.
	trace := NewTrace(&CallTrace{
		Depth:   0,
		Address: unknownAddress,
		Input:   []byte{0xde, 0xad, 0xbe, 0xef, 0x01},
	})
	lines, err := NewRenderer(registry, false).Lines(trace)
	assert.NoError(t, err)
	assert.Equal(t, unknownAddress.Hex()+"::0xdeadbeef(0x01)", lines[0].String())

	// Unknown contract, input shorter than a selector.
	trace = NewTrace(&CallTrace{
		Depth:   0,
		Address: unknownAddress,
		Input:   []byte{0xde, 0xad},
	})
	lines, err = NewRenderer(registry, false).Lines(trace)
	assert.NoError(t, err)
	assert.Equal(t, unknownAddress.Hex()+"::(0xdead)", lines[0].String())

	// Known contract, selector not part of its ABI.
	trace = NewTrace(&CallTrace{
		Depth:   0,
		Address: testTokenAddress,
		Input:   []byte{0xde, 0xad, 0xbe, 0xef},
		GasCost: 5,
	})
	lines, err = NewRenderer(registry, false).Lines(trace)
	assert.NoError(t, err)
	assert.Equal(t, "[5] Token::0xdeadbeef(0x)", lines[0].String())
}

// TestRenderCreationFrame ensures creation calls render as "new Name" without selector decoding.
func TestRenderCreationFrame(t *testing.T) {
	registry, _ := newTestRegistry(t)
	trace := NewTrace(&CallTrace{
		Depth:    0,
		Success:  true,
		Creation: true,
		Address:  testTokenAddress,
		Input:    []byte{0x60, 0x80, 0x60, 0x40},
		GasCost:  150000,
	})

	lines, err := NewRenderer(registry, false).Lines(trace)
	assert.NoError(t, err)
	assert.Equal(t, "[150000] new Token", lines[0].String())
}

// TestRenderConnectorLayout verifies the connector selection rule: the last child is terminal
// only when no logs follow it, and the last log is always terminal.
func TestRenderConnectorLayout(t *testing.T) {
	registry, parsedAbi := newTestRegistry(t)
	pingInput := parsedAbi.Methods["ping"].ID

	grandchild := &CallTrace{Depth: 2, Location: 0, Success: true, Address: testTokenAddress, Input: pingInput}
	childA := &CallTrace{
		Depth: 1, Location: 0, Success: true, Address: testTokenAddress, Input: pingInput,
		Children: []*CallTrace{grandchild},
	}
	childB := &CallTrace{Depth: 1, Location: 1, Success: true, Address: testTokenAddress, Input: pingInput}
	root := &CallTrace{
		Depth: 0, Success: true, Address: testTokenAddress, Input: pingInput,
		Children: []*CallTrace{childA, childB},
		Logs:     []coreTypes.Log{{Topics: []common.Hash{{0x01}}, Data: []byte{0xaa}}},
	}

	lines, err := NewRenderer(registry, false).Lines(NewTrace(root))
	assert.NoError(t, err)
	assert.Len(t, lines, 5)

	// Root header has no prefix.
	assert.Equal(t, "", lines[0].Prefix)
	// Both children take the mid-branch connector because a root log follows them.
	assert.Equal(t, "├─ ", lines[1].Prefix)
	// ChildA's grandchild is its only sub-item: continuation bar plus terminal connector.
	assert.Equal(t, "│  └─ ", lines[2].Prefix)
	assert.Equal(t, "├─ ", lines[3].Prefix)
	// The root's final log is terminal.
	assert.Equal(t, "└─ ", lines[4].Prefix)
}

// TestRenderEventDecoding ensures logs resolve against the contract's event definitions, with
// indexed and un-indexed fields decoded, and unmatched logs falling back to raw topic output.
func TestRenderEventDecoding(t *testing.T) {
	registry, parsedAbi := newTestRegistry(t)
	transferEvent := parsedAbi.Events["Transfer"]
	from := common.HexToAddress("0x0000000000000000000000000000000000000001")
	to := common.HexToAddress("0x0000000000000000000000000000000000000002")
	packedValue, err := abi.Arguments{transferEvent.Inputs[2]}.Pack(big.NewInt(500))
	assert.NoError(t, err)

	root := &CallTrace{
		Depth: 0, Success: true, Address: testTokenAddress, Input: parsedAbi.Methods["ping"].ID,
		Logs: []coreTypes.Log{
			{
				Topics: []common.Hash{transferEvent.ID, common.BytesToHash(from.Bytes()), common.BytesToHash(to.Bytes())},
				Data:   packedValue,
			},
			{
				Topics: []common.Hash{{0xff}},
				Data:   []byte{0x01},
			},
		},
	}

	lines, err := NewRenderer(registry, false).Lines(NewTrace(root))
	assert.NoError(t, err)
	assert.Len(t, lines, 3)
	assert.Equal(t, "├─ emit Transfer("+from.Hex()+", "+to.Hex()+", 500)", lines[1].String())
	assert.True(t, strings.HasPrefix(lines[2].String(), "└─ emit (topics=["))
}

// TestRenderColorModes ensures colorized output carries ANSI styling while no-color output is
// byte-for-byte plain.
func TestRenderColorModes(t *testing.T) {
	registry, parsedAbi := newTestRegistry(t)
	trace := NewTrace(&CallTrace{
		Depth:   0,
		Success: false,
		Address: testTokenAddress,
		Input:   parsedAbi.Methods["ping"].ID,
	})

	colored, err := NewRenderer(registry, true).Lines(trace)
	assert.NoError(t, err)
	assert.Contains(t, colored[0].Text, "\x1b[31m")

	plain, err := NewRenderer(registry, false).Lines(trace)
	assert.NoError(t, err)
	assert.NotContains(t, plain[0].Text, "\x1b")
}

// TestRenderWrite ensures the writer emits one output line per rendered line.
func TestRenderWrite(t *testing.T) {
	registry, parsedAbi := newTestRegistry(t)
	pingInput := parsedAbi.Methods["ping"].ID
	root := &CallTrace{
		Depth: 0, Success: true, Address: testTokenAddress, Input: pingInput,
		Children: []*CallTrace{{Depth: 1, Location: 0, Success: true, Address: testTokenAddress, Input: pingInput}},
	}

	var buf bytes.Buffer
	assert.NoError(t, NewRenderer(registry, false).Write(&buf, NewTrace(root)))
	assert.Equal(t, "[0] Token::ping()\n└─ [0] Token::ping()\n", buf.String())
}
