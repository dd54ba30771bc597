package abiutils

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

// mustNewType creates an ABI type definition, failing the test on error.
func mustNewType(t *testing.T, typeName string, components []abi.ArgumentMarshaling) abi.Type {
	newType, err := abi.NewType(typeName, "", components)
	assert.NoError(t, err)
	return newType
}

// packUnpack round-trips values through the ABI coder so encoding tests operate on the exact Go
// types the decoder produces.
func packUnpack(t *testing.T, args abi.Arguments, values ...any) []any {
	packed, err := args.Pack(values...)
	assert.NoError(t, err)
	unpacked, err := args.Unpack(packed)
	assert.NoError(t, err)
	return unpacked
}

// TestEncodeScalarArguments ensures every scalar ABI type encodes to its expected display form.
func TestEncodeScalarArguments(t *testing.T) {
	args := abi.Arguments{
		{Name: "owner", Type: mustNewType(t, "address", nil)},
		{Name: "amount", Type: mustNewType(t, "uint256", nil)},
		{Name: "count", Type: mustNewType(t, "uint8", nil)},
		{Name: "enabled", Type: mustNewType(t, "bool", nil)},
		{Name: "note", Type: mustNewType(t, "string", nil)},
		{Name: "payload", Type: mustNewType(t, "bytes", nil)},
		{Name: "digest", Type: mustNewType(t, "bytes32", nil)},
	}

	owner := common.HexToAddress("0x00000000000000000000000000000000deadbeef")
	digest := [32]byte{0x01, 0x02}
	values := packUnpack(t, args,
		owner,
		big.NewInt(1000),
		uint8(7),
		true,
		`hello "world"`,
		[]byte{0xaa, 0xbb},
		digest,
	)

	encoded, err := EncodeABIArgumentsToString(args, values)
	assert.NoError(t, err)
	assert.Equal(t,
		owner.Hex()+`, 1000, 7, true, "hello \"world\"", 0xaabb, `+
			"0x0102000000000000000000000000000000000000000000000000000000000000",
		encoded)
}

// TestEncodeCompositeArguments ensures slices and tuples encode recursively with bracket and brace
// delimiters.
func TestEncodeCompositeArguments(t *testing.T) {
	args := abi.Arguments{
		{Name: "targets", Type: mustNewType(t, "address[]", nil)},
		{Name: "pair", Type: mustNewType(t, "tuple", []abi.ArgumentMarshaling{
			{Name: "amount", Type: "uint256"},
			{Name: "recipient", Type: "address"},
		})},
	}

	targetA := common.HexToAddress("0x0000000000000000000000000000000000000001")
	targetB := common.HexToAddress("0x0000000000000000000000000000000000000002")
	values := packUnpack(t, args,
		[]common.Address{targetA, targetB},
		struct {
			Amount    *big.Int       `json:"amount"`
			Recipient common.Address `json:"recipient"`
		}{big.NewInt(42), targetA},
	)

	encoded, err := EncodeABIArgumentsToString(args, values)
	assert.NoError(t, err)
	assert.Equal(t,
		"["+targetA.Hex()+", "+targetB.Hex()+"], {42, "+targetA.Hex()+"}",
		encoded)
}

// TestEncodeArgumentMismatches ensures count and type mismatches surface errors instead of
// producing partial output.
func TestEncodeArgumentMismatches(t *testing.T) {
	args := abi.Arguments{
		{Name: "owner", Type: mustNewType(t, "address", nil)},
	}

	// Value count mismatch.
	_, err := EncodeABIArgumentsToString(args, []any{})
	assert.Error(t, err)

	// Value type mismatch against the argument definition.
	_, err = EncodeABIArgumentsToString(args, []any{"not an address"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "owner")
}
