package contracts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

const testAbiJson = `[
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

// parseTestAbi parses the shared test ABI definition.
func parseTestAbi(t *testing.T) abi.ABI {
	parsedAbi, err := abi.JSON(strings.NewReader(testAbiJson))
	assert.NoError(t, err)
	return parsedAbi
}

// TestContractLookupTables ensures the selector and event topic tables built at construction
// resolve every ABI entry and reject unknown or malformed keys.
func TestContractLookupTables(t *testing.T) {
	parsedAbi := parseTestAbi(t)
	address := common.HexToAddress("0x1234")
	contract := NewContract("Token", address, parsedAbi, []string{"erc20"})

	assert.Equal(t, "Token", contract.Name())
	assert.Equal(t, address, contract.Address())
	assert.Equal(t, []string{"erc20"}, contract.Labels())

	// Every method selector resolves to its definition.
	for name, method := range parsedAbi.Methods {
		resolved := contract.MethodBySelector(method.ID)
		assert.NotNil(t, resolved)
		assert.Equal(t, name, resolved.Name)
	}

	// Every event signature hash resolves to its definition.
	transferEvent := parsedAbi.Events["Transfer"]
	resolvedEvent := contract.EventByTopic(transferEvent.ID)
	assert.NotNil(t, resolvedEvent)
	assert.Equal(t, "Transfer", resolvedEvent.Name)

	// Unknown and malformed keys miss without panicking.
	assert.Nil(t, contract.MethodBySelector([]byte{0xde, 0xad, 0xbe, 0xef}))
	assert.Nil(t, contract.MethodBySelector([]byte{0x01, 0x02}))
	assert.Nil(t, contract.MethodBySelector(nil))
	assert.Nil(t, contract.EventByTopic(common.Hash{0xff}))
}

// TestRegistryLookup ensures address resolution returns the registered definition, later
// registrations at the same address replace earlier ones, and registration order is preserved.
func TestRegistryLookup(t *testing.T) {
	parsedAbi := parseTestAbi(t)
	addressA := common.HexToAddress("0xaaaa")
	addressB := common.HexToAddress("0xbbbb")

	registry := NewRegistry()
	assert.Nil(t, registry.Lookup(addressA))

	first := NewContract("TokenA", addressA, parsedAbi, nil)
	second := NewContract("TokenB", addressB, parsedAbi, nil)
	registry.Register(first)
	registry.Register(second)

	assert.Same(t, first, registry.Lookup(addressA))
	assert.Same(t, second, registry.Lookup(addressB))
	assert.Nil(t, registry.Lookup(common.HexToAddress("0xcccc")))

	// A re-registration at addressA takes over lookups for that address.
	replacement := NewContract("TokenA2", addressA, parsedAbi, nil)
	registry.Register(replacement)
	assert.Same(t, replacement, registry.Lookup(addressA))
	assert.Len(t, registry.Contracts(), 3)
	assert.Equal(t, "TokenA", registry.Contracts()[0].Name())
}

// TestReadRegistryFromFile round-trips a contract artifact list through its JSON file form and
// verifies malformed inputs surface errors.
func TestReadRegistryFromFile(t *testing.T) {
	artifactsJson := `[
		{
			"name": "Token",
			"address": "0x00000000000000000000000000000000000fee1d",
			"abi": ` + testAbiJson + `,
			"labels": ["erc20"]
		}
	]`
	path := filepath.Join(t.TempDir(), "contracts.json")
	assert.NoError(t, os.WriteFile(path, []byte(artifactsJson), 0644))

	registry, err := ReadRegistryFromFile(path)
	assert.NoError(t, err)
	assert.Len(t, registry.Contracts(), 1)

	contract := registry.Lookup(common.HexToAddress("0x00000000000000000000000000000000000fee1d"))
	assert.NotNil(t, contract)
	assert.Equal(t, "Token", contract.Name())
	assert.Equal(t, []string{"erc20"}, contract.Labels())
	assert.NotNil(t, contract.MethodBySelector(contract.Abi().Methods["transfer"].ID))

	// A missing file surfaces an error.
	_, err = ReadRegistryFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	// A contract carrying an invalid ABI payload surfaces a parse error naming the contract.
	badPath := filepath.Join(t.TempDir(), "bad.json")
	assert.NoError(t, os.WriteFile(badPath, []byte(`[{"name": "Broken", "address": "0x0000000000000000000000000000000000000001", "abi": {"not": "an abi"}}]`), 0644))
	_, err = ReadRegistryFromFile(badPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Broken")
}
