package contracts

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Artifact describes the JSON serialization of a single contract definition, as produced by the
// ABI discovery component. The abi field holds a standard contract ABI JSON array.
type Artifact struct {
	// Name represents the human-readable name of the contract.
	Name string `json:"name"`

	// Address represents the account the contract is deployed at.
	Address common.Address `json:"address"`

	// Abi holds the contract's ABI definition in standard JSON form.
	Abi json.RawMessage `json:"abi"`

	// Labels holds auxiliary annotations attached to the contract, if any.
	Labels []string `json:"labels,omitempty"`
}

// ReadRegistryFromFile reads a JSON-serialized list of contract artifacts from the provided file
// path and parses it into a Registry.
// Returns the Registry if it succeeds, or an error if one occurs.
func ReadRegistryFromFile(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var artifacts []Artifact
	if err = json.Unmarshal(b, &artifacts); err != nil {
		return nil, errors.WithStack(err)
	}

	registry := NewRegistry()
	for _, artifact := range artifacts {
		parsedAbi, err := abi.JSON(strings.NewReader(string(artifact.Abi)))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse ABI for contract %q", artifact.Name)
		}
		registry.Register(NewContract(artifact.Name, artifact.Address, parsedAbi, artifact.Labels))
	}
	return registry, nil
}
