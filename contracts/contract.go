package contracts

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Contract describes a deployed smart contract known to the renderer: its human-readable name,
// its on-chain address, its ABI definition, and any auxiliary labels attached by the component
// that discovered it.
type Contract struct {
	// name represents the human-readable name of the contract.
	name string

	// address represents the account the contract is deployed at.
	address common.Address

	// contractAbi describes the contract's callable functions and emittable events.
	contractAbi abi.ABI

	// labels holds auxiliary annotations supplied by the ABI discovery component. They are
	// carried through for display purposes and never interpreted.
	labels []string

	// methodsBySelector maps a function selector to its method definition. It is built once at
	// construction so rendering resolves selectors in constant time rather than scanning the ABI
	// per call frame.
	methodsBySelector map[[4]byte]*abi.Method

	// eventsByTopic maps an event signature hash to its event definition, built once at
	// construction for the same reason as methodsBySelector.
	eventsByTopic map[common.Hash]*abi.Event
}

// NewContract creates a Contract from the provided name, address, ABI, and auxiliary labels,
// precomputing its selector and event signature lookup tables.
func NewContract(name string, address common.Address, contractAbi abi.ABI, labels []string) *Contract {
	contract := &Contract{
		name:              name,
		address:           address,
		contractAbi:       contractAbi,
		labels:            labels,
		methodsBySelector: make(map[[4]byte]*abi.Method),
		eventsByTopic:     make(map[common.Hash]*abi.Event),
	}
	for _, method := range contractAbi.Methods {
		method := method
		contract.methodsBySelector[[4]byte(method.ID)] = &method
	}
	for _, event := range contractAbi.Events {
		event := event
		contract.eventsByTopic[event.ID] = &event
	}
	return contract
}

// Name returns the human-readable name of the contract.
func (c *Contract) Name() string {
	return c.name
}

// Address returns the account the contract is deployed at.
func (c *Contract) Address() common.Address {
	return c.address
}

// Abi returns the contract's ABI definition.
func (c *Contract) Abi() *abi.ABI {
	return &c.contractAbi
}

// Labels returns the auxiliary annotations attached to the contract.
func (c *Contract) Labels() []string {
	return c.labels
}

// MethodBySelector resolves a four-byte function selector against the contract's ABI.
// Returns the method definition, or nil if the selector is unknown or malformed.
func (c *Contract) MethodBySelector(selector []byte) *abi.Method {
	if len(selector) != 4 {
		return nil
	}
	return c.methodsBySelector[[4]byte(selector)]
}

// EventByTopic resolves an event signature hash (a log's first topic) against the contract's ABI.
// Returns the event definition, or nil if the signature is unknown.
func (c *Contract) EventByTopic(topic common.Hash) *abi.Event {
	return c.eventsByTopic[topic]
}

// Registry holds the set of contract definitions available to a render pass, indexed by address
// for constant-time resolution of call frame callees.
type Registry struct {
	// contracts holds every registered contract in registration order.
	contracts []*Contract

	// byAddress maps a deployment address to its contract definition.
	byAddress map[common.Address]*Contract
}

// NewRegistry creates an empty contract Registry.
func NewRegistry() *Registry {
	return &Registry{
		byAddress: make(map[common.Address]*Contract),
	}
}

// Register adds a contract definition to the registry. Registering a second contract at an
// already-known address replaces the earlier definition for address lookups.
func (r *Registry) Register(contract *Contract) {
	r.contracts = append(r.contracts, contract)
	r.byAddress[contract.address] = contract
}

// Lookup resolves an account address to its registered contract definition.
// Returns the contract, or nil if the address is unknown.
func (r *Registry) Lookup(address common.Address) *Contract {
	return r.byAddress[address]
}

// Contracts returns every registered contract in registration order.
func (r *Registry) Contracts() []*Contract {
	return r.contracts
}
