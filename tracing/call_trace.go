package tracing

import (
	"github.com/ethereum/go-ethereum/common"
	coreTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// ErrDisconnectedTrace indicates that an add, update, or locate operation descended into a node
// which has no open child call. This means the event stream the tree was built from is not
// properly nested (a call closed without a matching open, or opened at an unreachable depth).
var ErrDisconnectedTrace = errors.New("disconnected trace")

// CallTrace represents a single call frame within a traced execution. It is both the tree node
// type and the tree itself: the root CallTrace represents the outermost call, and every node
// exclusively owns its ordered list of child frames.
type CallTrace struct {
	// Depth refers to the distance of this call frame from the root frame. The root frame has a
	// depth of zero, and every child frame has a depth one greater than its parent's.
	Depth int

	// Location refers to the index this frame occupies in its parent's child list at the moment
	// it was created. It serves as a stable address for later in-place updates, avoiding a full
	// tree re-scan once a call completes.
	Location int

	// Success indicates whether the call completed without reverting. It remains false until the
	// frame's closing update arrives.
	Success bool

	// Address refers to the callee account of this frame.
	Address common.Address

	// Creation indicates whether this call deploys new contract code rather than invoking code
	// at an existing address.
	Creation bool

	// Input refers to the raw call data. Its first four bytes, if present, are conventionally a
	// function selector, with the remainder being ABI-encoded arguments.
	Input []byte

	// GasCost refers to the amount of gas attributed to this call frame.
	GasCost uint64

	// Output refers to the raw return data of the call.
	Output []byte

	// Logs refers to the log records emitted directly within this frame. Logs emitted by child
	// frames are attached to those children, not inherited here.
	Logs []coreTypes.Log

	// Children refers to the child call frames entered by this frame, in call order.
	Children []*CallTrace
}

// RootUpdatePolicy determines how a Trace treats an Add call carrying a depth-zero fragment when
// the root frame already exists.
type RootUpdatePolicy int

const (
	// RootUpdateIgnore discards depth-zero fragments passed to Add, leaving the existing root
	// untouched. This matches the historical tracer behavior and is the default.
	RootUpdateIgnore RootUpdatePolicy = iota

	// RootUpdateOverwrite applies depth-zero fragments passed to Add as in-place updates of the
	// root frame's result fields, preserving its children.
	RootUpdateOverwrite
)

// ParseRootUpdatePolicy converts a policy name ("ignore" or "overwrite") into a RootUpdatePolicy.
// Returns the policy, or an error if the name is not recognized.
func ParseRootUpdatePolicy(name string) (RootUpdatePolicy, error) {
	switch name {
	case "ignore":
		return RootUpdateIgnore, nil
	case "overwrite":
		return RootUpdateOverwrite, nil
	default:
		return RootUpdateIgnore, errors.Errorf("invalid root update policy: %q", name)
	}
}

// Trace wraps the root call frame of a traced execution together with the configured root update
// policy. All tree construction goes through this type.
type Trace struct {
	// Root refers to the outermost call frame of the traced execution.
	Root *CallTrace

	// RootPolicy determines how Add treats depth-zero fragments once the root exists.
	RootPolicy RootUpdatePolicy
}

// NewTrace creates a Trace rooted at the provided call frame, using the default root update
// policy.
func NewTrace(root *CallTrace) *Trace {
	return &Trace{
		Root:       root,
		RootPolicy: RootUpdateIgnore,
	}
}

// Add registers a newly opened call frame in the tree. The fragment is appended as the last
// child of the currently open frame at depth one less than its own. Depth-zero fragments address
// the root itself and are handled according to the trace's RootPolicy.
// Returns an error wrapping ErrDisconnectedTrace if the fragment's depth is unreachable from the
// current tree shape.
func (t *Trace) Add(fragment *CallTrace) error {
	if fragment.Depth == 0 {
		if t.RootPolicy == RootUpdateOverwrite {
			t.Root.overwrite(fragment)
		}
		return nil
	}
	return t.Root.add(fragment)
}

// add performs the recursive descent for Add. The currently open call at any depth is always the
// most recently appended child, so descent only ever follows the last child.
func (c *CallTrace) add(fragment *CallTrace) error {
	if c.Depth == fragment.Depth-1 {
		c.Children = append(c.Children, fragment)
		return nil
	}
	if len(c.Children) == 0 {
		return errors.Wrapf(ErrDisconnectedTrace, "cannot add call at depth %d below childless frame at depth %d", fragment.Depth, c.Depth)
	}
	return c.Children[len(c.Children)-1].add(fragment)
}

// Update completes a previously opened call frame with its result. The fragment is routed to the
// frame addressed by its depth and location, and that frame's result fields are overwritten in
// place. Children are never touched: they were populated incrementally by prior Add calls and the
// closing fragment carries no subtree. Updates are idempotent per (depth, location).
// Returns an error wrapping ErrDisconnectedTrace if no frame is reachable at the fragment's
// address.
func (t *Trace) Update(fragment *CallTrace) error {
	if fragment.Depth == 0 {
		t.Root.overwrite(fragment)
		return nil
	}
	return t.Root.update(fragment)
}

// update performs the recursive descent for Update, mirroring add. Once the direct parent is
// reached, the stored location gives constant-time dispatch to the completed frame.
func (c *CallTrace) update(fragment *CallTrace) error {
	if c.Depth == fragment.Depth-1 {
		if fragment.Location >= len(c.Children) {
			return errors.Wrapf(ErrDisconnectedTrace, "no call at depth %d location %d to update", fragment.Depth, fragment.Location)
		}
		c.Children[fragment.Location].overwrite(fragment)
		return nil
	}
	if len(c.Children) == 0 {
		return errors.Wrapf(ErrDisconnectedTrace, "cannot update call at depth %d below childless frame at depth %d", fragment.Depth, c.Depth)
	}
	return c.Children[len(c.Children)-1].update(fragment)
}

// overwrite copies the result fields of the provided fragment onto this frame, leaving the child
// list intact.
func (c *CallTrace) overwrite(fragment *CallTrace) {
	c.Success = fragment.Success
	c.Address = fragment.Address
	c.Creation = fragment.Creation
	c.GasCost = fragment.GasCost
	c.Input = slices.Clone(fragment.Input)
	c.Output = slices.Clone(fragment.Output)
	c.Logs = slices.Clone(fragment.Logs)
}

// Locate computes, without inserting, the child index the provided fragment would receive if it
// were added to the tree now. It follows the same last-child descent rule as Add and must be
// consulted before constructing a fragment whose Location field needs to be known up front.
// Returns the prospective location, or an error wrapping ErrDisconnectedTrace if the fragment's
// depth is unreachable.
func (t *Trace) Locate(fragment *CallTrace) (int, error) {
	if fragment.Depth == 0 {
		return 0, nil
	}
	return t.Root.locate(fragment)
}

// locate performs the recursive descent for Locate.
func (c *CallTrace) locate(fragment *CallTrace) (int, error) {
	if c.Depth == fragment.Depth-1 {
		return len(c.Children), nil
	}
	if len(c.Children) == 0 {
		return 0, errors.Wrapf(ErrDisconnectedTrace, "cannot locate call at depth %d below childless frame at depth %d", fragment.Depth, c.Depth)
	}
	return c.Children[len(c.Children)-1].locate(fragment)
}

// TotalLogs returns the number of log records emitted by this frame and all of its descendants.
func (c *CallTrace) TotalLogs() int {
	total := len(c.Logs)
	for _, child := range c.Children {
		total += child.TotalLogs()
	}
	return total
}

// TotalDescendantCalls returns the number of call frames in this subtree, excluding the frame
// itself.
func (c *CallTrace) TotalDescendantCalls() int {
	total := len(c.Children)
	for _, child := range c.Children {
		total += child.TotalDescendantCalls()
	}
	return total
}

// Find performs a depth-first search for the first frame whose depth and location both match the
// provided values. Subtrees rooted at a frame already at the target depth are pruned, since all
// of their descendants sit deeper. Returns the matching frame, or nil if none exists.
func (c *CallTrace) Find(depth int, location int) *CallTrace {
	if c.Depth == depth {
		if c.Location == location {
			return c
		}
		return nil
	}
	for _, child := range c.Children {
		if match := child.Find(depth, location); match != nil {
			return match
		}
	}
	return nil
}
