package tracing

import (
	"encoding/json"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	coreTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// CallEventKind discriminates the two kinds of recorded call events.
type CallEventKind string

const (
	// CallEventEnter marks the opening of a call frame.
	CallEventEnter CallEventKind = "enter"
	// CallEventExit marks the completion of the most recently opened call frame.
	CallEventExit CallEventKind = "exit"
)

// CallEvent is one element of a recorded execution's depth-first call event stream. Enter events
// carry the callee address, input data, and creation flag; exit events carry the call's result.
// Byte fields are hex-encoded in JSON.
type CallEvent struct {
	// Kind discriminates enter and exit events.
	Kind CallEventKind `json:"kind"`

	// Depth refers to the nesting level of the call frame the event belongs to, with the
	// outermost call at depth zero.
	Depth int `json:"depth"`

	// Address refers to the callee account. Only meaningful on enter events.
	Address common.Address `json:"address,omitempty"`

	// Creation indicates whether the call deploys new code. Only meaningful on enter events.
	Creation bool `json:"creation,omitempty"`

	// Input refers to the raw call data. Only meaningful on enter events.
	Input hexutil.Bytes `json:"input,omitempty"`

	// Success indicates whether the call completed without reverting. Only meaningful on exit
	// events.
	Success bool `json:"success,omitempty"`

	// Output refers to the raw return data. Only meaningful on exit events.
	Output hexutil.Bytes `json:"output,omitempty"`

	// GasCost refers to the gas attributed to the call. Only meaningful on exit events.
	GasCost uint64 `json:"gasCost,omitempty"`

	// Logs refers to the log records emitted directly within the call frame. Only meaningful on
	// exit events.
	Logs []coreTypes.Log `json:"logs,omitempty"`
}

// ReadCallEventsFromFile reads a JSON-serialized call event stream from the provided file path.
// Returns the events if it succeeds, or an error if one occurs.
func ReadCallEventsFromFile(path string) ([]CallEvent, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var events []CallEvent
	if err = json.Unmarshal(b, &events); err != nil {
		return nil, errors.WithStack(err)
	}
	return events, nil
}

// Replayer consumes an ordered call event stream and reconstructs the call trace tree it
// describes. It maintains the stack of currently open frames so exit events can be routed to the
// frame they complete, while all tree mutation goes through the Trace Add/Update operations.
type Replayer struct {
	// rootPolicy is applied to the produced Trace, governing repeated depth-zero Add fragments.
	rootPolicy RootUpdatePolicy
}

// NewReplayer creates a Replayer which will build traces using the provided root update policy.
func NewReplayer(rootPolicy RootUpdatePolicy) *Replayer {
	return &Replayer{
		rootPolicy: rootPolicy,
	}
}

// Replay builds a complete Trace from the provided event stream. The stream must be properly
// nested: the first event opens the root at depth zero, every enter event opens exactly one level
// below the deepest open frame, and every exit event closes the deepest open frame. Frames whose
// exit event is missing from the stream keep their zero-valued result fields.
// Returns the reconstructed Trace, or an error wrapping ErrDisconnectedTrace if the stream is
// inconsistent.
func (r *Replayer) Replay(events []CallEvent) (*Trace, error) {
	var trace *Trace

	// openFrames[d] refers to the currently open frame at depth d.
	var openFrames []*CallTrace

	for i, event := range events {
		switch event.Kind {
		case CallEventEnter:
			fragment := &CallTrace{
				Depth:    event.Depth,
				Address:  event.Address,
				Creation: event.Creation,
				Input:    slices.Clone(event.Input),
			}

			if trace == nil {
				if event.Depth != 0 {
					return nil, errors.Wrapf(ErrDisconnectedTrace, "event %d opens at depth %d before the root call", i, event.Depth)
				}
				trace = NewTrace(fragment)
				trace.RootPolicy = r.rootPolicy
				openFrames = append(openFrames, fragment)
				continue
			}

			if event.Depth != len(openFrames) {
				return nil, errors.Wrapf(ErrDisconnectedTrace, "event %d opens at depth %d while %d calls are open", i, event.Depth, len(openFrames))
			}

			// The location must be computed before insertion, so the fragment carries its final
			// address within the tree.
			location, err := trace.Locate(fragment)
			if err != nil {
				return nil, err
			}
			fragment.Location = location
			if err = trace.Add(fragment); err != nil {
				return nil, err
			}
			openFrames = append(openFrames, fragment)

		case CallEventExit:
			if trace == nil || event.Depth != len(openFrames)-1 {
				return nil, errors.Wrapf(ErrDisconnectedTrace, "event %d closes depth %d while %d calls are open", i, event.Depth, len(openFrames))
			}

			// The closing fragment carries the full result. Identity fields not present on exit
			// events are carried over from the open frame so the in-place overwrite preserves
			// them.
			open := openFrames[event.Depth]
			fragment := &CallTrace{
				Depth:    event.Depth,
				Location: open.Location,
				Success:  event.Success,
				Address:  open.Address,
				Creation: open.Creation,
				Input:    open.Input,
				GasCost:  event.GasCost,
				Output:   slices.Clone(event.Output),
				Logs:     slices.Clone(event.Logs),
			}
			if err := trace.Update(fragment); err != nil {
				return nil, err
			}
			openFrames = openFrames[:event.Depth]

		default:
			return nil, errors.Errorf("event %d has unknown kind %q", i, event.Kind)
		}
	}

	if trace == nil {
		return nil, errors.New("call event stream contained no calls")
	}
	return trace, nil
}
