package tracing

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/crytic/calltrace/abiutils"
	"github.com/crytic/calltrace/contracts"
	"github.com/crytic/calltrace/logging/colors"
	"github.com/ethereum/go-ethereum/common/hexutil"
	coreTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// Tree connector glyphs. A node's immediate connector is rewritten into the continuation bar when
// its own children and logs are rendered beneath it.
const (
	branchConnector   = "├─ "
	terminalConnector = "└─ "
	continuationBar   = "│  "
)

// Line is one styled line of rendered trace output: the tree-drawing prefix and the (possibly
// colorized) text describing a call frame or log record. Producing lines rather than writing
// directly keeps tree walking decoupled from the output channel.
type Line struct {
	// Prefix holds the tree connector glyphs leading up to the line's text.
	Prefix string

	// Text holds the call or log description, already styled.
	Text string
}

// String returns the fully assembled output line.
func (l Line) String() string {
	return l.Prefix + l.Text
}

// Renderer converts a completed call trace tree into annotated text lines, resolving call frames
// and logs against a contract registry where possible and degrading to raw hex output where not.
type Renderer struct {
	// registry holds the contract definitions used to decode calls and events. It may be empty,
	// in which case every frame takes the raw rendering path.
	registry *contracts.Registry

	// useColor determines whether line text is ANSI-colorized.
	useColor bool
}

// NewRenderer creates a Renderer using the provided contract registry. If useColor is false, all
// output is produced unstyled.
func NewRenderer(registry *contracts.Registry, useColor bool) *Renderer {
	if registry == nil {
		registry = contracts.NewRegistry()
	}
	return &Renderer{
		registry: registry,
		useColor: useColor,
	}
}

// color returns the provided ColorFunc, or the neutral passthrough when color is disabled.
func (r *Renderer) color(f colors.ColorFunc) colors.ColorFunc {
	if !r.useColor {
		return colors.Reset
	}
	return f
}

// Lines renders the provided trace into its sequence of styled output lines. Rendering is
// read-only with respect to the tree. A failure to decode input data or an event log against a
// definition that matched by selector or signature aborts the render pass with an error.
func (r *Renderer) Lines(trace *Trace) ([]Line, error) {
	return r.renderFrame(trace.Root, "")
}

// Write renders the provided trace and writes its lines to the given writer, one per line.
func (r *Renderer) Write(w io.Writer, trace *Trace) error {
	lines, err := r.Lines(trace)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err = fmt.Fprintln(w, line.String()); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// renderFrame renders one call frame and, recursively, everything beneath it. Children are
// rendered before the frame's own logs. The connector appended for each item depends on whether
// anything follows it: the last child is terminal only if no logs follow, and the last log is
// always terminal.
func (r *Renderer) renderFrame(node *CallTrace, prefix string) ([]Line, error) {
	contract := r.registry.Lookup(node.Address)

	headerText, err := r.frameText(node, contract)
	if err != nil {
		return nil, err
	}
	lines := []Line{{Prefix: prefix, Text: headerText}}

	// Sub-items extend the prefix: the immediate branch connector becomes a continuation bar,
	// then the child's own connector is appended.
	subPrefix := strings.ReplaceAll(prefix, branchConnector, continuationBar)

	for i, child := range node.Children {
		connector := branchConnector
		if i == len(node.Children)-1 && len(node.Logs) == 0 {
			connector = terminalConnector
		}
		childLines, err := r.renderFrame(child, subPrefix+connector)
		if err != nil {
			return nil, err
		}
		lines = append(lines, childLines...)
	}

	for i := range node.Logs {
		connector := branchConnector
		if i == len(node.Logs)-1 {
			connector = terminalConnector
		}
		logText, err := r.logText(&node.Logs[i], contract)
		if err != nil {
			return nil, err
		}
		lines = append(lines, Line{Prefix: subPrefix + connector, Text: logText})
	}

	return lines, nil
}

// frameText produces the header text for a single call frame. Frames whose callee resolved to a
// registered contract are decoded and colorized by outcome (green for success, red for failure);
// unresolved frames fall back to raw hex output.
func (r *Renderer) frameText(node *CallTrace, contract *contracts.Contract) (string, error) {
	if contract == nil {
		return rawFrameText(node), nil
	}

	outcome := r.color(colors.Green)
	if !node.Success {
		outcome = r.color(colors.Red)
	}

	// Creation calls have no selector to resolve; constructor arguments trail the init code at an
	// unknown offset, so no argument decoding is attempted.
	if node.Creation {
		return fmt.Sprintf("[%d] %s", node.GasCost, outcome("new "+contract.Name())), nil
	}

	if len(node.Input) >= 4 {
		if method := contract.MethodBySelector(node.Input[:4]); method != nil {
			values, err := method.Inputs.Unpack(node.Input[4:])
			if err != nil {
				return "", errors.Wrapf(err, "failed to decode input of %s::%s at depth %d location %d", contract.Name(), method.Name, node.Depth, node.Location)
			}
			argsText, err := abiutils.EncodeABIArgumentsToString(method.Inputs, values)
			if err != nil {
				return "", errors.Wrapf(err, "failed to encode arguments of %s::%s at depth %d location %d", contract.Name(), method.Name, node.Depth, node.Location)
			}
			return fmt.Sprintf("[%d] %s::%s(%s)", node.GasCost, outcome(contract.Name()), outcome(method.Name), argsText), nil
		}
	}

	// The callee is known but the selector is not part of its ABI (or the input is shorter than a
	// selector). Degrade to the raw form, keeping the resolved name.
	if len(node.Input) >= 4 {
		return fmt.Sprintf("[%d] %s::0x%s(0x%s)", node.GasCost, contract.Name(), hex.EncodeToString(node.Input[:4]), hex.EncodeToString(node.Input[4:])), nil
	}
	return fmt.Sprintf("[%d] %s::(0x%s)", node.GasCost, contract.Name(), hex.EncodeToString(node.Input)), nil
}

// rawFrameText produces the neutral header used when no contract definition matches the frame's
// callee: the raw address and the hex-encoded selector and payload.
func rawFrameText(node *CallTrace) string {
	if len(node.Input) >= 4 {
		return fmt.Sprintf("%s::0x%s(0x%s)", node.Address.Hex(), hex.EncodeToString(node.Input[:4]), hex.EncodeToString(node.Input[4:]))
	}
	return fmt.Sprintf("%s::(0x%s)", node.Address.Hex(), hex.EncodeToString(node.Input))
}

// logText produces the text for a single emitted log record. If the frame's contract is known and
// the log's signature topic resolves to one of its event definitions, the event is decoded and
// highlighted; otherwise the raw log structure is printed in the fallback style.
func (r *Renderer) logText(eventLog *coreTypes.Log, contract *contracts.Contract) (string, error) {
	if contract != nil && len(eventLog.Topics) > 0 {
		if event := contract.EventByTopic(eventLog.Topics[0]); event != nil {
			values, err := abiutils.UnpackEventValues(event, eventLog)
			if err != nil {
				return "", errors.Wrapf(err, "failed to decode %s log emitted by %s", event.Name, contract.Name())
			}
			fieldsText, err := abiutils.EncodeABIArgumentsToString(event.Inputs, values)
			if err != nil {
				return "", errors.Wrapf(err, "failed to encode fields of %s log emitted by %s", event.Name, contract.Name())
			}
			return "emit " + r.color(colors.Magenta)(fmt.Sprintf("%s(%s)", event.Name, fieldsText)), nil
		}
	}
	return "emit " + r.color(colors.Cyan)(rawLogText(eventLog)), nil
}

// rawLogText produces the fallback rendering of a log record: its topic list and data, hex
// encoded.
func rawLogText(eventLog *coreTypes.Log) string {
	topics := make([]string, len(eventLog.Topics))
	for i, topic := range eventLog.Topics {
		topics[i] = topic.Hex()
	}
	return fmt.Sprintf("(topics=[%s], data=%s)", strings.Join(topics, ", "), hexutil.Encode(eventLog.Data))
}
