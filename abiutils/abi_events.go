package abiutils

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	coreTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// UnpackEventValues takes a resolved event definition and an emitted log record and unpacks the
// event's input values from the log. go-ethereum's ABI API does not unpack indexed arguments, so
// indexed and un-indexed inputs are split, indexed ones are re-created as un-indexed argument
// definitions and unpacked from the log's remaining topics, un-indexed ones are unpacked from the
// log data, and the results are merged back into the original argument order.
// Returns the unpacked values, or an error if the log does not decode against the definition.
func UnpackEventValues(event *abi.Event, eventLog *coreTypes.Log) ([]any, error) {
	// Split our indexed and un-indexed arguments.
	var (
		unindexedInputArguments abi.Arguments
		indexedInputArguments   abi.Arguments
	)
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexedInputArguments = append(indexedInputArguments, abi.Argument{
				Name:    arg.Name,
				Type:    arg.Type,
				Indexed: false,
			})
		} else {
			unindexedInputArguments = append(unindexedInputArguments, arg)
		}
	}

	// Each indexed argument occupies one topic after the signature topic. Aggregate them into a
	// single buffer so they can be unpacked like ordinary data.
	if len(eventLog.Topics) != len(indexedInputArguments)+1 {
		return nil, errors.Errorf("event %v expects %d indexed topics, log has %d", event.Name, len(indexedInputArguments), len(eventLog.Topics)-1)
	}
	var indexedInputData []byte
	for i := range indexedInputArguments {
		indexedInputData = append(indexedInputData, eventLog.Topics[i+1].Bytes()...)
	}

	unindexedInputValues, err := unindexedInputArguments.Unpack(eventLog.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unpack data for event %v", event.Name)
	}
	indexedInputValues, err := indexedInputArguments.Unpack(indexedInputData)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unpack topics for event %v", event.Name)
	}

	// Merge the two value lists back into the original argument order.
	var (
		currentIndexed   int
		currentUnindexed int
		inputValues      []any
	)
	for _, arg := range event.Inputs {
		if arg.Indexed {
			inputValues = append(inputValues, indexedInputValues[currentIndexed])
			currentIndexed++
		} else {
			inputValues = append(inputValues, unindexedInputValues[currentUnindexed])
			currentUnindexed++
		}
	}
	return inputValues, nil
}
