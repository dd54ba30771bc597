package abiutils

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// EncodeABIArgumentsToString encodes a list of unpacked ABI values, corresponding to the provided
// argument definitions, into a comma-separated display string.
// Returns the encoded string, or an error if a value does not match its argument definition.
func EncodeABIArgumentsToString(args abi.Arguments, values []any) (string, error) {
	if len(args) != len(values) {
		return "", errors.Errorf("expected %d argument values, got %d", len(args), len(values))
	}
	encoded := make([]string, len(args))
	for i, arg := range args {
		argEncoded, err := encodeABIArgumentToString(&arg.Type, values[i])
		if err != nil {
			return "", errors.Wrapf(err, "failed to encode argument %q", arg.Name)
		}
		encoded[i] = argEncoded
	}
	return strings.Join(encoded, ", "), nil
}

// encodeABIArgumentToString encodes a single unpacked ABI value of the provided type into a
// display string, recursing for composite types.
func encodeABIArgumentToString(valueType *abi.Type, value any) (string, error) {
	switch valueType.T {
	case abi.AddressTy:
		address, ok := value.(common.Address)
		if !ok {
			return "", errors.Errorf("address argument held %T", value)
		}
		return address.Hex(), nil
	case abi.UintTy, abi.IntTy, abi.BoolTy:
		// Integers arrive as sized Go integers or *big.Int depending on bit width; all of them
		// format correctly through the default verb, as do booleans.
		return fmt.Sprintf("%v", value), nil
	case abi.StringTy:
		str, ok := value.(string)
		if !ok {
			return "", errors.Errorf("string argument held %T", value)
		}
		return strconv.Quote(str), nil
	case abi.BytesTy:
		b, ok := value.([]byte)
		if !ok {
			return "", errors.Errorf("bytes argument held %T", value)
		}
		return "0x" + hex.EncodeToString(b), nil
	case abi.FixedBytesTy:
		// Fixed-size byte values are arrays, so they are read out through reflection.
		array := reflect.ValueOf(value)
		b := make([]byte, array.Len())
		for i := 0; i < array.Len(); i++ {
			b[i] = byte(array.Index(i).Uint())
		}
		return "0x" + hex.EncodeToString(b), nil
	case abi.SliceTy, abi.ArrayTy:
		array := reflect.ValueOf(value)
		elements := make([]string, array.Len())
		for i := 0; i < array.Len(); i++ {
			elementEncoded, err := encodeABIArgumentToString(valueType.Elem, array.Index(i).Interface())
			if err != nil {
				return "", err
			}
			elements[i] = elementEncoded
		}
		return "[" + strings.Join(elements, ", ") + "]", nil
	case abi.TupleTy:
		// Tuples are unpacked into generated struct types, so fields are read out through
		// reflection in definition order.
		st := reflect.ValueOf(value)
		fields := make([]string, len(valueType.TupleElems))
		for i := 0; i < len(valueType.TupleElems); i++ {
			fieldEncoded, err := encodeABIArgumentToString(valueType.TupleElems[i], st.Field(i).Interface())
			if err != nil {
				return "", err
			}
			fields[i] = fieldEncoded
		}
		return "{" + strings.Join(fields, ", ") + "}", nil
	default:
		return "", errors.Errorf("cannot encode argument of unsupported type %v", valueType.String())
	}
}
