package solana

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/ybbus/jsonrpc"
)

// TransactionErrorKey names a transaction level failure reported by the
// runtime, either as a bare string or as the single key of an object.
type TransactionErrorKey string

const (
	TransactionErrorAccountNotFound         TransactionErrorKey = "AccountNotFound"
	TransactionErrorInsufficientFundsForFee TransactionErrorKey = "InsufficientFundsForFee"
	TransactionErrorDuplicateSignature      TransactionErrorKey = "DuplicateSignature"
	TransactionErrorBlockhashNotFound       TransactionErrorKey = "BlockhashNotFound"
	TransactionErrorInstructionError        TransactionErrorKey = "InstructionError"
	TransactionErrorSignatureFailure        TransactionErrorKey = "SignatureFailure"

	transactionErrorUnhandled TransactionErrorKey = "UnhandledTransactionError"
)

// InstructionErrorKey names the reason an individual instruction failed.
type InstructionErrorKey string

const (
	InstructionErrorInvalidArgument          InstructionErrorKey = "InvalidArgument"
	InstructionErrorInvalidAccountData       InstructionErrorKey = "InvalidAccountData"
	InstructionErrorInsufficientFunds        InstructionErrorKey = "InsufficientFunds"
	InstructionErrorMissingRequiredSignature InstructionErrorKey = "MissingRequiredSignature"
	InstructionErrorNotEnoughAccountKeys     InstructionErrorKey = "NotEnoughAccountKeys"
	InstructionErrorCustom                   InstructionErrorKey = "Custom"
)

// CustomError is a program defined error code.
type CustomError int

func (c CustomError) Error() string {
	return fmt.Sprintf("custom program error: 0x%x", int(c))
}

// InstructionError identifies the failing instruction within a transaction.
type InstructionError struct {
	Index int
	Err   error
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("instruction %d failed: %v", e.Index, e.Err)
}

func (e *InstructionError) Unwrap() error {
	return e.Err
}

func (e *InstructionError) ErrorKey() InstructionErrorKey {
	switch {
	case e.Err == nil:
		return ""
	case e.CustomError() != nil:
		return InstructionErrorCustom
	default:
		return InstructionErrorKey(e.Err.Error())
	}
}

// CustomError returns the program error code, or nil if the instruction
// failed for a runtime reason.
func (e *InstructionError) CustomError() *CustomError {
	var custom CustomError
	if !errors.As(e.Err, &custom) {
		return nil
	}
	return &custom
}

// TransactionError is the decoded form of the "err" value attached to
// simulation failures and signature statuses.
type TransactionError struct {
	key         TransactionErrorKey
	instruction *InstructionError
	raw         interface{}
}

func NewTransactionError(key TransactionErrorKey) *TransactionError {
	return &TransactionError{key: key, raw: string(key)}
}

// ParseRPCError extracts the transaction error carried in the data of a
// JSON-RPC error. It returns nil if there is none.
func ParseRPCError(err *jsonrpc.RPCError) (*TransactionError, error) {
	if err == nil {
		return nil, nil
	}

	data, ok := err.Data.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("unexpected rpc error data type %T", err.Data)
	}

	return ParseTransactionError(data["err"])
}

// ParseTransactionError decodes the JSON value of an "err" field.
func ParseTransactionError(raw interface{}) (*TransactionError, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return &TransactionError{key: TransactionErrorKey(t), raw: raw}, nil
	case map[string]interface{}:
		unhandled := &TransactionError{key: transactionErrorUnhandled, raw: raw}

		key, value, ok := soleEntry(t)
		if !ok {
			return unhandled, errors.Errorf("expected a single transaction error entry, got %d", len(t))
		}

		txErr := &TransactionError{key: TransactionErrorKey(key), raw: raw}
		if txErr.key != TransactionErrorInstructionError {
			return txErr, nil
		}

		instructionErr, err := parseInstructionError(value)
		if err != nil {
			return unhandled, errors.Wrap(err, "failed to parse instruction error")
		}
		txErr.instruction = instructionErr
		return txErr, nil
	default:
		return nil, errors.Errorf("unhandled transaction error type %T", raw)
	}
}

func (t *TransactionError) Error() string {
	if t.instruction != nil {
		return t.instruction.Error()
	}
	return string(t.key)
}

func (t *TransactionError) Unwrap() error {
	if t.instruction == nil {
		return nil
	}
	return t.instruction
}

func (t *TransactionError) ErrorKey() TransactionErrorKey {
	return t.key
}

func (t *TransactionError) InstructionError() *InstructionError {
	return t.instruction
}

// JSONString re-encodes the error as it was received.
func (t *TransactionError) JSONString() (string, error) {
	b, err := json.Marshal(t.raw)
	return string(b), err
}

// parseInstructionError decodes the [index, detail] tuple of an
// InstructionError, where detail is either a key or {"Custom": code}.
func parseInstructionError(v interface{}) (*InstructionError, error) {
	tuple, ok := v.([]interface{})
	if !ok || len(tuple) != 2 {
		return nil, errors.Errorf("malformed InstructionError tuple: %v", v)
	}

	index, err := parseJSONNumber(tuple[0])
	if err != nil {
		return nil, err
	}

	result := &InstructionError{Index: index}
	switch detail := tuple[1].(type) {
	case string:
		result.Err = errors.New(detail)
	case map[string]interface{}:
		key, value, ok := soleEntry(detail)
		if !ok {
			return nil, errors.Errorf("expected a single instruction error entry, got %d", len(detail))
		}
		if key != string(InstructionErrorCustom) {
			result.Err = errors.New(key)
			break
		}

		code, err := parseJSONNumber(value)
		if err != nil {
			result.Err = errors.Errorf("unhandled custom error value: %v", value)
			break
		}
		result.Err = CustomError(code)
	default:
		return nil, errors.Errorf("unhandled instruction error detail type %T", detail)
	}

	return result, nil
}

func soleEntry(m map[string]interface{}) (string, interface{}, bool) {
	if len(m) != 1 {
		return "", nil, false
	}
	for k, v := range m {
		return k, v, true
	}
	return "", nil, false
}

func parseJSONNumber(v interface{}) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, errors.Wrapf(err, "invalid number %q", n)
		}
		return int(i), nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid number %q", n)
		}
		return int(i), nil
	default:
		return 0, errors.Errorf("expected a number, got %T", v)
	}
}
