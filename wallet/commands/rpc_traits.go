package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidParamType is returned when a positional parameter carries a value
// of an unexpected JSON type.
var ErrInvalidParamType = errors.New("invalid rpc param type")

// RPCRequest mirrors the inbound JSON-RPC payload: a method name plus the
// ordered positional parameters.
type RPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// Command is a single method pipeline selected by the dispatcher.
type Command interface {
	Execute(ctx context.Context, request RPCRequest) (interface{}, error)
}

// RPCRequestFromJSON parses a raw JSON-RPC payload.
func RPCRequestFromJSON(inputJSON string) (RPCRequest, error) {
	var request RPCRequest

	err := json.Unmarshal([]byte(inputJSON), &request)
	if err != nil {
		return RPCRequest{}, fmt.Errorf("error unmarshalling JSON: %v", err)
	}
	return request, nil
}

// stringParam returns the i-th positional parameter as a string. Absent or
// null parameters yield the empty string and are reported by validation
// further down the pipeline.
func stringParam(request RPCRequest, i int) (string, error) {
	if i >= len(request.Params) || request.Params[i] == nil {
		return "", nil
	}
	value, ok := request.Params[i].(string)
	if !ok {
		return "", fmt.Errorf("%w: param %d of %s must be a string", ErrInvalidParamType, i, request.Method)
	}
	return value, nil
}

// extraParam returns the optional trailing metadata object, if any.
func extraParam(request RPCRequest, i int) (map[string]interface{}, error) {
	if i >= len(request.Params) || request.Params[i] == nil {
		return nil, nil
	}
	value, ok := request.Params[i].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: param %d of %s must be an object", ErrInvalidParamType, i, request.Method)
	}
	return value, nil
}
