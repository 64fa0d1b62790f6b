package typeddata

import (
	"encoding/json"
	"errors"
	"fmt"
)

const eip712Domain = "EIP712Domain"

// Field is a single name/type pair in a type definition.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Types maps a type name to the ordered list of its fields.
type Types map[string][]Field

// TypedData defines an EIP-712 document: the type definitions, the primary
// type and the domain and message objects. Domain and message values are kept
// as raw JSON and decoded per field while encoding.
type TypedData struct {
	Types       Types                      `json:"types"`
	PrimaryType string                     `json:"primaryType"`
	Domain      map[string]json.RawMessage `json:"domain"`
	Message     map[string]json.RawMessage `json:"message"`
}

// Validate checks that the document defines the types it references.
func (t TypedData) Validate() error {
	if _, exist := t.Types[eip712Domain]; !exist {
		return errors.New("`EIP712Domain` must be in `types`")
	}
	if t.PrimaryType == "" {
		return errors.New("`primaryType` is required")
	}
	if _, exist := t.Types[t.PrimaryType]; !exist {
		return fmt.Errorf("primary type `%s` not defined in types", t.PrimaryType)
	}
	return nil
}
