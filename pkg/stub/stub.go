// Package stub tracks the stub mappings registered with the mock server
// during a single scenario.
package stub

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Stub is a stub mapping document as returned by the mock server.
// The document is kept opaque: only id and name are interpreted, every other
// field is carried through unchanged. Numbers are held as json.Number so a
// stub can be re-encoded without losing precision.
type Stub map[string]any

// ErrNotObject is returned when a document is not a JSON object.
var ErrNotObject = errors.New("stub document is not a JSON object")

// Decode parses a stub document.
func Decode(data []byte) (Stub, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding stub: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decoding stub: trailing data after document")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return Stub(obj), nil
}

// ID returns the server-assigned identifier, or "" if the stub has none.
func (s Stub) ID() string {
	id, _ := s["id"].(string)
	return id
}

// Name returns the optional human readable label.
func (s Stub) Name() string {
	name, _ := s["name"].(string)
	return name
}

// Pretty returns the stub as indented JSON for error messages and logs.
func (s Stub) Pretty() string {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(s))
	}
	return string(data)
}
