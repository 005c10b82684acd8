package recording

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Document is a normalized stub mapping ready to be written to disk.
type Document struct {
	// Index is the position of the mapping in the recording.
	Index int
	// Name is the mapping name given by the server, possibly empty.
	Name string
	// Body is the normalized mapping.
	Body map[string]any
}

// FileName returns the file the document is written to.
func (d Document) FileName() string {
	return FileName(d.Index, d.Name)
}

// Encode renders the document as indented JSON with sorted keys and a
// trailing newline, so identical input always yields identical bytes.
func (d Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.Body); err != nil {
		return nil, fmt.Errorf("encoding mapping %d: %w", d.Index, err)
	}
	return buf.Bytes(), nil
}

// FileName builds "<index>_<name>.json" with the index zero-padded to at
// least two digits, so files sort in capture order.
func FileName(index int, name string) string {
	return fmt.Sprintf("%02d_%s.json", index, sanitizeName(name))
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "mapping"
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, name)
}

// Result is the payload returned when a recording session stops.
type Result struct {
	Mappings []json.RawMessage `json:"mappings"`
}

// DecodeResult parses a saved stop-recording payload. Both the server's
// {"mappings": [...]} wrapper and a bare array of mappings are accepted.
func DecodeResult(data []byte) (*Result, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty recording")
	}

	if trimmed[0] == '[' {
		var mappings []json.RawMessage
		if err := json.Unmarshal(trimmed, &mappings); err != nil {
			return nil, fmt.Errorf("decoding recording: %w", err)
		}
		return &Result{Mappings: mappings}, nil
	}

	var result Result
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return nil, fmt.Errorf("decoding recording: %w", err)
	}
	if result.Mappings == nil {
		return nil, errors.New("recording has no mappings field")
	}
	return &result, nil
}
