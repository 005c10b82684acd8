package stub

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed mapping.schema.json
var mappingSchema string

const mappingSchemaURL = "mapping.schema.json"

var compiledSchema = jsonschema.MustCompileString(mappingSchemaURL, mappingSchema)

// Violation is one schema problem found in a stub document.
type Violation struct {
	// Location is a JSON pointer into the document, "" for the root.
	Location string `json:"location"`
	Message  string `json:"message"`
}

func (v Violation) String() string {
	loc := v.Location
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + v.Message
}

// SchemaError lists every schema violation found in a stub document.
type SchemaError struct {
	Violations []Violation
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "invalid stub mapping: " + strings.Join(parts, "; ")
}

// Validate checks a stub document against the WireMock mapping schema.
// Fields the schema does not name are allowed.
func Validate(data []byte) error {
	s, err := Decode(data)
	if err != nil {
		return err
	}
	return ValidateStub(s)
}

// ValidateStub checks a decoded stub against the WireMock mapping schema.
func ValidateStub(s Stub) error {
	err := compiledSchema.Validate(map[string]any(s))
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validating stub: %w", err)
	}
	return &SchemaError{Violations: violations(ve)}
}

// violations flattens the validation tree to its leaves, which carry the
// specific messages, sorted by location.
func violations(ve *jsonschema.ValidationError) []Violation {
	var out []Violation
	seen := make(map[Violation]bool)
	for _, e := range ve.BasicOutput().Errors {
		if e.Error == "" || strings.HasPrefix(e.Error, "doesn't validate with") {
			continue
		}
		msg := e.Error
		if msg == "not failed" {
			msg = "mutually exclusive fields are both set"
		}
		v := Violation{Location: e.InstanceLocation, Message: msg}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		out = append(out, Violation{Location: ve.InstanceLocation, Message: ve.Message})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Location < out[j].Location
	})
	return out
}
