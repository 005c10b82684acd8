package verify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getmockd/wirecheck/pkg/stub"
)

// UnexpectedRequestError is returned when the mock server received a request
// that no stub matched.
type UnexpectedRequestError struct {
	Method string
	URL    string
}

func (e *UnexpectedRequestError) Error() string {
	return fmt.Sprintf("unexpected request found: %s %s", e.Method, e.URL)
}

// UnexpectedStubError is returned when a request matched a stub that was not
// registered during the current scenario, typically a leftover from an
// earlier scenario that was never cleaned.
type UnexpectedStubError struct {
	Method string
	URL    string
	StubID string
}

func (e *UnexpectedStubError) Error() string {
	return fmt.Sprintf("unexpected stub found: %s %s (stub %s)", e.Method, e.URL, e.StubID)
}

// UnusedStubsError lists every registered stub that no request exercised.
type UnusedStubsError struct {
	Stubs []stub.Stub
}

func (e *UnusedStubsError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "unrequested stub(s) found (%d): ", len(e.Stubs))

	docs := make([]map[string]any, len(e.Stubs))
	for i, s := range e.Stubs {
		docs[i] = s
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		ids := make([]string, len(e.Stubs))
		for i, s := range e.Stubs {
			ids[i] = s.ID()
		}
		b.WriteString(strings.Join(ids, ", "))
		return b.String()
	}
	b.Write(data)
	return b.String()
}

// IDs returns the ids of the unused stubs.
func (e *UnusedStubsError) IDs() []string {
	ids := make([]string, len(e.Stubs))
	for i, s := range e.Stubs {
		ids[i] = s.ID()
	}
	return ids
}
