package verify

import (
	"time"

	"github.com/getmockd/wirecheck/pkg/requestlog"
	"github.com/getmockd/wirecheck/pkg/stub"
)

// StubHits is the number of requests a registered stub served.
type StubHits struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Count int    `json:"count"`
}

// UnmatchedRequest is a journal entry that no registered stub served.
type UnmatchedRequest struct {
	Method string `json:"method"`
	URL    string `json:"url"`
	// StubID is set when a stub outside the registry served the request.
	StubID string `json:"stubId,omitempty"`
	// LoggedAt is when the server logged the request, zero if unknown.
	LoggedAt time.Time `json:"loggedAt,omitzero"`
}

// Summary is a non-failing view of coverage, used for reporting after a
// run regardless of whether Verify passed.
type Summary struct {
	Stubs     []StubHits         `json:"stubs"`
	Unmatched []UnmatchedRequest `json:"unmatched,omitempty"`
	Requests  int                `json:"requests"`
}

// Unused returns the number of registered stubs that served no request.
func (s *Summary) Unused() int {
	n := 0
	for _, h := range s.Stubs {
		if h.Count == 0 {
			n++
		}
	}
	return n
}

// Passed reports whether the summary describes full coverage.
func (s *Summary) Passed() bool {
	return len(s.Unmatched) == 0 && s.Unused() == 0
}

// Report builds a Summary without stopping at the first anomaly.
func Report(reg *stub.Registry, observed []requestlog.Entry) Summary {
	counts := requestlog.CountByStub(observed)

	summary := Summary{
		Stubs:    make([]StubHits, 0, reg.Len()),
		Requests: len(observed),
	}
	for _, s := range reg.All() {
		summary.Stubs = append(summary.Stubs, StubHits{
			ID:    s.ID(),
			Name:  s.Name(),
			Count: counts[s.ID()],
		})
	}

	for i := range observed {
		entry := &observed[i]
		id := entry.MatchedStubID()
		if entry.Matched() && reg.Has(id) {
			continue
		}
		summary.Unmatched = append(summary.Unmatched, UnmatchedRequest{
			Method:   entry.Request.Method,
			URL:      entry.DisplayURL(),
			StubID:   id,
			LoggedAt: entry.Time(),
		})
	}
	return summary
}
