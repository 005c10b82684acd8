// Package verify reconciles the mock server's request journal against the
// stubs registered during a scenario.
//
// Verification is exhaustive: every request must have been served by a
// registered stub and every registered stub must have served at least one
// request. Request anomalies stop verification at the first offending entry;
// unused stubs are collected and reported together.
package verify

import (
	"github.com/getmockd/wirecheck/pkg/requestlog"
	"github.com/getmockd/wirecheck/pkg/stub"
)

// Verify checks observed requests against the registry.
//
// It returns *UnexpectedRequestError for the first request that matched no
// stub, *UnexpectedStubError for the first request served by a stub the
// registry does not track, and *UnusedStubsError listing every registered
// stub that served nothing. A nil error means full coverage.
func Verify(reg *stub.Registry, observed []requestlog.Entry) error {
	matched := make(map[string]struct{}, reg.Len())

	for i := range observed {
		entry := &observed[i]

		if !entry.Matched() {
			return &UnexpectedRequestError{
				Method: entry.Request.Method,
				URL:    entry.DisplayURL(),
			}
		}
		id := entry.MatchedStubID()
		if !reg.Has(id) {
			return &UnexpectedStubError{
				Method: entry.Request.Method,
				URL:    entry.DisplayURL(),
				StubID: id,
			}
		}
		matched[id] = struct{}{}
	}

	var unused []stub.Stub
	for _, s := range reg.All() {
		if _, ok := matched[s.ID()]; !ok {
			unused = append(unused, s)
		}
	}
	if len(unused) > 0 {
		return &UnusedStubsError{Stubs: unused}
	}
	return nil
}
