package requestlog

import (
	"encoding/json"
	"time"
)

// Entry is a single record of the mock server's request journal.
type Entry struct {
	// ID is the journal entry id assigned by the server.
	ID string `json:"id,omitempty"`

	// Request is the request as received by the mock server.
	Request LoggedRequest `json:"request"`

	// ResponseDefinition is the response the server chose, kept raw.
	ResponseDefinition json.RawMessage `json:"responseDefinition,omitempty"`

	// WasMatched is the server's own match flag. Older servers omit it.
	WasMatched *bool `json:"wasMatched,omitempty"`

	// StubMapping is the stub that served the request, nil if none did.
	StubMapping *StubRef `json:"stubMapping,omitempty"`
}

// LoggedRequest is the request part of a journal entry.
type LoggedRequest struct {
	Method      string            `json:"method"`
	URL         string            `json:"url"`
	AbsoluteURL string            `json:"absoluteUrl,omitempty"`
	ClientIP    string            `json:"clientIp,omitempty"`
	Headers     map[string]any    `json:"headers,omitempty"`
	Cookies     map[string]string `json:"cookies,omitempty"`
	Body        string            `json:"body,omitempty"`

	// LoggedDate is milliseconds since the Unix epoch.
	LoggedDate int64 `json:"loggedDate,omitempty"`
}

// StubRef identifies the stub mapping that matched a request.
type StubRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Matched reports whether the request was served by a stub mapping. An
// explicit wasMatched=false wins over stubMapping, which the server may fill
// with its built-in not-found mapping.
func (e *Entry) Matched() bool {
	if e.WasMatched != nil && !*e.WasMatched {
		return false
	}
	return e.StubMapping != nil && e.StubMapping.ID != ""
}

// MatchedStubID returns the id of the stub that served the request, or "".
func (e *Entry) MatchedStubID() string {
	if !e.Matched() {
		return ""
	}
	return e.StubMapping.ID
}

// DisplayURL returns the absolute URL when the server recorded one and
// falls back to the relative URL otherwise.
func (e *Entry) DisplayURL() string {
	if e.Request.AbsoluteURL != "" {
		return e.Request.AbsoluteURL
	}
	return e.Request.URL
}

// Time returns when the server logged the request.
func (e *Entry) Time() time.Time {
	if e.Request.LoggedDate == 0 {
		return time.Time{}
	}
	return time.UnixMilli(e.Request.LoggedDate)
}

// ListResponse is the body of GET /__admin/requests.
type ListResponse struct {
	Requests []Entry `json:"requests"`
	Meta     struct {
		Total int `json:"total"`
	} `json:"meta"`
	RequestJournalDisabled bool `json:"requestJournalDisabled,omitempty"`
}

// CountByStub returns how many entries each stub id served.
// Unmatched entries are not counted.
func CountByStub(entries []Entry) map[string]int {
	counts := make(map[string]int)
	for i := range entries {
		if id := entries[i].MatchedStubID(); id != "" {
			counts[id]++
		}
	}
	return counts
}
