package wiremocktest

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// StubBuilder builds stub mapping documents using a fluent API.
type StubBuilder struct {
	doc      map[string]any
	request  map[string]any
	response map[string]any
}

// NewStub starts a stub matching method and an exact path.
//
// Example:
//
//	doc := wiremocktest.NewStub("GET", "/users/123").
//	    Named("get-user").
//	    WithJSONBody(map[string]string{"id": "123"}).
//	    JSON()
func NewStub(method, path string) *StubBuilder {
	b := &StubBuilder{
		request:  map[string]any{"method": method, "urlPath": path},
		response: map[string]any{"status": http.StatusOK},
	}
	b.doc = map[string]any{"request": b.request, "response": b.response}
	return b
}

// Named sets the mapping name.
func (b *StubBuilder) Named(name string) *StubBuilder {
	b.doc["name"] = name
	return b
}

// WithID sets the mapping id instead of letting the server assign one.
func (b *StubBuilder) WithID(id string) *StubBuilder {
	b.doc["id"] = id
	return b
}

// WithQueryParam requires a query parameter equal to value.
func (b *StubBuilder) WithQueryParam(key, value string) *StubBuilder {
	params, _ := b.request["queryParameters"].(map[string]any)
	if params == nil {
		params = make(map[string]any)
		b.request["queryParameters"] = params
	}
	params[key] = map[string]any{"equalTo": value}
	return b
}

// WithStatus sets the response status code. Default is 200 (OK).
func (b *StubBuilder) WithStatus(status int) *StubBuilder {
	b.response["status"] = status
	return b
}

// WithBody sets a raw response body.
func (b *StubBuilder) WithBody(body string) *StubBuilder {
	delete(b.response, "jsonBody")
	b.response["body"] = body
	return b
}

// WithJSONBody sets a structured response body.
func (b *StubBuilder) WithJSONBody(body any) *StubBuilder {
	delete(b.response, "body")
	b.response["jsonBody"] = body
	return b
}

// WithHeader sets a response header.
func (b *StubBuilder) WithHeader(key, value string) *StubBuilder {
	headers, _ := b.response["headers"].(map[string]any)
	if headers == nil {
		headers = make(map[string]any)
		b.response["headers"] = headers
	}
	headers[key] = value
	return b
}

// Map returns the document.
func (b *StubBuilder) Map() map[string]any {
	return b.doc
}

// JSON returns the document encoded as JSON.
func (b *StubBuilder) JSON() string {
	data, err := json.Marshal(b.doc)
	if err != nil {
		panic(fmt.Sprintf("wiremocktest: encoding stub: %v", err))
	}
	return string(data)
}

// Recorded returns the document as the server reports it when a recording
// stops: a raw url with query string, a string body and live-session fields.
func Recorded(name, rawURL, body string) string {
	doc := map[string]any{
		"id":         "7d1c5b0e-8a6f-4b8e-9f41-2a3c4d5e6f70",
		"uuid":       "7d1c5b0e-8a6f-4b8e-9f41-2a3c4d5e6f70",
		"name":       name,
		"persistent": true,
		"request":    map[string]any{"url": rawURL, "method": "GET"},
		"response": map[string]any{
			"status":  http.StatusOK,
			"body":    body,
			"headers": map[string]any{"Content-Type": "application/json"},
		},
	}
	data, _ := json.Marshal(doc)
	return string(data)
}
