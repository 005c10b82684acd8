// Package recording turns the raw mappings captured by a mock server
// recording session into canonical stub documents that can be committed and
// replayed.
package recording

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/wirecheck/pkg/logging"
)

// DefaultExcludedQueryParams are query parameters dropped from recorded
// URLs. wa_key is a per-session tracking key, not part of the request.
var DefaultExcludedQueryParams = []string{"wa_key"}

// DefaultStripPaths are the fields removed from every recorded mapping.
// They are assigned by the server or describe the live session.
var DefaultStripPaths = []string{
	"$.id",
	"$.uuid",
	"$.persistent",
	"$.response.headers",
}

// MalformedRecordingError is returned when a recorded mapping cannot be
// normalized. A single malformed mapping fails the whole recording.
type MalformedRecordingError struct {
	Index  int
	Reason string
	Cause  error
}

func (e *MalformedRecordingError) Error() string {
	msg := fmt.Sprintf("malformed recording: mapping %d: %s", e.Index, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MalformedRecordingError) Unwrap() error {
	return e.Cause
}

// Normalizer converts recorded mappings into Documents.
// It holds no per-call state and may be shared.
type Normalizer struct {
	excluded map[string]struct{}
	stripSrc []string
	strip    []jp.Expr
	logger   *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithExcludedQueryParams replaces the list of query parameters dropped
// from recorded URLs.
func WithExcludedQueryParams(names ...string) Option {
	return func(n *Normalizer) {
		n.excluded = make(map[string]struct{}, len(names))
		for _, name := range names {
			n.excluded[name] = struct{}{}
		}
	}
}

// WithStripPaths replaces the JSONPath expressions removed from every
// mapping.
func WithStripPaths(paths ...string) Option {
	return func(n *Normalizer) {
		n.stripSrc = append([]string(nil), paths...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// NewNormalizer creates a Normalizer. It fails if a strip path is not a
// valid JSONPath expression.
func NewNormalizer(opts ...Option) (*Normalizer, error) {
	n := &Normalizer{
		stripSrc: DefaultStripPaths,
		logger:   logging.Nop(),
	}
	WithExcludedQueryParams(DefaultExcludedQueryParams...)(n)
	for _, opt := range opts {
		opt(n)
	}

	n.strip = make([]jp.Expr, 0, len(n.stripSrc))
	for _, src := range n.stripSrc {
		x, err := jp.ParseString(src)
		if err != nil {
			return nil, fmt.Errorf("invalid strip path %q: %w", src, err)
		}
		n.strip = append(n.strip, x)
	}
	return n, nil
}

// ExcludedQueryParams returns the dropped query parameter names, sorted.
func (n *Normalizer) ExcludedQueryParams() []string {
	names := make([]string, 0, len(n.excluded))
	for name := range n.excluded {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize converts every mapping, preserving capture order. The index of
// each mapping in raw becomes its Document index.
func (n *Normalizer) Normalize(raw []json.RawMessage) ([]Document, error) {
	docs := make([]Document, 0, len(raw))
	for i, m := range raw {
		doc, err := n.NormalizeMapping(i, m)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	n.logger.Debug("normalized recording", "count", len(docs))
	return docs, nil
}

// NormalizeMapping converts a single recorded mapping captured at position
// index. raw is never modified.
func (n *Normalizer) NormalizeMapping(index int, raw json.RawMessage) (Document, error) {
	malformed := func(reason string, cause error) (Document, error) {
		return Document{}, &MalformedRecordingError{Index: index, Reason: reason, Cause: cause}
	}

	v, err := decodeJSON(raw)
	if err != nil {
		return malformed("invalid JSON", err)
	}
	mapping, ok := v.(map[string]any)
	if !ok {
		return malformed("mapping is not an object", nil)
	}
	req, ok := mapping["request"].(map[string]any)
	if !ok {
		return malformed("missing request", nil)
	}

	if err := n.normalizeURL(req); err != nil {
		return malformed("invalid url", err)
	}
	if err := normalizeBodyPatterns(req); err != nil {
		return malformed("invalid bodyPatterns", err)
	}

	if r, present := mapping["response"]; present {
		resp, ok := r.(map[string]any)
		if !ok {
			return malformed("response is not an object", nil)
		}
		promoteJSONBody(resp)
	}

	for i, x := range n.strip {
		if err := x.Del(mapping); err != nil {
			return malformed("stripping "+n.stripSrc[i], err)
		}
	}

	name, _ := mapping["name"].(string)
	return Document{Index: index, Name: name, Body: mapping}, nil
}

// normalizeURL replaces request.url with request.urlPath and structured
// queryParameters.
func (n *Normalizer) normalizeURL(req map[string]any) error {
	rawURL, present := req["url"]
	if !present {
		return nil
	}
	s, ok := rawURL.(string)
	if !ok {
		return errors.New("url is not a string")
	}

	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	query, err := parseQuery(u.RawQuery)
	if err != nil {
		return err
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	delete(req, "url")
	req["urlPath"] = path

	params := make(map[string]any, len(query))
	for name, values := range query {
		if _, skip := n.excluded[name]; skip {
			continue
		}
		params[name] = queryMatcher(values)
	}
	if len(params) > 0 {
		req["queryParameters"] = params
	}
	return nil
}

// parseQuery splits a raw query on '&' only. Unlike url.ParseQuery it
// accepts a literal ';', which stays part of the value.
func parseQuery(raw string) (map[string][]string, error) {
	query := make(map[string][]string)
	for part := range strings.SplitSeq(raw, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, err
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return nil, err
		}
		query[k] = append(query[k], v)
	}
	return query, nil
}

// queryMatcher wraps recorded parameter values in equality matchers.
// A parameter repeated in the URL must match all of its values, using
// hasExactly, which WireMock supports from 3.0.
func queryMatcher(values []string) map[string]any {
	if len(values) == 1 {
		return map[string]any{"equalTo": values[0]}
	}
	all := make([]any, len(values))
	for i, v := range values {
		all[i] = map[string]any{"equalTo": v}
	}
	return map[string]any{"hasExactly": all}
}

// normalizeBodyPatterns parses equalToJson pattern strings into structured
// JSON, which the matcher accepts directly.
func normalizeBodyPatterns(req map[string]any) error {
	raw, present := req["bodyPatterns"]
	if !present {
		return nil
	}
	patterns, ok := raw.([]any)
	if !ok {
		return errors.New("bodyPatterns is not an array")
	}
	for i, p := range patterns {
		pattern, ok := p.(map[string]any)
		if !ok {
			continue
		}
		s, ok := pattern["equalToJson"].(string)
		if !ok {
			continue
		}
		v, err := decodeJSON([]byte(s))
		if err != nil {
			return fmt.Errorf("pattern %d: equalToJson: %w", i, err)
		}
		pattern["equalToJson"] = v
	}
	return nil
}

// promoteJSONBody moves a body that parses as JSON into jsonBody. A literal
// null stays in body, since a null jsonBody means no body at all.
func promoteJSONBody(resp map[string]any) {
	body, ok := resp["body"].(string)
	if !ok || body == "" {
		return
	}
	v, err := decodeJSON([]byte(body))
	if err != nil || v == nil {
		return
	}
	resp["jsonBody"] = v
	delete(resp, "body")
}

// decodeJSON decodes exactly one JSON value, keeping numbers as json.Number.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}
