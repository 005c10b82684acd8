package wiremocktest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/wirecheck/pkg/requestlog"
	"github.com/getmockd/wirecheck/pkg/stub"
)

const adminPrefix = "/__admin"

// Server is an in-memory stand-in for a mock server's admin API that also
// serves the stubs registered through it.
type Server struct {
	t       testing.TB
	httpSrv *httptest.Server

	mu          sync.Mutex
	mappings    []stub.Stub        // registration order
	journal     []requestlog.Entry // newest first
	adminCalls  []string           // "METHOD /path", in call order
	unavailable int                // admin calls left to fail with 503
	recording   bool
	target      string
	recorded    []json.RawMessage
}

// New starts a fake server. It is closed when the test completes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{t: t}
	s.httpSrv = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	t.Cleanup(s.httpSrv.Close)
	return s
}

// URL returns the base URL of the server.
func (s *Server) URL() string {
	return s.httpSrv.URL
}

// Client returns an HTTP client for the server.
func (s *Server) Client() *http.Client {
	return s.httpSrv.Client()
}

// Unavailable makes the next n admin calls answer 503, as a server that is
// still booting does.
func (s *Server) Unavailable(n int) {
	s.mu.Lock()
	s.unavailable = n
	s.mu.Unlock()
}

// SetRecordedMappings sets the mappings returned when a recording stops.
func (s *Server) SetRecordedMappings(mappings ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = make([]json.RawMessage, len(mappings))
	for i, m := range mappings {
		s.recorded[i] = json.RawMessage(m)
	}
}

// AddMapping registers a mapping directly, bypassing the admin API, and
// returns its id.
func (s *Server) AddMapping(doc string) string {
	s.t.Helper()
	st, err := stub.Decode([]byte(doc))
	if err != nil {
		s.t.Fatalf("wiremocktest: invalid mapping: %v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(st).ID()
}

// Mappings returns the registered mappings in registration order.
func (s *Server) Mappings() []stub.Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stub.Stub(nil), s.mappings...)
}

// Requests returns the request journal, newest first.
func (s *Server) Requests() []requestlog.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]requestlog.Entry(nil), s.journal...)
}

// AdminCalls returns every admin call received, as "METHOD /path".
func (s *Server) AdminCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.adminCalls...)
}

// Recording reports whether a recording is in progress and its target.
func (s *Server) Recording() (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording, s.target
}

// Call sends a request to the stub endpoint path and returns the status
// code.
func (s *Server) Call(method, path string) int {
	s.t.Helper()
	req, err := http.NewRequest(method, s.URL()+path, nil)
	if err != nil {
		s.t.Fatalf("wiremocktest: %v", err)
	}
	resp, err := s.Client().Do(req)
	if err != nil {
		s.t.Fatalf("wiremocktest: %s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, adminPrefix+"/") {
		s.serveAdmin(w, r)
		return
	}
	s.serveStub(w, r)
}

func (s *Server) serveAdmin(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.adminCalls = append(s.adminCalls, r.Method+" "+r.URL.Path)
	if s.unavailable > 0 {
		s.unavailable--
		writeError(w, http.StatusServiceUnavailable, "Server starting")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, adminPrefix)
	switch {
	case path == "/mappings" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"mappings": s.mappings,
			"meta":     map[string]int{"total": len(s.mappings)},
		})
	case path == "/mappings" && r.Method == http.MethodPost:
		data, _ := io.ReadAll(r.Body)
		st, err := stub.Decode(data)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Error parsing JSON")
			return
		}
		writeJSON(w, http.StatusCreated, s.addLocked(st))
	case path == "/mappings" && r.Method == http.MethodDelete:
		s.mappings = nil
		w.WriteHeader(http.StatusOK)
	case path == "/requests" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, requestlog.ListResponse{Requests: s.journal})
	case path == "/requests" && r.Method == http.MethodDelete:
		s.journal = nil
		w.WriteHeader(http.StatusOK)
	case path == "/recordings/start" && r.Method == http.MethodPost:
		var spec struct {
			TargetBaseURL string `json:"targetBaseUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&spec); err != nil || spec.TargetBaseURL == "" {
			writeError(w, http.StatusBadRequest, "targetBaseUrl is required")
			return
		}
		if s.recording {
			writeError(w, http.StatusConflict, "Recording already in progress")
			return
		}
		s.recording = true
		s.target = spec.TargetBaseURL
		w.WriteHeader(http.StatusOK)
	case path == "/recordings/stop" && r.Method == http.MethodPost:
		if !s.recording {
			writeError(w, http.StatusBadRequest, "Not currently recording")
			return
		}
		s.recording = false
		mappings := s.recorded
		if mappings == nil {
			mappings = []json.RawMessage{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"mappings": mappings})
	default:
		writeError(w, http.StatusNotFound, "No admin route for "+r.Method+" "+r.URL.Path)
	}
}

// addLocked assigns an id when the document has none, as the server does.
func (s *Server) addLocked(st stub.Stub) stub.Stub {
	if st.ID() == "" {
		st["id"] = uuid.NewString()
	}
	st["uuid"] = st["id"]
	s.mappings = append(s.mappings, st)
	return st
}

func (s *Server) serveStub(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	matched := s.matchLocked(r)

	entry := requestlog.Entry{
		ID: uuid.NewString(),
		Request: requestlog.LoggedRequest{
			Method:      r.Method,
			URL:         r.URL.RequestURI(),
			AbsoluteURL: s.URL() + r.URL.RequestURI(),
			ClientIP:    clientIP(r),
			Body:        string(body),
			LoggedDate:  time.Now().UnixMilli(),
		},
	}
	wasMatched := matched != nil
	entry.WasMatched = &wasMatched
	if matched != nil {
		entry.StubMapping = &requestlog.StubRef{ID: matched.ID(), Name: matched.Name()}
	}
	s.journal = append([]requestlog.Entry{entry}, s.journal...)
	s.mu.Unlock()

	if matched == nil {
		writeError(w, http.StatusNotFound, "Request was not matched")
		return
	}
	writeStubResponse(w, matched)
}

// matchLocked returns the most recently registered mapping matching r.
func (s *Server) matchLocked(r *http.Request) stub.Stub {
	for i := len(s.mappings) - 1; i >= 0; i-- {
		if matches(s.mappings[i], r) {
			return s.mappings[i]
		}
	}
	return nil
}

// matches supports the request fields the tests rely on: method, url,
// urlPath, urlPathPattern and equalTo query parameters.
func matches(st stub.Stub, r *http.Request) bool {
	req, _ := st["request"].(map[string]any)
	if req == nil {
		return false
	}
	if m, _ := req["method"].(string); m != "" && m != "ANY" && !strings.EqualFold(m, r.Method) {
		return false
	}
	if u, ok := req["url"].(string); ok && u != r.URL.RequestURI() {
		return false
	}
	if p, ok := req["urlPath"].(string); ok && p != r.URL.Path {
		return false
	}
	if p, ok := req["urlPathPattern"].(string); ok {
		re, err := regexp.Compile("^(?:" + p + ")$")
		if err != nil || !re.MatchString(r.URL.Path) {
			return false
		}
	}
	if params, ok := req["queryParameters"].(map[string]any); ok {
		query := r.URL.Query()
		for name, m := range params {
			matcher, _ := m.(map[string]any)
			want, _ := matcher["equalTo"].(string)
			if query.Get(name) != want {
				return false
			}
		}
	}
	return true
}

func writeStubResponse(w http.ResponseWriter, st stub.Stub) {
	resp, _ := st["response"].(map[string]any)
	status := http.StatusOK
	if n, ok := resp["status"].(json.Number); ok {
		if v, err := n.Int64(); err == nil {
			status = int(v)
		}
	}
	if headers, ok := resp["headers"].(map[string]any); ok {
		for k, v := range headers {
			w.Header().Set(k, fmt.Sprint(v))
		}
	}

	var body []byte
	if jb, ok := resp["jsonBody"]; ok {
		body, _ = json.Marshal(jb)
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
	} else if b, ok := resp["body"].(string); ok {
		body = []byte(b)
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, title string) {
	writeJSON(w, status, map[string]any{
		"errors": []map[string]string{{"title": title}},
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
