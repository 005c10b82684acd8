// Package harness drives a mock server for one test scenario at a time:
// it waits for the server, registers stubs, checks that every stub was
// exercised, and turns recorded traffic into stub files.
package harness

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/wirecheck/pkg/adminclient"
	"github.com/getmockd/wirecheck/pkg/logging"
	"github.com/getmockd/wirecheck/pkg/readiness"
	"github.com/getmockd/wirecheck/pkg/recording"
	"github.com/getmockd/wirecheck/pkg/stub"
	"github.com/getmockd/wirecheck/pkg/verify"
)

// Config holds the settings a harness needs.
type Config struct {
	// BaseURL is the mock server URL.
	BaseURL string
	// StubsDir is the directory stub paths are resolved against, both when
	// loading stubs and when saving recordings.
	StubsDir string
	// ReadyTimeout and PollInterval bound the readiness wait.
	ReadyTimeout time.Duration
	PollInterval time.Duration
	// Timeout is the per-request admin API timeout, used when no client is
	// supplied.
	Timeout time.Duration
}

// ErrNoBaseURL is returned by New when neither a base URL nor a client is
// given.
var ErrNoBaseURL = errors.New("harness: base URL is required")

// Harness is the per-process test session. Scenarios run one at a time;
// a Harness is not safe for concurrent use.
type Harness struct {
	cfg        Config
	client     *adminclient.Client
	tracker    *readiness.Tracker
	normalizer *recording.Normalizer
	loader     *stub.Loader
	writer     *recording.Writer
	registry   *stub.Registry
	baseLogger *slog.Logger
	logger     *slog.Logger
	session    string
}

// Option configures a Harness.
type Option func(*Harness)

// WithClient sets the admin API client.
func WithClient(c *adminclient.Client) Option {
	return func(h *Harness) {
		h.client = c
	}
}

// WithTracker shares a readiness tracker, so that only the first harness
// of a process waits for the server.
func WithTracker(t *readiness.Tracker) Option {
	return func(h *Harness) {
		h.tracker = t
	}
}

// WithNormalizer sets the recording normalizer.
func WithNormalizer(n *recording.Normalizer) Option {
	return func(h *Harness) {
		h.normalizer = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.baseLogger = logger
	}
}

// New creates a harness.
func New(cfg Config, opts ...Option) (*Harness, error) {
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = readiness.DefaultTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = readiness.DefaultInterval
	}

	h := &Harness{
		cfg:        cfg,
		registry:   stub.NewRegistry(),
		baseLogger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.baseLogger = logging.Component(h.baseLogger, "harness")

	if h.client == nil {
		if cfg.BaseURL == "" {
			return nil, ErrNoBaseURL
		}
		clientOpts := []adminclient.Option{adminclient.WithLogger(h.baseLogger)}
		if cfg.Timeout > 0 {
			clientOpts = append(clientOpts, adminclient.WithTimeout(cfg.Timeout))
		}
		h.client = adminclient.New(cfg.BaseURL, clientOpts...)
	}
	if h.tracker == nil {
		h.tracker = readiness.NewTracker()
	}
	if h.normalizer == nil {
		n, err := recording.NewNormalizer(recording.WithLogger(h.baseLogger))
		if err != nil {
			return nil, err
		}
		h.normalizer = n
	}

	h.loader = stub.NewLoader(cfg.StubsDir)
	h.writer = recording.NewWriter(cfg.StubsDir, h.baseLogger)
	h.newSession()
	return h, nil
}

func (h *Harness) newSession() {
	h.session = uuid.NewString()
	h.logger = logging.Session(h.baseLogger, h.session)
}

// Registry returns the stubs registered in the current scenario.
func (h *Harness) Registry() *stub.Registry {
	return h.registry
}

// Client returns the admin API client.
func (h *Harness) Client() *adminclient.Client {
	return h.client
}

// Session returns the id of the current scenario session.
func (h *Harness) Session() string {
	return h.session
}

// BeforeScenario waits for the mock server, unless a previous scenario
// already saw it ready, and starts a fresh registry.
func (h *Harness) BeforeScenario(ctx context.Context) error {
	h.newSession()

	prober := readiness.NewProber(h.client.Ping, h.tracker, h.logger)
	if err := prober.WaitUntilReady(ctx, h.cfg.ReadyTimeout, h.cfg.PollInterval); err != nil {
		return err
	}

	h.registry.Clear()
	h.logger.Debug("scenario started")
	return nil
}

// AddStub registers the stub document body with the server and tracks the
// stored mapping.
func (h *Harness) AddStub(ctx context.Context, body []byte) (stub.Stub, error) {
	created, err := h.client.CreateMapping(ctx, body)
	if err != nil {
		return nil, err
	}
	if err := h.registry.Register(created); err != nil {
		return nil, err
	}
	h.logger.Debug("stub registered", "stubId", created.ID(), "name", created.Name())
	return created, nil
}

// AddStubsFromPath registers every stub file path names: a file, a
// directory (non-recursive) or a glob, relative to the stubs directory.
// Files are registered in sorted order. The first failure stops loading
// and is reported with the file's path.
func (h *Harness) AddStubsFromPath(ctx context.Context, path string) ([]stub.Stub, error) {
	files, err := h.loader.Load(path)
	if err != nil {
		return nil, err
	}

	added := make([]stub.Stub, 0, len(files))
	for _, f := range files {
		s, err := h.AddStub(ctx, f.Data)
		if err != nil {
			return added, &stub.LoadError{Path: f.Path, Err: err}
		}
		added = append(added, s)
	}
	h.logger.Info("stubs loaded", "path", path, "count", len(added))
	return added, nil
}

// Clean deletes every stub and the request journal on the server, and
// forgets the stubs registered so far.
func (h *Harness) Clean(ctx context.Context) error {
	if err := h.client.ResetMappings(ctx); err != nil {
		return err
	}
	if err := h.client.ResetRequests(ctx); err != nil {
		return err
	}
	h.registry.Clear()
	h.logger.Debug("mock server cleaned")
	return nil
}

// VerifyAllStubsMatched fails when the journal holds a request no
// registered stub served, or when a registered stub served nothing.
func (h *Harness) VerifyAllStubsMatched(ctx context.Context) error {
	entries, err := h.client.ListRequests(ctx)
	if err != nil {
		return err
	}
	if err := verify.Verify(h.registry, entries); err != nil {
		h.logger.Warn("coverage check failed", "error", err)
		return err
	}
	h.logger.Debug("all stubs matched", "count", h.registry.Len(), "requests", len(entries))
	return nil
}

// Report returns per-stub coverage without failing.
func (h *Harness) Report(ctx context.Context) (verify.Summary, error) {
	entries, err := h.client.ListRequests(ctx)
	if err != nil {
		return verify.Summary{}, err
	}
	return verify.Report(h.registry, entries), nil
}

// StartRecording proxies traffic to targetURL and records it.
func (h *Harness) StartRecording(ctx context.Context, targetURL string) error {
	return h.client.StartRecording(ctx, targetURL)
}

// StopRecording ends the recording session, discarding what was captured.
func (h *Harness) StopRecording(ctx context.Context) (*recording.Result, error) {
	return h.client.StopRecording(ctx)
}

// StopRecordingAndSave ends the recording session and writes one normalized
// stub file per captured mapping under path, relative to the stubs
// directory. Nothing is written if any mapping is malformed.
func (h *Harness) StopRecordingAndSave(ctx context.Context, path string) ([]string, error) {
	result, err := h.client.StopRecording(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := h.normalizer.Normalize(result.Mappings)
	if err != nil {
		return nil, err
	}
	return h.writer.WriteAll(path, docs)
}
