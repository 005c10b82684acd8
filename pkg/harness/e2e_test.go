//go:build e2e

package harness_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/getmockd/wirecheck/pkg/harness"
	"github.com/getmockd/wirecheck/pkg/verify"
)

// Run with: go test -tags e2e ./pkg/harness/ (requires Docker)

const wiremockImage = "wiremock/wiremock:3.13.0"

type wiremock struct {
	ctr testcontainers.Container
	url string
}

func startWireMock(t *testing.T) *wiremock {
	t.Helper()
	ctx := context.Background()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        wiremockImage,
			ExposedPorts: []string{"8080/tcp"},
			ExtraHosts:   []string{"host.docker.internal:host-gateway"},
			WaitingFor: wait.ForHTTP("/__admin/mappings").
				WithPort("8080/tcp").
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	endpoint, err := ctr.PortEndpoint(ctx, "8080/tcp", "http")
	require.NoError(t, err)
	return &wiremock{ctr: ctr, url: endpoint}
}

func newHarness(t *testing.T, baseURL string) *harness.Harness {
	t.Helper()
	h, err := harness.New(harness.Config{
		BaseURL:      baseURL,
		StubsDir:     t.TempDir(),
		ReadyTimeout: 30 * time.Second,
		PollInterval: 250 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, h.BeforeScenario(context.Background()))
	require.NoError(t, h.Clean(context.Background()))
	return h
}

func get(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestE2E_Coverage(t *testing.T) {
	wm := startWireMock(t)
	h := newHarness(t, wm.url)
	ctx := context.Background()

	_, err := h.AddStub(ctx, []byte(`{"name": "items", "request": {"method": "GET", "urlPath": "/items"},
		"response": {"status": 200, "jsonBody": [1, 2]}}`))
	require.NoError(t, err)
	unused, err := h.AddStub(ctx, []byte(`{"name": "users", "request": {"method": "GET", "urlPath": "/users"},
		"response": {"status": 200}}`))
	require.NoError(t, err)

	assert.JSONEq(t, `[1, 2]`, get(t, wm.url+"/items"))

	err = h.VerifyAllStubsMatched(ctx)
	var unusedErr *verify.UnusedStubsError
	require.True(t, errors.As(err, &unusedErr), "got %v", err)
	assert.Equal(t, []string{unused.ID()}, unusedErr.IDs())

	get(t, wm.url+"/users")
	require.NoError(t, h.VerifyAllStubsMatched(ctx))

	get(t, wm.url+"/stray")
	var unexpected *verify.UnexpectedRequestError
	require.True(t, errors.As(h.VerifyAllStubsMatched(ctx), &unexpected))
	assert.Equal(t, "GET", unexpected.Method)
}

func TestE2E_RecordAndSave(t *testing.T) {
	backend := startWireMock(t)
	recorder := startWireMock(t)
	ctx := context.Background()

	b := newHarness(t, backend.url)
	_, err := b.AddStub(ctx, []byte(`{"name": "items", "request": {"method": "GET", "urlPath": "/api/items"},
		"response": {"status": 200, "headers": {"Content-Type": "application/json"}, "body": "{\"items\":[\"a\"]}"}}`))
	require.NoError(t, err)

	port, err := backend.ctr.MappedPort(ctx, "8080/tcp")
	require.NoError(t, err)

	r := newHarness(t, recorder.url)
	require.NoError(t, r.StartRecording(ctx, "http://host.docker.internal:"+port.Port()))
	assert.JSONEq(t, `{"items":["a"]}`, get(t, recorder.url+"/api/items?color=red&wa_key=k1"))

	paths, err := r.StopRecordingAndSave(ctx, "recorded")
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "00_", filepath.Base(paths[0])[:3])

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.NotContains(t, doc, "id")
	assert.NotContains(t, doc, "uuid")
	req := doc["request"].(map[string]any)
	assert.Equal(t, "/api/items", req["urlPath"])
	assert.Equal(t, map[string]any{"color": map[string]any{"equalTo": "red"}}, req["queryParameters"])
	resp := doc["response"].(map[string]any)
	assert.Equal(t, map[string]any{"items": []any{"a"}}, resp["jsonBody"])
	assert.NotContains(t, resp, "headers")
}
