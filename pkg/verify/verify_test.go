package verify

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/getmockd/wirecheck/pkg/requestlog"
	"github.com/getmockd/wirecheck/pkg/stub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T, ids ...string) *stub.Registry {
	t.Helper()
	reg := stub.NewRegistry()
	for _, id := range ids {
		require.NoError(t, reg.Register(stub.Stub{
			"id":       id,
			"name":     "stub " + id,
			"request":  map[string]any{"method": "GET", "urlPath": "/" + id},
			"response": map[string]any{"status": 200},
		}))
	}
	return reg
}

func hit(method, url, stubID string) requestlog.Entry {
	e := requestlog.Entry{
		Request: requestlog.LoggedRequest{
			Method:      method,
			URL:         url,
			AbsoluteURL: "http://mock:8080" + url,
		},
	}
	if stubID != "" {
		e.StubMapping = &requestlog.StubRef{ID: stubID}
	}
	return e
}

func TestVerify_FullCoverage(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, 20} {
		t.Run(fmt.Sprintf("%d stubs", n), func(t *testing.T) {
			ids := make([]string, n)
			for i := range ids {
				ids[i] = fmt.Sprintf("stub-%d", i)
			}
			reg := newRegistry(t, ids...)

			observed := make([]requestlog.Entry, n)
			for i, id := range ids {
				observed[i] = hit("GET", "/"+id, id)
			}
			rand.New(rand.NewSource(int64(n))).Shuffle(len(observed), func(i, j int) {
				observed[i], observed[j] = observed[j], observed[i]
			})

			assert.NoError(t, Verify(reg, observed))
		})
	}
}

func TestVerify_RepeatedHitsStillPass(t *testing.T) {
	reg := newRegistry(t, "a", "b")
	observed := []requestlog.Entry{
		hit("GET", "/a", "a"),
		hit("GET", "/a", "a"),
		hit("GET", "/b", "b"),
	}
	assert.NoError(t, Verify(reg, observed))
}

func TestVerify_UnexpectedRequest(t *testing.T) {
	reg := newRegistry(t, "a", "b")

	t.Run("fails regardless of other valid requests", func(t *testing.T) {
		observed := []requestlog.Entry{
			hit("GET", "/a", "a"),
			hit("POST", "/unknown", ""),
			hit("GET", "/b", "b"),
		}

		err := Verify(reg, observed)

		var unexpected *UnexpectedRequestError
		require.True(t, errors.As(err, &unexpected), "got %v", err)
		assert.Equal(t, "POST", unexpected.Method)
		assert.Equal(t, "http://mock:8080/unknown", unexpected.URL)
		assert.Contains(t, err.Error(), "POST http://mock:8080/unknown")
	})

	t.Run("takes precedence over unused stubs", func(t *testing.T) {
		err := Verify(reg, []requestlog.Entry{hit("GET", "/nowhere", "")})

		var unexpected *UnexpectedRequestError
		assert.True(t, errors.As(err, &unexpected), "got %v", err)
	})

	t.Run("server default mapping is not a match", func(t *testing.T) {
		e := hit("GET", "/a", "a")
		wasMatched := false
		e.WasMatched = &wasMatched

		err := Verify(reg, []requestlog.Entry{e})

		var unexpected *UnexpectedRequestError
		require.True(t, errors.As(err, &unexpected), "got %v", err)
		assert.Equal(t, "http://mock:8080/a", unexpected.URL)
	})

	t.Run("first anomaly wins", func(t *testing.T) {
		observed := []requestlog.Entry{
			hit("GET", "/first", ""),
			hit("GET", "/second", ""),
		}
		err := Verify(reg, observed)

		var unexpected *UnexpectedRequestError
		require.True(t, errors.As(err, &unexpected))
		assert.Equal(t, "http://mock:8080/first", unexpected.URL)
	})
}

func TestVerify_UnexpectedStub(t *testing.T) {
	reg := newRegistry(t, "a")
	observed := []requestlog.Entry{
		hit("GET", "/a", "a"),
		hit("DELETE", "/leftover", "stale-stub"),
	}

	err := Verify(reg, observed)

	var unexpected *UnexpectedStubError
	require.True(t, errors.As(err, &unexpected), "got %v", err)
	assert.Equal(t, "DELETE", unexpected.Method)
	assert.Equal(t, "http://mock:8080/leftover", unexpected.URL)
	assert.Equal(t, "stale-stub", unexpected.StubID)
}

func TestVerify_UnusedStubs(t *testing.T) {
	t.Run("single unused stub", func(t *testing.T) {
		reg := newRegistry(t, "a", "b", "c")
		observed := []requestlog.Entry{
			hit("GET", "/a", "a"),
			hit("GET", "/c", "c"),
		}

		err := Verify(reg, observed)

		var unused *UnusedStubsError
		require.True(t, errors.As(err, &unused), "got %v", err)
		assert.Equal(t, []string{"b"}, unused.IDs())
		// the full document is included, not only the id
		assert.Contains(t, err.Error(), `"urlPath": "/b"`)
		assert.Contains(t, err.Error(), `"name": "stub b"`)
	})

	t.Run("all unused stubs are collected in registration order", func(t *testing.T) {
		reg := newRegistry(t, "x", "y", "z")

		err := Verify(reg, nil)

		var unused *UnusedStubsError
		require.True(t, errors.As(err, &unused))
		assert.Equal(t, []string{"x", "y", "z"}, unused.IDs())
	})
}

func TestVerify_EmptyRegistryAndJournal(t *testing.T) {
	assert.NoError(t, Verify(stub.NewRegistry(), nil))
}

func TestReport(t *testing.T) {
	reg := newRegistry(t, "a", "b", "c")
	observed := []requestlog.Entry{
		hit("GET", "/a", "a"),
		hit("GET", "/a", "a"),
		hit("GET", "/x", ""),
		hit("GET", "/old", "stale"),
		hit("GET", "/c", "c"),
	}

	summary := Report(reg, observed)

	assert.Equal(t, 5, summary.Requests)
	assert.Equal(t, []StubHits{
		{ID: "a", Name: "stub a", Count: 2},
		{ID: "b", Name: "stub b", Count: 0},
		{ID: "c", Name: "stub c", Count: 1},
	}, summary.Stubs)
	assert.Equal(t, []UnmatchedRequest{
		{Method: "GET", URL: "http://mock:8080/x"},
		{Method: "GET", URL: "http://mock:8080/old", StubID: "stale"},
	}, summary.Unmatched)
	assert.Equal(t, 1, summary.Unused())
	assert.False(t, summary.Passed())
}

func TestReport_Passed(t *testing.T) {
	reg := newRegistry(t, "a")
	summary := Report(reg, []requestlog.Entry{hit("GET", "/a", "a")})
	assert.True(t, summary.Passed())
	assert.Empty(t, summary.Unmatched)
}

func TestReport_UnmatchedCarriesLogTime(t *testing.T) {
	reg := newRegistry(t, "a")
	stray := hit("GET", "/stray", "")
	stray.Request.LoggedDate = 1700000000000
	notFound := hit("GET", "/a", "a")
	wasMatched := false
	notFound.WasMatched = &wasMatched

	summary := Report(reg, []requestlog.Entry{stray, notFound})

	require.Len(t, summary.Unmatched, 2)
	assert.Equal(t, time.UnixMilli(1700000000000), summary.Unmatched[0].LoggedAt)
	assert.True(t, summary.Unmatched[1].LoggedAt.IsZero())
	assert.Empty(t, summary.Unmatched[1].StubID)
	assert.Equal(t, 0, summary.Stubs[0].Count)
	assert.False(t, summary.Passed())
}
