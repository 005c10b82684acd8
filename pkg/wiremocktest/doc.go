// Package wiremocktest provides an in-memory mock server for testing code
// that drives the /__admin API.
//
// The server implements the mapping, request journal and recording
// endpoints, and serves registered stubs so a test can exercise the full
// register, call, verify cycle:
//
//	func TestCheckout(t *testing.T) {
//	    srv := wiremocktest.New(t)
//
//	    client := adminclient.New(srv.URL())
//	    _, err := client.CreateMapping(ctx, []byte(
//	        wiremocktest.NewStub("GET", "/cart").WithJSONBody(cart).JSON()))
//	    ...
//	    srv.Call("GET", "/cart")
//	}
//
// Unavailable simulates a server that is still booting, and
// SetRecordedMappings sets what a stopped recording returns.
//
// Stub matching covers method, url, urlPath, urlPathPattern and equalTo
// query parameters only. It is not a matching engine.
package wiremocktest
