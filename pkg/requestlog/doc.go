// Package requestlog models the mock server's request journal: the list of
// requests the server received, each annotated with the stub mapping that
// served it.
//
// # Core Types
//
// Entry is one journal record. Its StubMapping is nil when the request did
// not match any stub, which the coverage verifier reports as an unexpected
// request.
//
//	entries, err := client.ListRequests(ctx)
//	for _, e := range entries {
//	    if !e.Matched() {
//	        log.Printf("unexpected: %s %s", e.Request.Method, e.Request.AbsoluteURL)
//	    }
//	}
//
// # Package Design
//
// This is a leaf package with no internal dependencies, allowing it to be
// imported by the transport client and the verifier without creating cycles.
package requestlog
