// Package cli provides the command-line interface for wirecheck.
//
// The cli package implements the commands a CI job uses around a WireMock
// server:
//   - wait: Block until the admin API answers
//   - clean: Delete every stub and the request journal
//   - load: Register stub files, directories or globs
//   - run: Clean, load stubs, run a test command and check coverage
//   - record start/stop: Capture traffic proxied to a real service
//   - normalize: Turn a saved recording into stub files offline
//   - config: Display the resolved configuration
//   - version: Show wirecheck version
//
// Configuration is resolved from defaults, a .wirecheck.yaml file,
// WIRECHECK_* environment variables and flags, later sources winning.
package cli
