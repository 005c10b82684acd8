// Package config loads wirecheck settings.
//
// Values are resolved with the following precedence, highest first:
//
//  1. Command-line flags
//  2. Environment variables (WIRECHECK_*)
//  3. A config file: the one passed with --config, or .wirecheck.yaml in the
//     working directory
//  4. Defaults
//
// Sources records which layer supplied each field.
//
// Example .wirecheck.yaml:
//
//	baseUrl: http://wiremock:8080
//	stubsDir: features/mocks
//	timeout: 10s
//	readyTimeout: 2m
//	pollInterval: 1s
//	excludeParams: [wa_key, _ts]
//	logLevel: debug
package config
