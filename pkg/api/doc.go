// Package api defines the error taxonomy shared between the OpenAI
// dispatcher and the MCP tool surface.
//
// Three error kinds cover every failure mode:
//
//   - ConfigError: invalid or missing configuration, fatal at startup
//   - TransportError: network-level failure before an HTTP status exists
//   - ProviderError: any non-2xx response from the provider, carrying
//     the status code, parsed error fields, and throttling headers
//
// Provider errors are propagated unchanged through the dispatcher so
// callers can inspect exactly what the provider sent.
package api
