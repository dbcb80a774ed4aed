// Package openai implements the paced, retrying dispatcher for the
// OpenAI HTTP API.
//
// Every capability call funnels through one chokepoint that enforces a
// minimum spacing between outbound request issue times (100ms by
// default, a 10 req/s ceiling) and transparently retries provider
// throttling responses (HTTP 429) using the Retry-After header, up to a
// per-call retry budget. All other failures propagate unchanged as the
// api package's error types.
//
// The Client is constructed once per process and holds no state across
// requests other than the timestamp of the last permitted send slot.
package openai
