// Package tools registers one MCP tool per OpenAI capability and
// renders dispatcher results for the protocol boundary.
//
// Handlers receive already-schema-validated arguments from the MCP SDK,
// forward them to the dispatcher, and return the decoded payload as
// JSON text. Every propagated error is converted into a textual IsError
// tool result; a provider failure never crashes the server process.
package tools
