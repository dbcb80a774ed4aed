package openai

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/modelrelay/relay/pkg/api"
)

// maxErrorBody caps how much of an error response body is retained.
const maxErrorBody = 8192

// errorEnvelope mirrors the OpenAI error response shape.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Param   string `json:"param"`
		Code    string `json:"code"`
	} `json:"error"`
}

// newProviderError converts a non-2xx response into a ProviderError,
// preserving the status, the raw body, and the Retry-After header. The
// structured error fields are filled in when the body parses as an
// OpenAI error envelope; an unparsable body is kept raw, not masked.
func newProviderError(resp *http.Response) *api.ProviderError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	pe := &api.ProviderError{
		StatusCode: resp.StatusCode,
		Body:       string(data),
		RetryAfter: resp.Header.Get("Retry-After"),
	}

	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err == nil {
		pe.Message = env.Error.Message
		pe.Type = env.Error.Type
		pe.Param = env.Error.Param
		pe.Code = env.Error.Code
	}
	return pe
}
