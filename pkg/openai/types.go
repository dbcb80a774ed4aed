package openai

// Request and response types for the supported OpenAI endpoints.
//
// Optional request fields are pointers (or omitempty-tagged values)
// so a field the caller never supplied is absent from the outgoing
// body, not sent as null or a zero default. The API treats absence and
// explicit null differently in places, so each optional is its own
// field rather than a generic nullish-strip pass over the body.

// ChatCompletionRequest is the request body for /v1/chat/completions.
// Messages and tools are carried as caller-supplied records verbatim.
type ChatCompletionRequest struct {
	Model            string           `json:"model"`
	Messages         []map[string]any `json:"messages"`
	Tools            []map[string]any `json:"tools,omitempty"`
	ToolChoice       any              `json:"tool_choice,omitempty"`
	Temperature      *float64         `json:"temperature,omitempty"`
	TopP             *float64         `json:"top_p,omitempty"`
	MaxTokens        *int             `json:"max_tokens,omitempty"`
	N                *int             `json:"n,omitempty"`
	Stop             []string         `json:"stop,omitempty"`
	FrequencyPenalty *float64         `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64         `json:"presence_penalty,omitempty"`
	Seed             *int             `json:"seed,omitempty"`
	ResponseFormat   map[string]any   `json:"response_format,omitempty"`
	User             string           `json:"user,omitempty"`
}

// ChatCompletionResponse is the response from /v1/chat/completions.
type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   *Usage       `json:"usage,omitempty"`
}

// ChatChoice is one completion choice.
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatMessage is an assistant message in a completion response.
type ChatMessage struct {
	Role      string           `json:"role"`
	Content   any              `json:"content"`
	ToolCalls []map[string]any `json:"tool_calls,omitempty"`
}

// Usage holds token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// EmbeddingRequest is the request body for /v1/embeddings. Input is a
// string or a list of strings.
type EmbeddingRequest struct {
	Model          string `json:"model"`
	Input          any    `json:"input"`
	Dimensions     *int   `json:"dimensions,omitempty"`
	EncodingFormat string `json:"encoding_format,omitempty"`
	User           string `json:"user,omitempty"`
}

// EmbeddingResponse is the response from /v1/embeddings.
type EmbeddingResponse struct {
	Object string      `json:"object"`
	Data   []Embedding `json:"data"`
	Model  string      `json:"model"`
	Usage  *Usage      `json:"usage,omitempty"`
}

// Embedding is one embedding vector.
type Embedding struct {
	Object    string    `json:"object"`
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// Model describes one available model.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelList is the response from /v1/models.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// ImageRequest is the request body for /v1/images/generations.
type ImageRequest struct {
	Prompt         string `json:"prompt"`
	Model          string `json:"model,omitempty"`
	N              *int   `json:"n,omitempty"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	Style          string `json:"style,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
	User           string `json:"user,omitempty"`
}

// ImageResponse is the response from /v1/images/generations.
type ImageResponse struct {
	Created int64       `json:"created"`
	Data    []ImageData `json:"data"`
}

// ImageData is one generated image, as a URL or inline base64.
type ImageData struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// SpeechRequest is the request body for /v1/audio/speech.
type SpeechRequest struct {
	Model          string   `json:"model"`
	Input          string   `json:"input"`
	Voice          string   `json:"voice"`
	ResponseFormat string   `json:"response_format,omitempty"`
	Speed          *float64 `json:"speed,omitempty"`
}

// SpeechResponse wraps the synthesized audio as base64 text. The speech
// endpoint returns raw bytes, but both the transport layer and the tool
// surface carry text-safe payloads only.
type SpeechResponse struct {
	AudioBase64 string `json:"audio_base64"`
}

// TranscriptionRequest is the request body for /v1/audio/transcriptions.
//
// File is a URL or reference forwarded as a body field. The real API
// expects a multipart file upload; see Client.CreateTranscription for
// the documented limitation.
type TranscriptionRequest struct {
	File           string   `json:"file"`
	Model          string   `json:"model"`
	Language       string   `json:"language,omitempty"`
	Prompt         string   `json:"prompt,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
	ResponseFormat string   `json:"response_format,omitempty"`
}

// TranscriptionResponse is the response from /v1/audio/transcriptions.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// ModerationRequest is the request body for /v1/moderations. Input is a
// string or a list of strings.
type ModerationRequest struct {
	Input any    `json:"input"`
	Model string `json:"model,omitempty"`
}

// ModerationResponse is the response from /v1/moderations.
type ModerationResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Results []ModerationResult `json:"results"`
}

// ModerationResult is one classification result.
type ModerationResult struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}
