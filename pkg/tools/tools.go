package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/modelrelay/relay/pkg/debug"
	"github.com/modelrelay/relay/pkg/openai"
)

// Handlers bundles the dispatcher shared by all tool handlers.
type Handlers struct {
	client *openai.Client
}

// NewHandlers creates the tool handler set around a dispatcher.
func NewHandlers(client *openai.Client) *Handlers {
	return &Handlers{client: client}
}

// Register adds all capability tools to the MCP server.
func Register(server *mcp.Server, client *openai.Client) {
	h := NewHandlers(client)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "chat_completion",
		Description: "Generate a chat completion from a list of messages",
	}, h.ChatCompletion)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_embedding",
		Description: "Create embedding vectors for the given input text",
	}, h.CreateEmbedding)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_models",
		Description: "List the models available to the configured API key",
	}, h.ListModels)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_model",
		Description: "Retrieve metadata for a single model",
	}, h.GetModel)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_image",
		Description: "Generate images from a text prompt",
	}, h.GenerateImage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "text_to_speech",
		Description: "Synthesize speech from text; returns base64-encoded audio",
	}, h.TextToSpeech)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcribe_audio",
		Description: "Transcribe audio to text. Limitation: the file argument is forwarded as a URL/reference, not uploaded as multipart file content",
	}, h.TranscribeAudio)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "moderate_content",
		Description: "Classify text against the moderation policy",
	}, h.ModerateContent)

	debug.Log("tools", "registered capability tools", "count", 8)
}

// ChatCompletionInput holds chat_completion tool arguments. Optional
// fields are pointers so omitted arguments stay absent from the
// outgoing request body.
type ChatCompletionInput struct {
	Model            string           `json:"model" jsonschema_description:"Model ID to use"`
	Messages         []map[string]any `json:"messages" jsonschema_description:"Chat messages as role/content records"`
	Tools            []map[string]any `json:"tools,omitempty" jsonschema_description:"Tool definitions offered to the model"`
	ToolChoice       any              `json:"tool_choice,omitempty" jsonschema_description:"Tool choice directive"`
	Temperature      *float64         `json:"temperature,omitempty" jsonschema_description:"Sampling temperature, 0..2"`
	TopP             *float64         `json:"top_p,omitempty" jsonschema_description:"Nucleus sampling probability mass"`
	MaxTokens        *int             `json:"max_tokens,omitempty" jsonschema_description:"Maximum completion tokens"`
	N                *int             `json:"n,omitempty" jsonschema_description:"Number of choices to generate"`
	Stop             []string         `json:"stop,omitempty" jsonschema_description:"Stop sequences"`
	FrequencyPenalty *float64         `json:"frequency_penalty,omitempty" jsonschema_description:"Frequency penalty, -2..2"`
	PresencePenalty  *float64         `json:"presence_penalty,omitempty" jsonschema_description:"Presence penalty, -2..2"`
	Seed             *int             `json:"seed,omitempty" jsonschema_description:"Deterministic sampling seed"`
	ResponseFormat   map[string]any   `json:"response_format,omitempty" jsonschema_description:"Response format directive"`
	User             string           `json:"user,omitempty" jsonschema_description:"End-user identifier"`
}

// ChatCompletion handles the chat_completion tool.
func (h *Handlers) ChatCompletion(ctx context.Context, _ *mcp.CallToolRequest, input ChatCompletionInput) (*mcp.CallToolResult, struct{}, error) {
	resp, err := h.client.CreateChatCompletion(ctx, &openai.ChatCompletionRequest{
		Model:            input.Model,
		Messages:         input.Messages,
		Tools:            input.Tools,
		ToolChoice:       input.ToolChoice,
		Temperature:      input.Temperature,
		TopP:             input.TopP,
		MaxTokens:        input.MaxTokens,
		N:                input.N,
		Stop:             input.Stop,
		FrequencyPenalty: input.FrequencyPenalty,
		PresencePenalty:  input.PresencePenalty,
		Seed:             input.Seed,
		ResponseFormat:   input.ResponseFormat,
		User:             input.User,
	})
	if err != nil {
		return errResult("chat_completion", err), struct{}{}, nil
	}
	return jsonResult("chat_completion", resp), struct{}{}, nil
}

// CreateEmbeddingInput holds create_embedding tool arguments.
type CreateEmbeddingInput struct {
	Model          string `json:"model" jsonschema_description:"Embedding model ID"`
	Input          any    `json:"input" jsonschema_description:"Text or list of texts to embed"`
	Dimensions     *int   `json:"dimensions,omitempty" jsonschema_description:"Output vector dimensions"`
	EncodingFormat string `json:"encoding_format,omitempty" jsonschema_description:"float or base64"`
	User           string `json:"user,omitempty" jsonschema_description:"End-user identifier"`
}

// CreateEmbedding handles the create_embedding tool.
func (h *Handlers) CreateEmbedding(ctx context.Context, _ *mcp.CallToolRequest, input CreateEmbeddingInput) (*mcp.CallToolResult, struct{}, error) {
	resp, err := h.client.CreateEmbedding(ctx, &openai.EmbeddingRequest{
		Model:          input.Model,
		Input:          input.Input,
		Dimensions:     input.Dimensions,
		EncodingFormat: input.EncodingFormat,
		User:           input.User,
	})
	if err != nil {
		return errResult("create_embedding", err), struct{}{}, nil
	}
	return jsonResult("create_embedding", resp), struct{}{}, nil
}

// ListModels handles the list_models tool.
func (h *Handlers) ListModels(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, struct{}, error) {
	resp, err := h.client.ListModels(ctx)
	if err != nil {
		return errResult("list_models", err), struct{}{}, nil
	}
	return jsonResult("list_models", resp), struct{}{}, nil
}

// GetModelInput holds get_model tool arguments.
type GetModelInput struct {
	Model string `json:"model" jsonschema_description:"Model ID to look up"`
}

// GetModel handles the get_model tool.
func (h *Handlers) GetModel(ctx context.Context, _ *mcp.CallToolRequest, input GetModelInput) (*mcp.CallToolResult, struct{}, error) {
	resp, err := h.client.GetModel(ctx, input.Model)
	if err != nil {
		return errResult("get_model", err), struct{}{}, nil
	}
	return jsonResult("get_model", resp), struct{}{}, nil
}

// GenerateImageInput holds generate_image tool arguments.
type GenerateImageInput struct {
	Prompt         string `json:"prompt" jsonschema_description:"Text description of the desired image"`
	Model          string `json:"model,omitempty" jsonschema_description:"Image model ID"`
	N              *int   `json:"n,omitempty" jsonschema_description:"Number of images"`
	Size           string `json:"size,omitempty" jsonschema_description:"Image size, e.g. 1024x1024"`
	Quality        string `json:"quality,omitempty" jsonschema_description:"standard or hd"`
	Style          string `json:"style,omitempty" jsonschema_description:"vivid or natural"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema_description:"url or b64_json"`
	User           string `json:"user,omitempty" jsonschema_description:"End-user identifier"`
}

// GenerateImage handles the generate_image tool.
func (h *Handlers) GenerateImage(ctx context.Context, _ *mcp.CallToolRequest, input GenerateImageInput) (*mcp.CallToolResult, struct{}, error) {
	resp, err := h.client.GenerateImage(ctx, &openai.ImageRequest{
		Prompt:         input.Prompt,
		Model:          input.Model,
		N:              input.N,
		Size:           input.Size,
		Quality:        input.Quality,
		Style:          input.Style,
		ResponseFormat: input.ResponseFormat,
		User:           input.User,
	})
	if err != nil {
		return errResult("generate_image", err), struct{}{}, nil
	}
	return jsonResult("generate_image", resp), struct{}{}, nil
}

// TextToSpeechInput holds text_to_speech tool arguments.
type TextToSpeechInput struct {
	Model          string   `json:"model" jsonschema_description:"TTS model ID"`
	Input          string   `json:"input" jsonschema_description:"Text to synthesize"`
	Voice          string   `json:"voice" jsonschema_description:"Voice name"`
	ResponseFormat string   `json:"response_format,omitempty" jsonschema_description:"Audio format, e.g. mp3"`
	Speed          *float64 `json:"speed,omitempty" jsonschema_description:"Playback speed, 0.25..4.0"`
}

// TextToSpeech handles the text_to_speech tool. The result carries the
// audio as base64 text.
func (h *Handlers) TextToSpeech(ctx context.Context, _ *mcp.CallToolRequest, input TextToSpeechInput) (*mcp.CallToolResult, struct{}, error) {
	resp, err := h.client.CreateSpeech(ctx, &openai.SpeechRequest{
		Model:          input.Model,
		Input:          input.Input,
		Voice:          input.Voice,
		ResponseFormat: input.ResponseFormat,
		Speed:          input.Speed,
	})
	if err != nil {
		return errResult("text_to_speech", err), struct{}{}, nil
	}
	return jsonResult("text_to_speech", resp), struct{}{}, nil
}

// TranscribeAudioInput holds transcribe_audio tool arguments.
type TranscribeAudioInput struct {
	File        string   `json:"file" jsonschema_description:"Audio file URL or reference (not uploaded as file content)"`
	Model       string   `json:"model" jsonschema_description:"Transcription model ID"`
	Language    string   `json:"language,omitempty" jsonschema_description:"Input language as ISO-639-1 code"`
	Prompt      string   `json:"prompt,omitempty" jsonschema_description:"Optional transcription hint"`
	Temperature *float64 `json:"temperature,omitempty" jsonschema_description:"Sampling temperature, 0..1"`
}

// TranscribeAudio handles the transcribe_audio tool. See the tool
// description for the file-handling limitation.
func (h *Handlers) TranscribeAudio(ctx context.Context, _ *mcp.CallToolRequest, input TranscribeAudioInput) (*mcp.CallToolResult, struct{}, error) {
	resp, err := h.client.CreateTranscription(ctx, &openai.TranscriptionRequest{
		File:        input.File,
		Model:       input.Model,
		Language:    input.Language,
		Prompt:      input.Prompt,
		Temperature: input.Temperature,
	})
	if err != nil {
		return errResult("transcribe_audio", err), struct{}{}, nil
	}
	return jsonResult("transcribe_audio", resp), struct{}{}, nil
}

// ModerateContentInput holds moderate_content tool arguments.
type ModerateContentInput struct {
	Input any    `json:"input" jsonschema_description:"Text or list of texts to classify"`
	Model string `json:"model,omitempty" jsonschema_description:"Moderation model ID"`
}

// ModerateContent handles the moderate_content tool.
func (h *Handlers) ModerateContent(ctx context.Context, _ *mcp.CallToolRequest, input ModerateContentInput) (*mcp.CallToolResult, struct{}, error) {
	resp, err := h.client.CreateModeration(ctx, &openai.ModerationRequest{
		Input: input.Input,
		Model: input.Model,
	})
	if err != nil {
		return errResult("moderate_content", err), struct{}{}, nil
	}
	return jsonResult("moderate_content", resp), struct{}{}, nil
}
