package openai

import (
	"context"
	"encoding/base64"
	"net/url"
)

// Endpoint labels used for metrics and logging.
const (
	endpointChat          = "chat.completions"
	endpointEmbeddings    = "embeddings"
	endpointModelsList    = "models.list"
	endpointModelsGet     = "models.get"
	endpointImages        = "images.generations"
	endpointSpeech        = "audio.speech"
	endpointTranscription = "audio.transcriptions"
	endpointModerations   = "moderations"
)

// CreateChatCompletion calls POST /v1/chat/completions.
func (c *Client) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	var out ChatCompletionResponse
	err := c.issue(ctx, endpointChat, func(ctx context.Context) error {
		return c.postJSON(ctx, endpointChat, "/v1/chat/completions", req, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEmbedding calls POST /v1/embeddings.
func (c *Client) CreateEmbedding(ctx context.Context, req *EmbeddingRequest) (*EmbeddingResponse, error) {
	var out EmbeddingResponse
	err := c.issue(ctx, endpointEmbeddings, func(ctx context.Context) error {
		return c.postJSON(ctx, endpointEmbeddings, "/v1/embeddings", req, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListModels calls GET /v1/models.
func (c *Client) ListModels(ctx context.Context) (*ModelList, error) {
	var out ModelList
	err := c.issue(ctx, endpointModelsList, func(ctx context.Context) error {
		return c.getJSON(ctx, endpointModelsList, "/v1/models", &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetModel calls GET /v1/models/{id}.
func (c *Client) GetModel(ctx context.Context, id string) (*Model, error) {
	var out Model
	err := c.issue(ctx, endpointModelsGet, func(ctx context.Context) error {
		return c.getJSON(ctx, endpointModelsGet, "/v1/models/"+url.PathEscape(id), &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateImage calls POST /v1/images/generations.
func (c *Client) GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResponse, error) {
	var out ImageResponse
	err := c.issue(ctx, endpointImages, func(ctx context.Context) error {
		return c.postJSON(ctx, endpointImages, "/v1/images/generations", req, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSpeech calls POST /v1/audio/speech. The endpoint returns raw
// audio bytes; they are re-encoded to base64 so the result stays
// text-safe end to end.
func (c *Client) CreateSpeech(ctx context.Context, req *SpeechRequest) (*SpeechResponse, error) {
	var out SpeechResponse
	err := c.issue(ctx, endpointSpeech, func(ctx context.Context) error {
		raw, err := c.postBinary(ctx, endpointSpeech, "/v1/audio/speech", req)
		if err != nil {
			return err
		}
		out.AudioBase64 = base64.StdEncoding.EncodeToString(raw)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTranscription calls POST /v1/audio/transcriptions.
//
// Limitation: the OpenAI API expects the audio as a multipart file
// upload. This client instead forwards the caller's file URL/reference
// as a JSON body field. Callers that rely on real file content being
// uploaded will not get correct results against the upstream API; this
// is a deliberate, documented simplification of file handling.
func (c *Client) CreateTranscription(ctx context.Context, req *TranscriptionRequest) (*TranscriptionResponse, error) {
	var out TranscriptionResponse
	err := c.issue(ctx, endpointTranscription, func(ctx context.Context) error {
		return c.postJSON(ctx, endpointTranscription, "/v1/audio/transcriptions", req, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateModeration calls POST /v1/moderations.
func (c *Client) CreateModeration(ctx context.Context, req *ModerationRequest) (*ModerationResponse, error) {
	var out ModerationResponse
	err := c.issue(ctx, endpointModerations, func(ctx context.Context) error {
		return c.postJSON(ctx, endpointModerations, "/v1/moderations", req, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
