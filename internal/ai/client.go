// Package ai talks to an OpenAI-compatible API for chat completions, image
// generation and audio transcription.
package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	RoleSystem    = openai.ChatMessageRoleSystem
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

var ErrEmptyCompletion = errors.New("model returned no choices")

type Config struct {
	APIKey             string
	BaseURL            string
	Model              string
	ImageModel         string
	TranscriptionModel string
	Timeout            time.Duration
}

type Message struct {
	Role    string
	Content string
}

type CompletionOptions struct {
	MaxTokens   int
	Temperature float32
}

type Client struct {
	api                *openai.Client
	model              string
	imageModel         string
	transcriptionModel string
}

func NewClient(cfg Config) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:                openai.NewClientWithConfig(oc),
		model:              cfg.Model,
		imageModel:         cfg.ImageModel,
		transcriptionModel: cfg.TranscriptionModel,
	}
}

// Complete sends the transcript to the model and returns the reply text.
func (c *Client) Complete(ctx context.Context, messages []Message, opts CompletionOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

type ImageRequest struct {
	Prompt  string
	Size    string
	N       int
	Quality string
	Style   string
}

type Image struct {
	URL    string `json:"url"`
	Base64 string `json:"base64,omitempty"`
}

func (c *Client) GenerateImages(ctx context.Context, in ImageRequest) ([]Image, error) {
	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Prompt:         in.Prompt,
		Model:          c.imageModel,
		N:              in.N,
		Size:           in.Size,
		Quality:        in.Quality,
		Style:          in.Style,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, fmt.Errorf("image generation: %w", err)
	}

	images := make([]Image, 0, len(resp.Data))
	for _, d := range resp.Data {
		images = append(images, Image{URL: d.URL, Base64: d.B64JSON})
	}
	return images, nil
}

type TranscriptionRequest struct {
	Audio          io.Reader
	Filename       string
	Language       string
	Prompt         string
	ResponseFormat string
	Temperature    float32
}

type Transcription struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

func (c *Client) Transcribe(ctx context.Context, in TranscriptionRequest) (*Transcription, error) {
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:       c.transcriptionModel,
		Reader:      in.Audio,
		FilePath:    in.Filename,
		Prompt:      in.Prompt,
		Temperature: in.Temperature,
		Language:    in.Language,
		Format:      openai.AudioResponseFormat(in.ResponseFormat),
	})
	if err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}
	return &Transcription{Text: resp.Text, Language: resp.Language, Duration: resp.Duration}, nil
}
