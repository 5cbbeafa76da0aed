package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"unit-chat-be/internal/constant"
	"unit-chat-be/pkg/prompt"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

type GeminiChatParts struct {
	Text       string            `json:"text,omitempty"`
	InlineData *GeminiInlineData `json:"inlineData,omitempty"`
}

type GeminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type GeminiChatContent struct {
	Parts []*GeminiChatParts `json:"parts"`
	Role  string             `json:"role,omitempty"`
}

type GeminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type GeminiChatRequest struct {
	Contents         []*GeminiChatContent    `json:"contents"`
	GenerationConfig *GeminiGenerationConfig `json:"generationConfig,omitempty"`
}

type GeminiChatCandidate struct {
	Content *GeminiChatContent `json:"content"`
}

type GeminiChatResponse struct {
	Candidates []*GeminiChatCandidate `json:"candidates"`
}

// GenerationConfig carries the tunable sampling parameters for one call.
type GenerationConfig struct {
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

// UpstreamError is any transport or backend-reported completion failure. The
// gateway performs no retries; retry policy, if any, belongs to the caller.
type UpstreamError struct {
	Details string
}

func (e *UpstreamError) Error() string {
	return e.Details
}

// CompletionGateway is the contract towards the generative-text backend.
// The image and audio variants are stateless single-shot calls: they carry no
// turn history, which sidesteps multimodal-history handling upstream.
type CompletionGateway interface {
	CompleteText(ctx context.Context, history []prompt.Turn, newText string, cfg GenerationConfig, customApiKey string) (string, error)
	CompleteWithImage(ctx context.Context, text string, imageDataURI string, customApiKey string) (string, error)
	Translate(ctx context.Context, text string, targetLanguage string) (string, error)
	Transcribe(ctx context.Context, audioDataURI string, mimeType string) (string, error)
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client talks to the Gemini generateContent endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, model string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CompleteText(ctx context.Context, history []prompt.Turn, newText string, cfg GenerationConfig, customApiKey string) (string, error) {
	contents := make([]*GeminiChatContent, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, &GeminiChatContent{
			Parts: []*GeminiChatParts{{Text: turn.Text}},
			Role:  turn.Role,
		})
	}
	contents = append(contents, &GeminiChatContent{
		Parts: []*GeminiChatParts{{Text: newText}},
		Role:  constant.TurnRoleUser,
	})

	payload := &GeminiChatRequest{
		Contents: contents,
		GenerationConfig: &GeminiGenerationConfig{
			Temperature:     cfg.Temperature,
			TopP:            cfg.TopP,
			TopK:            cfg.TopK,
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
	}

	return c.generateContent(ctx, payload, customApiKey)
}

func (c *Client) CompleteWithImage(ctx context.Context, text string, imageDataURI string, customApiKey string) (string, error) {
	payload := &GeminiChatRequest{
		Contents: []*GeminiChatContent{
			{
				Parts: []*GeminiChatParts{
					{Text: text},
					{InlineData: &GeminiInlineData{
						MimeType: "image/jpeg",
						Data:     stripDataURIPrefix(imageDataURI),
					}},
				},
			},
		},
	}

	return c.generateContent(ctx, payload, customApiKey)
}

func (c *Client) Translate(ctx context.Context, text string, targetLanguage string) (string, error) {
	var promptText string
	if targetLanguage == "es" {
		promptText = fmt.Sprintf("Traduce el siguiente texto del inglés al español. Solo proporciona la traducción, sin texto adicional ni explicaciones:\n\n\"%s\"", text)
	} else {
		promptText = fmt.Sprintf("Traduce el siguiente texto del español al %s. Solo proporciona la traducción, sin texto adicional ni explicaciones:\n\n\"%s\"", targetLanguage, text)
	}

	payload := &GeminiChatRequest{
		Contents: []*GeminiChatContent{
			{Parts: []*GeminiChatParts{{Text: promptText}}},
		},
	}

	translation, err := c.generateContent(ctx, payload, "")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(translation), nil
}

func (c *Client) Transcribe(ctx context.Context, audioDataURI string, mimeType string) (string, error) {
	payload := &GeminiChatRequest{
		Contents: []*GeminiChatContent{
			{
				Parts: []*GeminiChatParts{
					{Text: "Transcribe el siguiente audio. Solo proporciona la transcripción, sin texto adicional ni explicaciones."},
					{InlineData: &GeminiInlineData{
						MimeType: mimeType,
						Data:     stripDataURIPrefix(audioDataURI),
					}},
				},
			},
		},
	}

	transcription, err := c.generateContent(ctx, payload, "")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(transcription), nil
}

func (c *Client) generateContent(ctx context.Context, payload *GeminiChatRequest, customApiKey string) (string, error) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", err
	}

	apiKey := c.apiKey
	if customApiKey != "" {
		apiKey = customApiKey
	}
	req.Header.Set("x-goog-api-key", apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Details: err.Error()}
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &UpstreamError{Details: err.Error()}
	}

	if res.StatusCode != http.StatusOK {
		return "", &UpstreamError{Details: fmt.Sprintf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)}
	}

	var geminiRes GeminiChatResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", &UpstreamError{Details: err.Error()}
	}

	if len(geminiRes.Candidates) == 0 ||
		geminiRes.Candidates[0].Content == nil ||
		len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return "", &UpstreamError{Details: "empty response from completion backend"}
	}

	return geminiRes.Candidates[0].Content.Parts[0].Text, nil
}

// stripDataURIPrefix drops the "data:*;base64," header of a data URI. Raw
// base64 input is passed through untouched.
func stripDataURIPrefix(dataURI string) string {
	if idx := strings.Index(dataURI, ","); idx >= 0 {
		return dataURI[idx+1:]
	}
	return dataURI
}
