package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"farm-advisor/internal/config"
	"farm-advisor/internal/domain/dto"
	"farm-advisor/internal/domain/errs"
	"farm-advisor/internal/infra/logger"

	"github.com/sirupsen/logrus"
)

const (
	SystemPrompt = "You are an expert farming advisor. " +
		"Answer in Malayalam if the question is in Malayalam. " +
		"Give very short, concise advice using 3-5 bullet points. " +
		"Avoid long paragraphs. If an image is provided, analyze it to give a better answer."

	ImagePrompt = "Analyze this image:"

	// FallbackPrefix marks an LLM failure rendered as answer text.
	FallbackPrefix = "❌ Error: "

	maxErrorBody = 2048
)

type AdvisoryService struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	apiKey     string
	model      string
	url        string
}

// NewAdvisoryService builds the dispatcher. The configuration is copied and
// never read from the environment again.
func NewAdvisoryService(logger *logger.Logger, httpClient *http.Client, cfg config.LLMConfig) *AdvisoryService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultModel
	}
	url := cfg.URL
	if url == "" {
		url = config.DefaultLLMURL
	}
	return &AdvisoryService{
		Logger:     logger,
		HttpClient: httpClient,
		apiKey:     cfg.APIKey,
		model:      model,
		url:        url,
	}
}

// BuildPayload shapes a normalized request into the chat completions body:
// system prompt, the question, and an image turn only when an image is present.
func (th *AdvisoryService) BuildPayload(req dto.AdvisoryRequest) dto.ChatCompletionRequest {
	messages := []dto.ChatMessage{
		{Role: dto.RoleSystem, Content: SystemPrompt},
		{Role: dto.RoleUser, Content: req.Question},
	}

	if req.HasImage() {
		messages = append(messages, dto.ChatMessage{
			Role: dto.RoleUser,
			Content: []dto.ContentPart{
				{Type: dto.ContentTypeText, Text: ImagePrompt},
				{Type: dto.ContentTypeImageURL, ImageURL: &dto.ImageURL{URL: ImageDataURI(req.ImageBase64)}},
			},
		})
	}

	return dto.ChatCompletionRequest{
		Model:    th.model,
		Messages: messages,
	}
}

// ImageDataURI embeds base64 JPEG data in a data URI.
func ImageDataURI(b64 string) string {
	return "data:image/jpeg;base64," + b64
}

// Advise sends one chat completion request and returns the trimmed answer.
// Every failure is an *errs.Error of kind KindUpstream.
func (th *AdvisoryService) Advise(ctx context.Context, req dto.AdvisoryRequest) (string, error) {
	payloadBytes, err := json.Marshal(th.BuildPayload(req))
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to marshal payload: %s", err.Error()))
		return "", errs.NewLLMError(fmt.Errorf("failed to marshal payload: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, th.url, bytes.NewReader(payloadBytes))
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to create HTTP request: %s", err.Error()))
		return "", errs.NewLLMError(fmt.Errorf("failed to create HTTP request: %w", err))
	}
	httpReq.Header.Set("Authorization", "Bearer "+th.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	th.Logger.Debug("Dispatching advisory request", logrus.Fields{
		"model":     th.model,
		"has_image": req.HasImage(),
	})

	resp, err := th.HttpClient.Do(httpReq)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to send POST request: %s", err.Error()))
		return "", errs.NewLLMError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to read response body: %s", err.Error()))
		return "", errs.NewLLMError(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		th.Logger.Error(fmt.Sprintf("Unexpected HTTP status %s response_body %s", resp.Status, truncate(body)))
		return "", errs.NewLLMError(fmt.Errorf("unexpected HTTP status %s: %s", resp.Status, truncate(body)))
	}

	var completion dto.ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to unmarshal response body: %s", err.Error()))
		return "", errs.NewLLMError(fmt.Errorf("failed to unmarshal response body: %w", err))
	}

	if len(completion.Choices) == 0 {
		if completion.Error != nil && completion.Error.Message != "" {
			return "", errs.NewLLMError(fmt.Errorf("provider error: %s", completion.Error.Message))
		}
		return "", errs.NewLLMError(fmt.Errorf("unexpected response %s", truncate(body)))
	}

	answer := strings.TrimSpace(completion.Choices[0].Message.Content)
	if answer == "" {
		return "", errs.NewLLMError(errors.New("model returned an empty answer"))
	}
	return answer, nil
}

// AskWithFallback never fails: an LLM failure comes back as answer text
// starting with FallbackPrefix.
func (th *AdvisoryService) AskWithFallback(ctx context.Context, req dto.AdvisoryRequest) string {
	answer, err := th.Advise(ctx, req)
	if err != nil {
		return FallbackAnswer(err)
	}
	return answer
}

func FallbackAnswer(err error) string {
	return FallbackPrefix + errs.Message(err)
}

func truncate(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		return text[:maxErrorBody] + "..."
	}
	return text
}
