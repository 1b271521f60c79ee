package dto

const (
	RoleSystem = "system"
	RoleUser   = "user"

	ContentTypeText     = "text"
	ContentTypeImageURL = "image_url"
)

// ChatCompletionRequest is the OpenAI-compatible chat completions body.
type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// ChatMessage carries either a plain string or a list of ContentPart as Content.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type ChatCompletionResponse struct {
	Choices []ChatChoice `json:"choices"`
	Error   *ChatError   `json:"error,omitempty"`
}

type ChatChoice struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

type ChatError struct {
	Message string `json:"message"`
	Code    any    `json:"code,omitempty"`
}
