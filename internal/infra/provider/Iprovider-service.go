package provider

import "context"

type ISpeechProvider interface {
	// Recognize returns the transcript of audio, or "" when the backend
	// answered but recognized nothing.
	Recognize(ctx context.Context, audio []byte, languageCode string) (string, error)
}
