package Iservices

import (
	"context"
	"io"
)

// IImageService turns an uploaded image into base64 JPEG.
type IImageService interface {
	NormalizeImage(r io.Reader) (string, error)
}

// ISpeechService turns uploaded audio into question text.
type ISpeechService interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
