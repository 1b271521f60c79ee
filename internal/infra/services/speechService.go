package services

import (
	"context"
	"fmt"

	"farm-advisor/internal/config"
	"farm-advisor/internal/domain/errs"
	"farm-advisor/internal/infra/logger"
	"farm-advisor/internal/infra/provider"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

// Containers the speech backend reads without an explicit encoding.
var supportedAudio = []string{"audio/wav", "audio/flac"}

type SpeechService struct {
	Logger   *logger.Logger
	Provider provider.ISpeechProvider
	Language string
}

func NewSpeechService(logger *logger.Logger, speechProvider provider.ISpeechProvider, language string) *SpeechService {
	if language == "" {
		language = config.DefaultSpeechLanguage
	}
	return &SpeechService{Logger: logger, Provider: speechProvider, Language: language}
}

// Transcribe turns uploaded audio into question text.
//
// Errors:
//   - errs.ErrNoAudio when audio is empty.
//   - a client-input error when the container is not WAV or FLAC.
//   - errs.ErrUnrecognizedSpeech when the backend recognized nothing.
//   - a speech service error when the backend call failed.
func (th *SpeechService) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", errs.ErrNoAudio
	}

	mtype := mimetype.Detect(audio)
	if !isSupportedAudio(mtype) {
		th.Logger.Warn("Rejected audio upload", logrus.Fields{"content_type": mtype.String()})
		return "", errs.NewClientError("Unsupported audio format %s; upload WAV or FLAC", mtype.String())
	}

	text, err := th.Provider.Recognize(ctx, audio, th.Language)
	if err != nil {
		return "", errs.NewSpeechServiceError(err)
	}
	if text == "" {
		th.Logger.Info("Speech backend returned no transcript", logrus.Fields{"language": th.Language})
		return "", errs.ErrUnrecognizedSpeech
	}

	th.Logger.Info(fmt.Sprintf("Transcribed %d bytes of %s audio", len(audio), mtype.String()))
	return text, nil
}

func isSupportedAudio(mtype *mimetype.MIME) bool {
	for _, supported := range supportedAudio {
		if mtype.Is(supported) {
			return true
		}
	}
	return false
}
