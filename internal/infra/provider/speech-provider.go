package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"farm-advisor/internal/config"
	"farm-advisor/internal/infra/logger"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	speech "google.golang.org/api/speech/v1"
)

const speechTimeout = 60 * time.Second

type GoogleSpeechProvider struct {
	Logger  *logger.Logger
	service *speech.Service
}

// NewGoogleSpeechProvider creates a Cloud Speech-to-Text client. Without an
// API key Application Default Credentials are used. Extra options are
// appended last and win.
func NewGoogleSpeechProvider(ctx context.Context, logger *logger.Logger, cfg config.SpeechConfig, extra ...option.ClientOption) (*GoogleSpeechProvider, error) {
	var opts []option.ClientOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	opts = append(opts, extra...)

	service, err := speech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &GoogleSpeechProvider{Logger: logger, service: service}, nil
}

func (th *GoogleSpeechProvider) Recognize(ctx context.Context, audio []byte, languageCode string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, speechTimeout)
	defer cancel()

	// Multi-channel audio is rejected unless the channel count is declared;
	// only the first channel is transcribed.
	channels := AudioChannelCount(audio)

	req := &speech.RecognizeRequest{
		Config: &speech.RecognitionConfig{
			LanguageCode:      languageCode,
			AudioChannelCount: int64(channels),
		},
		Audio: &speech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(audio),
		},
	}

	resp, err := th.service.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Speech recognition request failed: %v", err))
		return "", err
	}

	var parts []string
	for _, result := range resp.Results {
		if result == nil || len(result.Alternatives) == 0 {
			continue
		}
		if text := strings.TrimSpace(result.Alternatives[0].Transcript); text != "" {
			parts = append(parts, text)
		}
	}

	transcript := strings.Join(parts, " ")
	th.Logger.Debug("Speech recognized", logrus.Fields{
		"language": languageCode,
		"segments": len(parts),
		"channels": channels,
	})
	return transcript, nil
}

// UnavailableSpeechProvider is installed when no credentials could be found,
// so the rest of the API keeps working.
type UnavailableSpeechProvider struct {
	Reason error
}

func (p UnavailableSpeechProvider) Recognize(context.Context, []byte, string) (string, error) {
	if p.Reason == nil {
		return "", errors.New("speech recognition is not configured")
	}
	return "", fmt.Errorf("speech recognition is not configured: %w", p.Reason)
}
