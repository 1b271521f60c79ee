package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"strings"

	// Registered decoders for image.Decode.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"farm-advisor/internal/config"
	"farm-advisor/internal/domain/errs"
	"farm-advisor/internal/infra/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

const JPEGQuality = 75

type ImageService struct {
	Logger *logger.Logger
	// MaxPixels bounds width*height so a small upload cannot declare a
	// huge canvas and force a large allocation in image.Decode.
	MaxPixels int64
}

func NewImageService(logger *logger.Logger, maxPixels int64) *ImageService {
	if maxPixels <= 0 {
		maxPixels = config.DefaultMaxImagePixels
	}
	return &ImageService{Logger: logger, MaxPixels: maxPixels}
}

// NormalizeImage decodes any supported image and returns it re-encoded as
// base64 JPEG. Undecodable input yields a client-input *errs.Error.
func (th *ImageService) NormalizeImage(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(raw) == 0 {
		return "", errs.NewDecodeError(fmt.Errorf("empty file"))
	}

	mtype := mimetype.Detect(raw)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", errs.NewDecodeError(fmt.Errorf("unsupported content type %s", mtype.String()))
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", errs.NewDecodeError(err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > th.MaxPixels {
		th.Logger.Warn("Rejected oversized image", logrus.Fields{"width": cfg.Width, "height": cfg.Height})
		return "", errs.NewDecodeError(fmt.Errorf("image size (%dx%d = %d pixels) exceeds limit of %d pixels", cfg.Width, cfg.Height, pixels, th.MaxPixels))
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", errs.NewDecodeError(err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("failed to encode jpeg: %w", err)
	}

	th.Logger.Debug("Normalized image", logrus.Fields{
		"format":     format,
		"bytes_in":   len(raw),
		"bytes_out":  buf.Len(),
		"dimensions": fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()),
	})

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
