package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"farm-advisor/internal/domain/dto"
	"farm-advisor/internal/domain/errs"
	Iservices "farm-advisor/internal/domain/interfaces/services"
	"farm-advisor/internal/infra/logger"

	"github.com/sirupsen/logrus"
)

const IndexMessage = "AI Farming Advisor Backend is running!"

type HttpHandlers struct {
	Logger          *logger.Logger
	AdvisoryService Iservices.IAdvisoryService
	ImageService    Iservices.IImageService
	SpeechService   Iservices.ISpeechService
	MaxUploadBytes  int64
	// ErrorsAsAnswer keeps LLM failures as 200 responses whose answer
	// carries the error text; when false they become 500 errors.
	ErrorsAsAnswer bool
}

func NewHttpHandlers(
	logger *logger.Logger,
	advisoryService Iservices.IAdvisoryService,
	imageService Iservices.IImageService,
	speechService Iservices.ISpeechService,
	maxUploadBytes int64,
	errorsAsAnswer bool,
) *HttpHandlers {
	return &HttpHandlers{
		Logger:          logger,
		AdvisoryService: advisoryService,
		ImageService:    imageService,
		SpeechService:   speechService,
		MaxUploadBytes:  maxUploadBytes,
		ErrorsAsAnswer:  errorsAsAnswer,
	}
}

func (th *HttpHandlers) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(IndexMessage))
}

// QueryImage answers a typed question with an optional photo.
//
// Form fields:
//   - question (required): the farmer's question.
//   - image (optional file): any decodable image; re-encoded as JPEG.
func (th *HttpHandlers) QueryImage(w http.ResponseWriter, r *http.Request) {
	if err := th.parseForm(w, r); err != nil {
		th.writeError(w, err)
		return
	}

	question := strings.TrimSpace(r.FormValue("question"))
	if question == "" {
		th.writeError(w, errs.ErrNoQuestion)
		return
	}

	req := dto.AdvisoryRequest{Question: question}

	file, err := formFile(r, "image")
	if err != nil {
		th.writeError(w, err)
		return
	}
	if file != nil {
		defer file.Close()
		imageB64, err := th.ImageService.NormalizeImage(file)
		if err != nil {
			th.Logger.Warn(fmt.Sprintf("Failed to normalize image: %v", err))
			th.writeError(w, err)
			return
		}
		req.ImageBase64 = imageB64
	}

	th.answer(w, r, req)
}

// QueryVoice answers a spoken question uploaded as the "audio" file field.
func (th *HttpHandlers) QueryVoice(w http.ResponseWriter, r *http.Request) {
	if err := th.parseForm(w, r); err != nil {
		th.writeError(w, err)
		return
	}

	file, err := formFile(r, "audio")
	if err != nil {
		th.writeError(w, err)
		return
	}
	if file == nil {
		th.writeError(w, errs.ErrNoAudio)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		th.writeError(w, fmt.Errorf("failed to read audio file: %w", err))
		return
	}

	question, err := th.SpeechService.Transcribe(r.Context(), audio)
	if err != nil {
		th.Logger.Warn(fmt.Sprintf("Failed to transcribe audio: %v", err))
		th.writeError(w, err)
		return
	}

	th.Logger.Info("Voice question recognized", logrus.Fields{"chars": len([]rune(question))})
	th.answer(w, r, dto.AdvisoryRequest{Question: question})
}

func (th *HttpHandlers) answer(w http.ResponseWriter, r *http.Request, req dto.AdvisoryRequest) {
	if th.ErrorsAsAnswer {
		writeJSON(w, http.StatusOK, dto.AnswerResponse(th.AdvisoryService.AskWithFallback(r.Context(), req)))
		return
	}

	answer, err := th.AdvisoryService.Advise(r.Context(), req)
	if err != nil {
		th.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AnswerResponse(answer))
}

// parseForm accepts multipart and urlencoded bodies up to MaxUploadBytes.
func (th *HttpHandlers) parseForm(w http.ResponseWriter, r *http.Request) error {
	if th.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, th.MaxUploadBytes)
	}

	err := r.ParseMultipartForm(th.MaxUploadBytes)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errs.NewClientError("Upload exceeds the %d byte limit", tooLarge.Limit)
	}
	return errs.NewClientError("Invalid form data: %v", err)
}

// formFile returns nil without error when the field is absent.
func formFile(r *http.Request, field string) (multipart.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewClientError("Invalid %s upload: %v", field, err)
	}
	return file, nil
}

func (th *HttpHandlers) writeError(w http.ResponseWriter, err error) {
	status := errs.StatusCode(err)
	if status >= http.StatusInternalServerError {
		th.Logger.Error(fmt.Sprintf("Request failed: %v", err))
	}
	writeJSON(w, status, dto.ErrorResponse(errs.Message(err)))
}
