package dto

// AdvisoryRequest is a normalized question. An empty ImageBase64 means no image.
type AdvisoryRequest struct {
	Question    string
	ImageBase64 string
}

func (r AdvisoryRequest) HasImage() bool {
	return r.ImageBase64 != ""
}

// AdvisoryResponse is the body of every /query-* response. Exactly one field is set.
type AdvisoryResponse struct {
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
}

func AnswerResponse(answer string) AdvisoryResponse {
	return AdvisoryResponse{Answer: answer}
}

func ErrorResponse(message string) AdvisoryResponse {
	if message == "" {
		message = "unknown error"
	}
	return AdvisoryResponse{Error: message}
}
