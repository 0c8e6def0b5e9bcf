package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sagarc03/workspaced"
)

const contentTypeJSON = "application/json; charset=utf-8"

// MessageResponse is the body of every non-document response.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteMessage writes {"message": message} with the given status code. The
// body is not newline terminated.
func WriteMessage(w http.ResponseWriter, code int, message string) {
	body, err := json.Marshal(MessageResponse{Message: message})
	if err != nil {
		slog.Error("failed to encode message response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// WriteOK writes the success message.
func WriteOK(w http.ResponseWriter) {
	WriteMessage(w, http.StatusOK, "OK")
}

// WriteDocument writes a stored workspace document verbatim.
func WriteDocument(w http.ResponseWriter, document string) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, document)
}

// HandleError writes appropriate error response based on error type
func HandleError(w http.ResponseWriter, err error) {
	slog.Error("request error", "error", err)

	if errors.Is(err, ErrRequestTooLarge) {
		WriteMessage(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	// Everything else is reported as a 500 carrying the error's message,
	// including invalid workspace ids and failed credential lookups.
	WriteMessage(w, http.StatusInternalServerError, workspaced.ErrorMessage(err))
}
