package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkravets/vidstream/internal/apperror"
)

type successEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

type errorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
}

func (h *Handler) respondSuccess(w http.ResponseWriter, status int, message string, data any) {
	h.writeJSON(w, status, successEnvelope{
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// respondError maps a service error to the failure envelope. Untyped errors
// turn into a generic 500; their cause is logged and never sent to the
// client.
func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.NewInternalError("something went wrong", err)
	}

	status := appErr.Kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		h.logger.Error(ctx, "request failed", "status", status, "error", err)
	}

	details := appErr.Details
	if details == nil {
		details = []string{}
	}
	h.writeJSON(w, status, errorEnvelope{
		StatusCode: status,
		Message:    appErr.Message,
		Errors:     details,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error(context.Background(), "failed to encode response", "error", err)
	}
}
