// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/pkg/logger"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	maxBodyBytes        = 1 << 20
)

var validate = validator.New()

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error     string         `json:"error"`
	Code      domain.Code    `json:"code"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// statusFor maps a domain error code onto an HTTP status
func statusFor(code domain.Code) int {
	switch code {
	case domain.CodeInvalidRequest, domain.CodeInvalidDelta:
		return http.StatusBadRequest
	case domain.CodeNotFound, domain.CodePlacementNotFound:
		return http.StatusNotFound
	case domain.CodeDuplicatePlacement, domain.CodeConcurrentModification, domain.CodeInvalidStatusTransition:
		return http.StatusConflict
	case domain.CodeInsufficientQuantity, domain.CodeCapacityExceeded, domain.CodeNotStackable:
		return http.StatusUnprocessableEntity
	case domain.CodePersistenceFailure:
		return http.StatusServiceUnavailable
	case domain.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, r *http.Request, log *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.ErrorContext(r.Context(), "failed to encode response",
			slog.String("error", err.Error()))
	}
}

// respondError writes err as an ErrorResponse. Errors that are not
// *domain.Error are logged and reported as internal errors without detail.
func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	body := ErrorResponse{RequestID: logger.RequestIDFromContext(r.Context())}

	var derr *domain.Error
	if errors.As(err, &derr) {
		body.Error = derr.Message
		body.Code = derr.Code
		body.Details = derr.Details
	} else {
		body.Error = "internal server error"
		body.Code = "INTERNAL"
	}

	status := statusFor(body.Code)
	if status >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed",
			slog.String("code", string(body.Code)),
			slog.Int("status", status),
			slog.Any("error", err))
	} else {
		log.InfoContext(r.Context(), "request rejected",
			slog.String("code", string(body.Code)),
			slog.String("reason", body.Error))
	}

	respondJSON(w, r, log, status, body)
}

func invalidRequest(format string, args ...any) error {
	return domain.NewError(domain.CodeInvalidRequest, format, args...)
}

// decodeAndValidate reads a JSON body into dest and checks its validate tags
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return invalidRequest("invalid request body: %s", err.Error())
	}

	if err := validate.Struct(dest); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fieldName(fe.Namespace())+" failed '"+fe.Tag()+"'")
			}
			return invalidRequest("%s", strings.Join(fields, "; "))
		}
		return invalidRequest("%s", err.Error())
	}
	return nil
}

// fieldName strips the root struct name from a validator namespace
func fieldName(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, invalidRequest("invalid %s format", name)
	}
	return id, nil
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultHistoryLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, invalidRequest("limit must be a positive integer")
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return limit, nil
}
