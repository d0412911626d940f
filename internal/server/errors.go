package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ribara/skillbridge/internal/ingestion"
	"github.com/ribara/skillbridge/internal/llm"
	"github.com/ribara/skillbridge/internal/session"
	"github.com/ribara/skillbridge/internal/tutor"
	"github.com/ribara/skillbridge/internal/types"
)

// httpStatus maps domain errors to response codes. Anything unmapped
// is an internal error.
func httpStatus(err error) int {
	var (
		validationErrs validator.ValidationErrors
		unsupported    *ingestion.UnsupportedFormatError
		invalidLevel   *types.InvalidProficiencyError
		malformed      *llm.MalformedOutputError
	)

	switch {
	case errors.As(err, &validationErrs), errors.As(err, &invalidLevel):
		return http.StatusBadRequest
	case errors.Is(err, tutor.ErrEmptyUtterance):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, tutor.ErrTurnInFlight):
		return http.StatusConflict
	case errors.Is(err, tutor.ErrSessionEnded):
		return http.StatusGone
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ingestion.ErrContentTooShort),
		errors.Is(err, ingestion.ErrContentExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ingestion.ErrHTTPRequestFailed):
		return http.StatusBadGateway
	case errors.As(err, &malformed):
		return http.StatusBadGateway
	case errors.Is(err, llm.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
