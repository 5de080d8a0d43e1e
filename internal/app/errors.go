package app

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sv8bshs/enrollment/internal/apperr"
	"github.com/sv8bshs/enrollment/internal/metrics"
	"github.com/sv8bshs/enrollment/internal/observability"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

var kindStatus = []struct {
	kind   error
	status int
	code   string
}{
	{apperr.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{apperr.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{apperr.ErrInvalidDocumentType, http.StatusBadRequest, "INVALID_DOCUMENT_TYPE"},
	{apperr.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{apperr.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
	{apperr.ErrMissingCredential, http.StatusUnprocessableEntity, "MISSING_CREDENTIAL"},
}

// toResponse maps an error onto a status and body; unknown errors are 500 with a generic message.
func toResponse(err error) (int, errorBody) {
	for _, k := range kindStatus {
		if errors.Is(err, k.kind) {
			return k.status, errorBody{Error: k.code, Message: apperr.Message(err)}
		}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return he.Code, errorBody{Error: codeFor(he.Code), Message: msg}
	}
	return http.StatusInternalServerError, errorBody{Error: "INTERNAL", Message: "internal server error"}
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusUnsupportedMediaType:
		return "UNSUPPORTED_MEDIA_TYPE"
	}
	if status >= 500 {
		return "INTERNAL"
	}
	return "ERROR"
}

func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := toResponse(err)
		if status >= 500 {
			metrics.HTTPErrors.WithLabelValues(c.Path()).Inc()
			observability.CaptureWithTags(err, map[string]string{"route": c.Path()})
			log.Error("request failed", zap.String("route", c.Path()), zap.Error(err))
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
