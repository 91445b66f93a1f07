package errcodes

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"
)

const internalErrorMessage = "An unexpected error occurred. Please try again later."

// Payload is the body of every error response.
type Payload struct {
	Timestamp        time.Time         `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Code             string            `json:"code"`
	Message          string            `json:"message"`
	ValidationErrors map[string]string `json:"validation_errors,omitempty"`
	// Reference correlates a 500 response with the server log entry holding
	// the real error.
	Reference string `json:"reference,omitempty"`
}

type Handler struct {
	now func() time.Time
}

func NewHandler() *Handler {
	return &Handler{now: time.Now}
}

// Handle is an Echo error handler that uses HTTP errors accordingly, and any
// generic error will be interpreted as an internal server error.
func (h *Handler) Handle(err error, c echo.Context) {
	if errutils.IsIgnorableErr(err) {
		logger.FromEchoContext(c).Err(err).Warn("broken pipe")
		return
	}
	if c.Response().Committed {
		return
	}

	payload := h.generatePayload(err)

	log := logger.FromEchoContext(c)
	switch {
	case payload.Status >= http.StatusInternalServerError:
		log.Err(err).Error("server error", map[string]interface{}{"reference": payload.Reference})
	case payload.Status != http.StatusNotFound:
		log.Warn(payload.Error, map[string]interface{}{"code": payload.Code, "message": payload.Message})
	}

	if err := c.JSON(payload.Status, payload); err != nil {
		log.Err(errors.WithStack(err)).Error("error handler json error")
	}
}

func (h *Handler) generatePayload(err error) Payload {
	payload := Payload{
		Timestamp: h.now().UTC(),
		Status:    http.StatusInternalServerError,
	}

	// Echo errors
	var he *echo.HTTPError
	if ok := errors.As(err, &he); ok {
		payload.Status = he.Code
		payload.Message = http.StatusText(he.Code)
		if msg, ok := he.Message.(string); ok {
			payload.Message = msg
		}
		payload.Error = http.StatusText(he.Code)
		payload.Code = strcase.ToSnake(payload.Message)
	}

	// Custom errors
	var e *Error
	if ok := errors.As(err, &e); ok {
		payload.Status = e.HTTPCode
		payload.Error = e.Label
		payload.Code = e.Code
		payload.Message = e.Message
		payload.ValidationErrors = e.Fields
	}

	// Internal server errors never leak details.
	if payload.Status >= http.StatusInternalServerError {
		payload.Error = http.StatusText(payload.Status)
		payload.Code = strcase.ToSnake(payload.Error)
		payload.Message = internalErrorMessage
		payload.ValidationErrors = nil
		payload.Reference = uuid.NewString()
	}

	return payload
}
