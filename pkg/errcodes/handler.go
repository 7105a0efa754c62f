package errcodes

import (
	"net/http"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	echologger "github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"
	"github.com/robinjoseph08/golib/logger"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Handle is an Echo error handler that renders *Error values with their own
// status and code. Any other error is an internal server error.
func (h *Handler) Handle(err error, c echo.Context) {
	if errutils.IsIgnorableErr(err) {
		echologger.FromEchoContext(c).Err(err).Warn("broken pipe")
		return
	}

	httpCode, payload := Payload(err)

	log := echologger.FromEchoContext(c)
	switch {
	case httpCode >= http.StatusInternalServerError:
		log.Err(err).Error("server error")
	case httpCode == http.StatusConflict:
		log.Info("request conflict", logger.Data{"code": payload.Error.Code})
	}

	if err := c.JSON(httpCode, payload); err != nil {
		log.Err(errors.WithStack(err)).Error("error handler json error")
	}
}

type ErrorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

type ErrorPayload struct {
	Error ErrorBody `json:"error"`
}

// Payload returns the HTTP status and response body for err.
func Payload(err error) (int, ErrorPayload) {
	code := ""
	msg := ""
	httpCode := http.StatusInternalServerError

	var he *echo.HTTPError
	if ok := errors.As(err, &he); ok {
		httpCode = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(he.Code)
		}
		code = strcase.ToSnake(msg)
	}

	var e *Error
	if ok := errors.As(err, &e); ok {
		httpCode = e.HTTPCode
		code = e.Code
		msg = e.Message
	}

	if httpCode == http.StatusInternalServerError && msg == "" {
		code = "internal_server_error"
		msg = "Internal Server Error"
	}

	return httpCode, ErrorPayload{ErrorBody{code, msg, httpCode}}
}
