package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/standup-assistant/errors"
	"github.com/johnquangdev/standup-assistant/internal/adapter/dto/common"
	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
)

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusOK, data)
}

// HandleCreated is HandleSuccess with 201
func HandleCreated(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusCreated, data)
}

func respond(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := common.SuccessResponse{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := common.ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := common.ErrorResponse{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}

// bind decodes and validates a request body or query
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload(err)
	}
	if err := c.Validate(req); err != nil {
		return errors.ErrInvalidPayload(err)
	}
	return nil
}

// toAppError maps use case and domain errors to HTTP errors. subject is the
// team or standup the request addressed.
func toAppError(subject string, err error) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrSessionInProgress):
		return errors.ErrStandupInProgress(subject)
	case stdErrors.Is(err, usecaseErrors.ErrNoActiveSession),
		stdErrors.Is(err, usecaseErrors.ErrControllerStopped):
		return errors.ErrStandupNotActive(subject)
	case stdErrors.Is(err, usecaseErrors.ErrInvalidTransition),
		stdErrors.Is(err, usecaseErrors.ErrStaleToken):
		return errors.ErrStandupInvalidState(subject, "")
	case stdErrors.Is(err, usecaseErrors.ErrEmptyRoster):
		return errors.ErrRosterEmpty(subject)
	case stdErrors.Is(err, usecaseErrors.ErrRosterNotFound),
		stdErrors.Is(err, entities.ErrRosterNotFound):
		return errors.ErrRosterNotFound(subject)
	case stdErrors.Is(err, usecaseErrors.ErrRosterFrozen):
		return errors.ErrRosterFrozen(subject)
	case stdErrors.Is(err, usecaseErrors.ErrDuplicateMember),
		stdErrors.Is(err, usecaseErrors.ErrInvalidLimit):
		return errors.ErrRosterInvalid(err)
	case stdErrors.Is(err, usecaseErrors.ErrStandupNotFound),
		stdErrors.Is(err, entities.ErrStandupNotFound):
		return errors.ErrStandupNotFound(subject)
	case stdErrors.Is(err, usecaseErrors.ErrUnknownFormat):
		return errors.ErrSummaryFormatUnknown(subject)
	case stdErrors.Is(err, usecaseErrors.ErrManualOnly):
		return errors.ErrSpeechRequired(subject)
	case stdErrors.Is(err, usecaseErrors.ErrTranscriptionFailed):
		return errors.ErrTranscriptionFailed(err)
	case stdErrors.Is(err, usecaseErrors.ErrRosterStore):
		return errors.ErrCacheFailed("roster", err)
	case stdErrors.Is(err, usecaseErrors.ErrArchiveStore):
		return errors.ErrDBQueryFailed("standups", err)
	case stdErrors.Is(err, usecaseErrors.ErrLiveKit):
		return errors.ErrLiveKitFailed("room", err)
	case stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
		return errors.ErrInvalidPayload(err)
	case stdErrors.Is(err, usecaseErrors.ErrNotFound):
		return errors.ErrNotFound(subject)
	}
	return errors.ErrInternal(err)
}
