package handler

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/consultation_scheduler/internal/api/response"
	"github.com/Freeeeeet/consultation_scheduler/internal/dto"
	"github.com/Freeeeeet/consultation_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError переводит ошибки сервисов в HTTP ответ
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		verr        *service.ValidationError
		invalidSlot *service.SlotInvalidError
		takenSlot   *service.SlotTakenError
		transition  *service.InvalidTransitionError
	)

	switch {
	case errors.As(err, &verr):
		response.ErrorWithData(c, http.StatusBadRequest, response.CodeValidation, "validation failed", verr.Fields)
	case errors.As(err, &invalidSlot):
		response.ErrorWithData(c, http.StatusConflict, response.CodeSlotInvalid, invalidSlot.Error(),
			gin.H{"date": invalidSlot.Date, "time": invalidSlot.Time, "reason": invalidSlot.Reason})
	case errors.As(err, &takenSlot):
		response.ErrorWithData(c, http.StatusConflict, response.CodeSlotTaken, takenSlot.Error(),
			gin.H{"date": takenSlot.Date, "time": takenSlot.Time})
	case errors.As(err, &transition):
		response.ErrorWithData(c, http.StatusConflict, response.CodeInvalidTransition, transition.Error(),
			gin.H{"from": transition.From, "to": transition.To})
	case errors.Is(err, service.ErrNotAuthorized):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	default:
		_ = c.Error(err)
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c)
	}
}

// respondBindError отвечает 400 на ошибку разбора запроса
func respondBindError(c *gin.Context, err error) {
	if fields, ok := dto.FieldErrors(err); ok {
		response.ErrorWithData(c, http.StatusBadRequest, response.CodeValidation, "validation failed", fields)
		return
	}
	response.BadRequest(c, "malformed request: "+err.Error())
}
