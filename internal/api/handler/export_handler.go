package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	contentTypeICS  = "text/calendar; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler выгрузки бронирований ресурса
type ExportHandler struct {
	export ExportService
	logger *zap.Logger
}

func NewExportHandler(export ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{export: export, logger: logger}
}

// ICS GET /api/v1/resources/:id/bookings/export.ics?from=&to= (оператор)
func (h *ExportHandler) ICS(c *gin.Context) {
	actorID, ok := MustGetActorID(c)
	if !ok {
		return
	}
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}

	data, filename, err := h.export.ICS(c.Request.Context(), actorID, filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, contentTypeICS, data)
}

// XLSX GET /api/v1/resources/:id/bookings/export.xlsx?from=&to= (оператор)
func (h *ExportHandler) XLSX(c *gin.Context) {
	actorID, ok := MustGetActorID(c)
	if !ok {
		return
	}
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}

	buf, filename, err := h.export.XLSX(c.Request.Context(), actorID, filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}
