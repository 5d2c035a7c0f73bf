package handler

import (
	"github.com/Freeeeeet/consultation_scheduler/internal/api/response"
	"github.com/Freeeeeet/consultation_scheduler/internal/dto"
	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"github.com/Freeeeeet/consultation_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const idempotencyKeyHeader = "Idempotency-Key"

// BookingHandler слоты, бронирования и переходы статусов
type BookingHandler struct {
	bookings  BookingService
	lifecycle LifecycleService
	logger    *zap.Logger
}

func NewBookingHandler(bookings BookingService, lifecycle LifecycleService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, lifecycle: lifecycle, logger: logger}
}

// Slots GET /api/v1/resources/:id/slots?date=YYYY-MM-DD
func (h *BookingHandler) Slots(c *gin.Context) {
	var q dto.SlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	date, err := model.ParseDate(q.Date)
	if err != nil {
		respondBindError(c, err)
		return
	}

	slots, err := h.bookings.AvailableSlots(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, slots)
}

// Create POST /api/v1/resources/:id/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	actorID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	date, t, err := req.Slot()
	if err != nil {
		respondBindError(c, err)
		return
	}

	booking, err := h.bookings.RequestBooking(c.Request.Context(), service.BookingRequest{
		ResourceID:     c.Param("id"),
		Date:           date,
		Time:           t,
		RequesterID:    actorID,
		SubjectName:    req.SubjectName,
		SubjectGrade:   req.SubjectGrade,
		Note:           req.Note,
		IdempotencyKey: c.GetHeader(idempotencyKeyHeader),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, booking)
}

// ListResource GET /api/v1/resources/:id/bookings?from=&to=&status= (оператор)
func (h *BookingHandler) ListResource(c *gin.Context) {
	actorID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	filter, ok := bindListFilter(c)
	if !ok {
		return
	}

	bookings, err := h.bookings.ListResourceBookings(c.Request.Context(), actorID, filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nonNil(bookings))
}

// Mine GET /api/v1/bookings/mine
func (h *BookingHandler) Mine(c *gin.Context) {
	actorID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	bookings, err := h.bookings.ListRequesterBookings(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nonNil(bookings))
}

// Get GET /api/v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	actorID, ok := MustGetActorID(c)
	if !ok {
		return
	}
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	booking, err := h.bookings.GetBooking(c.Request.Context(), id, actorID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, booking)
}

// Transition POST /api/v1/bookings/:id/transition
func (h *BookingHandler) Transition(c *gin.Context) {
	actorID, ok := MustGetActorID(c)
	if !ok {
		return
	}
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	booking, err := h.lifecycle.Transition(c.Request.Context(), id, model.BookingStatus(req.Status), actorID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, booking)
}

// bindListFilter разбирает период и статусы; при ok=false ответ уже записан
func bindListFilter(c *gin.Context) (service.BookingListFilter, bool) {
	var q dto.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return service.BookingListFilter{}, false
	}

	from, to, err := q.Range()
	if err != nil {
		respondBindError(c, err)
		return service.BookingListFilter{}, false
	}

	return service.BookingListFilter{
		ResourceID: c.Param("id"),
		From:       from,
		To:         to,
		Statuses:   q.Statuses(),
	}, true
}

func nonNil(bookings []*model.Booking) []*model.Booking {
	if bookings == nil {
		return []*model.Booking{}
	}
	return bookings
}
