package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sharebay/service-sharing/internal/application"
	"github.com/sharebay/service-sharing/internal/pkg/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.AddBooking)
		bookings.GET("", h.ListByBooker)
		bookings.GET("/owner", h.ListByOwner)
		bookings.GET("/:bookingId", h.GetBooking)
		bookings.PATCH("/:bookingId", h.ApproveBooking)
	}
}

// AddBooking handles POST /bookings.
func (h *BookingHandler) AddBooking(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ApproveBooking handles PATCH /bookings/:bookingId?approved=true|false. The
// caller must own the booked item.
func (h *BookingHandler) ApproveBooking(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		response.BadRequest(c, "approved must be true or false")
		return
	}

	result, err := h.service.ApproveBooking(c.Request.Context(), userID, bookingID, approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /bookings/:bookingId.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListByBooker handles GET /bookings?state=&from=&size=.
func (h *BookingHandler) ListByBooker(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	from, size, err := parsePaging(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	state := c.DefaultQuery("state", "ALL")
	result, err := h.service.ListByBooker(c.Request.Context(), userID, state, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListByOwner handles GET /bookings/owner?state=&from=&size=.
func (h *BookingHandler) ListByOwner(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	from, size, err := parsePaging(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	state := c.DefaultQuery("state", "ALL")
	result, err := h.service.ListByOwner(c.Request.Context(), userID, state, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
