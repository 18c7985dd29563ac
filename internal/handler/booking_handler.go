package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shareloop/service-sharing/internal/application"
	bookingDomain "github.com/shareloop/service-sharing/internal/domain/booking"
)

// CreateBookingRequest is the request body for placing a booking.
type CreateBookingRequest struct {
	ItemID int64     `json:"itemId" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// BookingResponse is the wire representation of a booking.
type BookingResponse struct {
	ID       int64     `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	ItemID   int64     `json:"itemId"`
	BookerID int64     `json:"bookerId"`
	Status   string    `json:"status"`
}

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
	bookings.Use(IdentityMiddleware())
	{
		bookings.POST("", h.Create)
		bookings.GET("/owner", h.ListForOwner)
		bookings.GET("/:id", h.Get)
		bookings.PATCH("/:id", h.ApproveOrReject)
		bookings.GET("", h.ListForBooker)
	}
}

// Create handles POST /bookings. Date sanity is the gateway's validation
// duty; this edge re-checks it before trusting the pair downstream.
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Start.Before(req.End) || !req.Start.After(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking period must start in the future and end after it starts"})
		return
	}

	b, err := h.service.Create(c.Request.Context(), SharerID(c), req.ItemID, req.Start, req.End)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(b))
}

// Get handles GET /bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	b, err := h.service.Get(c.Request.Context(), SharerID(c), bookingID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

// ApproveOrReject handles PATCH /bookings/:id?approved=true|false.
func (h *BookingHandler) ApproveOrReject(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved parameter must be true or false"})
		return
	}
	b, err := h.service.ApproveOrReject(c.Request.Context(), SharerID(c), bookingID, approved)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

// ListForBooker handles GET /bookings?state=&from=&size=.
func (h *BookingHandler) ListForBooker(c *gin.Context) {
	h.list(c, h.service.ListForBooker)
}

// ListForOwner handles GET /bookings/owner?state=&from=&size=.
func (h *BookingHandler) ListForOwner(c *gin.Context) {
	h.list(c, h.service.ListForOwner)
}

func (h *BookingHandler) list(
	c *gin.Context,
	query func(ctx context.Context, viewerID int64, f bookingDomain.Filter, from, size *int) ([]*bookingDomain.Booking, error),
) {
	f, err := bookingDomain.ParseFilter(c.DefaultQuery("state", "ALL"))
	if err != nil {
		writeError(c, err)
		return
	}
	from, size, err := pageQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}
	bookings, err := query(c.Request.Context(), SharerID(c), f, from, size)
	if err != nil {
		writeError(c, err)
		return
	}
	responses := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		responses[i] = toBookingResponse(b)
	}
	c.JSON(http.StatusOK, responses)
}

func toBookingResponse(b *bookingDomain.Booking) BookingResponse {
	return BookingResponse{
		ID:       b.ID(),
		Start:    b.Start(),
		End:      b.End(),
		ItemID:   b.ItemID(),
		BookerID: b.BookerID(),
		Status:   b.Status().String(),
	}
}
