package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sharebay/service-sharing/internal/application"
	"github.com/sharebay/service-sharing/internal/pkg/response"
)

// RequestHandler handles HTTP requests for item-request operations.
type RequestHandler struct {
	service *application.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(service *application.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// RegisterRoutes registers all item-request routes on the given router group.
func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/requests")
	{
		requests.POST("", h.AddRequest)
		requests.GET("", h.GetOwnRequests)
		requests.GET("/all", h.GetAllRequests)
		requests.GET("/:requestId", h.GetRequest)
	}
}

// AddRequest handles POST /requests.
func (h *RequestHandler) AddRequest(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req application.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddRequest(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetOwnRequests handles GET /requests.
func (h *RequestHandler) GetOwnRequests(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.GetOwnRequests(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetAllRequests handles GET /requests/all?from=&size=.
func (h *RequestHandler) GetAllRequests(c *gin.Context) {
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

	result, err := h.service.GetAllRequests(c.Request.Context(), userID, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetRequest handles GET /requests/:requestId.
func (h *RequestHandler) GetRequest(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		response.BadRequest(c, "invalid request ID")
		return
	}

	result, err := h.service.GetRequest(c.Request.Context(), userID, requestID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
