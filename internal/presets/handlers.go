package presets

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbd888/numerics/internal/pagination"
	"github.com/mbd888/numerics/internal/validation"
	"github.com/mbd888/numerics/pkg/numeric"
)

// Handler provides HTTP endpoints for presets.
type Handler struct {
	service *Service
}

// NewHandler creates a new preset handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes sets up preset routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/presets", h.CreatePreset)
	r.GET("/presets", h.ListPresets)

	byID := r.Group("/presets/:id", validation.PresetIDParamMiddleware())
	byID.GET("", h.GetPreset)
	byID.PATCH("", h.UpdatePreset)
	byID.DELETE("", h.DeletePreset)
	byID.POST("/format", h.FormatWithPreset)
}

// CreatePreset handles POST /v1/presets
func (h *Handler) CreatePreset(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid body"})
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"preset": p})
}

// GetPreset handles GET /v1/presets/:id
func (h *Handler) GetPreset(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preset": p})
}

// ListPresets handles GET /v1/presets
func (h *Handler) ListPresets(c *gin.Context) {
	limit := pagination.ParseLimit(c.Query("limit"))

	items, next, err := h.service.List(c.Request.Context(), limit, c.Query("cursor"))
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []*Preset{}
	}
	c.JSON(http.StatusOK, gin.H{
		"presets":    items,
		"count":      len(items),
		"nextCursor": next,
		"hasMore":    next != "",
	})
}

// UpdatePreset handles PATCH /v1/presets/:id
func (h *Handler) UpdatePreset(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid body"})
		return
	}

	p, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preset": p})
}

// DeletePreset handles DELETE /v1/presets/:id
func (h *Handler) DeletePreset(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FormatWithPreset handles POST /v1/presets/:id/format
func (h *Handler) FormatWithPreset(c *gin.Context) {
	var req struct {
		Value     string `json:"value"`
		Previous  string `json:"previous"`
		Trigger   string `json:"trigger"`
		UserKeyed bool   `json:"userKeyed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid body"})
		return
	}
	if len(req.Value) > validation.MaxValueLength || len(req.Previous) > validation.MaxValueLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value_too_long", "message": "value exceeds maximum length"})
		return
	}
	trigger, err := numeric.ParseTrigger(req.Trigger)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_trigger", "message": err.Error()})
		return
	}

	res, err := h.service.Format(c.Request.Context(), c.Param("id"), req.Value, req.Previous,
		numeric.Context{Trigger: trigger, UserKeyed: req.UserKeyed})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func respondError(c *gin.Context, err error) {
	var verrs validation.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": verrs.Error(), "details": verrs})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "preset not found"})
	case errors.Is(err, ErrNameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "name_taken", "message": "preset name already in use"})
	case errors.Is(err, numeric.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_range", "message": err.Error()})
	case errors.Is(err, ErrInvalidOptions):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_options", "message": err.Error()})
	case errors.Is(err, pagination.ErrInvalidCursor):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_cursor", "message": "cursor is malformed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "preset operation failed"})
	}
}
