package provider

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/internal/service/directory"
)

type Handler struct {
	service *directory.Service
}

func NewHandler(service *directory.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	providers := r.Group("/providers")
	{
		providers.GET("", h.ListProviders)
		providers.GET("/grouped", h.ListGrouped)
		providers.GET("/:id", h.GetProvider)
	}
}

// ListProviders answers both the category browse and the free-text search
// screens: ?category= filters by exact tag, ?q= runs a substring search.
func (h *Handler) ListProviders(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		providers, err := h.service.FindByCategory(c.Request.Context(), category)
		if err != nil {
			c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse(presentProviders(providers)))
		return
	}

	providers, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(presentProviders(providers)))
}

func (h *Handler) ListGrouped(c *gin.Context) {
	providers, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	grouped := h.service.GroupByCategory(providers)
	out := make(map[string][]*ProviderView, len(grouped))
	for category, ps := range grouped {
		out[category] = presentProviders(ps)
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(out))
}

func (h *Handler) GetProvider(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid provider ID"))
		return
	}

	provider, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.StatusForError(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(presentProvider(provider)))
}
