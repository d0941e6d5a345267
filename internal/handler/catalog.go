package handler

import (
	"net/http"

	"comercio/internal/apierror"
	"comercio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogHandler struct{ svc service.CatalogService }

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// List godoc
// @Summary      Public product catalog
// @Description  Unauthenticated storefront view of one owner's active products. No cost, stock counts or internals — only an availability flag. Cached for 60 seconds.
// @Tags         catalog
// @Produce      json
// @Param        owner_id path string true "Owner UUID"
// @Success      200 {array} dto.CatalogItem
// @Failure      400 {object} apierror.APIError
// @Router       /v1/catalog/{owner_id}/products [get]
func (h *CatalogHandler) List(c *gin.Context) {
	owner, err := uuid.Parse(c.Param("owner_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid owner id"))
		return
	}

	items, err := h.svc.List(c.Request.Context(), owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load catalog"))
		return
	}
	c.JSON(http.StatusOK, items)
}
