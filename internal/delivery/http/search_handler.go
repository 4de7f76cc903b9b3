package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/analoghub/backend/internal/domain"
	"github.com/analoghub/backend/internal/usecase"
)

// searchParams are the query parameters of the interactive searches
type searchParams struct {
	Query      string `form:"query" binding:"required"`
	SearchType string `form:"search_type"`
	Maker      string `form:"maker"`
	PageNumber int    `form:"page_number,default=0" binding:"gte=0"`
	PageSize   int    `form:"page_size,default=20" binding:"gte=1"`
}

func bindSearch(c *gin.Context) (usecase.SearchRequest, error) {
	var p searchParams
	if err := c.ShouldBindQuery(&p); err != nil {
		return usecase.SearchRequest{}, bindError(err)
	}
	mode, err := domain.ParseSearchMode(p.SearchType)
	if err != nil {
		return usecase.SearchRequest{}, err
	}
	return usecase.SearchRequest{
		Query:        p.Query,
		Mode:         mode,
		Manufacturer: p.Maker,
		PageNumber:   p.PageNumber,
		PageSize:     p.PageSize,
	}, nil
}

// SearchAnalog handles POST /api/v1/analog/search_analog
func (h *Handler) SearchAnalog(c *gin.Context) {
	req, err := bindSearch(c)
	if err != nil {
		writeError(c, err)
		return
	}

	records, err := h.search.SearchAnalogs(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// SearchProduct handles POST /api/v1/analog/search_product
func (h *Handler) SearchProduct(c *gin.Context) {
	req, err := bindSearch(c)
	if err != nil {
		writeError(c, err)
		return
	}

	records, err := h.search.SearchProducts(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetAnalog handles GET /api/v1/analog/analogs/:id
func (h *Handler) GetAnalog(c *gin.Context) {
	record, err := h.search.GetAnalog(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetProduct handles GET /api/v1/analog/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	record, err := h.search.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
