package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/questcoder/questcoder-backend/internal/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GET /api/patterns
func (ch *CatalogHandler) ListPatterns(c *gin.Context) {
	patterns, err := ch.catalogService.ListPatterns(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "patterns_failed", err)
		return
	}
	RespondOK(c, gin.H{"patterns": patterns})
}

// GET /api/patterns/:name/problems
func (ch *CatalogHandler) ListPatternProblems(c *gin.Context) {
	name := c.Param("name")
	problems, err := ch.catalogService.ListPatternProblems(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "pattern_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "pattern_problems_failed", err)
		return
	}
	RespondOK(c, gin.H{"problems": problems})
}
