package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkmark/internal/models"
)

// ListCategories returns all categories.
func (h *Handler) ListCategories(c *gin.Context) {
	rows, err := h.db.Query(`SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		h.log.Error("retrieving categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving categories"})
		return
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			h.log.Error("scanning category", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning category"})
			return
		}
		categories = append(categories, category)
	}

	c.JSON(http.StatusOK, categories)
}
