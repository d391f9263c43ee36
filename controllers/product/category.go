package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/services"
)

func GetCategories(categories *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := categories.List(c.Request.Context())
		if err != nil {
			apperr.Write(c, err, "Failed to fetch categories")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func CreateCategory(categories *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.CreateCategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		category, err := categories.Create(c.Request.Context(), input)
		if err != nil {
			apperr.Write(c, err, "Failed to create category")
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}
