package httpserver

import (
	"errors"
	"net/http"
	"time"

	"acaihouse/internal/domain"
	"github.com/gin-gonic/gin"
)

func listProductsHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.ListProducts(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list products failed"})
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

func getProductHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := catalog.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get product failed"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func listComplementsHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		complements, err := catalog.ListComplements(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list complements failed"})
			return
		}
		if complements == nil {
			complements = []domain.Complement{}
		}
		c.JSON(http.StatusOK, gin.H{"complements": complements})
	}
}

func storeStatusHandler(hours HoursService) gin.HandlerFunc {
	return func(c *gin.Context) {
		open, err := hours.IsOpen(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "status check failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"open": open})
	}
}

func storeHoursHandler(hours HoursService) gin.HandlerFunc {
	return func(c *gin.Context) {
		schedule, err := hours.Schedule(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "schedule fetch failed"})
			return
		}
		if schedule == nil {
			schedule = []domain.StoreHours{}
		}
		c.JSON(http.StatusOK, gin.H{"hours": schedule})
	}
}

func setStoreHoursHandler(hours HoursService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Hours []domain.StoreHours `json:"hours"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := hours.SetSchedule(c.Request.Context(), in.Hours); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func upsertProductHandler(products ProductWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in domain.Product
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if in.Key == "" || in.Name == "" || in.PriceCents <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "key, name and positive priceCents required"})
			return
		}
		out, err := products.Upsert(c.Request.Context(), in)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upsert failed"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
