package httpserver

import (
	"net/http"

	"acaihouse/internal/domain"
	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID     string   `json:"productId" binding:"required"`
	Quantity      int      `json:"quantity" binding:"required"`
	ComplementIDs []string `json:"complementIds"`
}

type addCustomAcaiRequest struct {
	Quantity int                  `json:"quantity" binding:"required"`
	Custom   domain.CustomPayload `json:"custom" binding:"required"`
}

type addCustomProductRequest struct {
	Name     string               `json:"name" binding:"required"`
	Quantity int                  `json:"quantity" binding:"required"`
	Custom   domain.CustomPayload `json:"custom" binding:"required"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func cartResponse(c *gin.Context, cart *domain.Cart) {
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	c.JSON(http.StatusOK, cart)
}

func getCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Get(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart fetch failed"})
			return
		}
		cartResponse(c, cart)
	}
}

func addCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := carts.AddItem(c.Request.Context(), currentUser(c).ID, in.ProductID, in.Quantity, in.ComplementIDs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cartResponse(c, cart)
	}
}

func addCustomAcaiHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addCustomAcaiRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := carts.AddCustomAcai(c.Request.Context(), currentUser(c).ID, in.Custom, in.Quantity)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cartResponse(c, cart)
	}
}

func addCustomProductHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addCustomProductRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := carts.AddCustomProduct(c.Request.Context(), currentUser(c).ID, in.Name, in.Custom, in.Quantity)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cartResponse(c, cart)
	}
}

func updateCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in updateItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := carts.UpdateItem(c.Request.Context(), currentUser(c).ID, c.Param("itemId"), in.Quantity)
		if err != nil {
			status := http.StatusBadRequest
			if err == domain.ErrNotFound {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		cartResponse(c, cart)
	}
}

func removeCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.RemoveItem(c.Request.Context(), currentUser(c).ID, c.Param("itemId"))
		if err != nil {
			status := http.StatusBadRequest
			if err == domain.ErrNotFound {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		cartResponse(c, cart)
	}
}

func clearCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Clear(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "clear failed"})
			return
		}
		cartResponse(c, cart)
	}
}
