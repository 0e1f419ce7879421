package httpserver

import (
	"errors"
	"net/http"

	"acaihouse/internal/domain"
	ordersvc "acaihouse/internal/service/order"
	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	Address string `json:"address"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type assignRequest struct {
	DeliveryPersonID string `json:"deliveryPersonId" binding:"required"`
}

func checkoutHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkoutRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&in); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
		}
		u := currentUser(c)
		address := in.Address
		if address == "" {
			address = u.Address
		}
		order, err := orders.Checkout(c.Request.Context(), u.ID, address)
		if err != nil {
			switch {
			case errors.Is(err, ordersvc.ErrEmptyCart):
				c.JSON(http.StatusConflict, gin.H{"error": "cart is empty"})
			case errors.Is(err, ordersvc.ErrStoreClosed):
				c.JSON(http.StatusConflict, gin.H{"error": "store is closed"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func listMyOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListMine(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list orders failed"})
			return
		}
		if list == nil {
			list = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

func listAllOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListAll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list orders failed"})
			return
		}
		if list == nil {
			list = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

func setOrderStatusHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in statusRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		order, err := orders.SetStatus(c.Request.Context(), c.Param("id"), in.Status)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func assignDeliveryHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in assignRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		order, err := orders.AssignDeliveryPerson(c.Request.Context(), c.Param("id"), in.DeliveryPersonID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func listDeliveryHandler(deliveries DeliveryLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := deliveries.ListActive(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list delivery people failed"})
			return
		}
		if list == nil {
			list = []domain.DeliveryPerson{}
		}
		c.JSON(http.StatusOK, gin.H{"deliveryPeople": list})
	}
}
