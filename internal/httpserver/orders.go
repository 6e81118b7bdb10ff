package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-orders/internal/domain"
	ordersvc "storefront-orders/internal/service/order"
	"github.com/gin-gonic/gin"
)

func getOrderHandler(orders *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		order, err := orders.Get(c.Request.Context(), sess.UserID, c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order unavailable"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func listMyOrdersHandler(orders *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		list, err := orders.ListMine(c.Request.Context(), sess.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "orders unavailable"})
			return
		}
		if list == nil {
			list = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

func adminListOrdersHandler(orders *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		list, err := orders.List(c.Request.Context(), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "orders unavailable"})
			return
		}
		if list == nil {
			list = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": list, "count": len(list)})
	}
}

func adminUpdateStatusHandler(orders *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ordersvc.StatusInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		updated, err := orders.UpdateStatus(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			switch {
			case errors.Is(err, ordersvc.ErrInvalidStatus):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid status value"})
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			}
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
