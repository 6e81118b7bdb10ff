package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"storefront-orders/internal/domain"
	cartrepo "storefront-orders/internal/repository/cart"
	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID      string `json:"productId" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Size           string `json:"size"`
	Color          string `json:"color"`
}

func getCartHandler(carts cartrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		cart, err := carts.GetOrCreateActive(c.Request.Context(), sess.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart, "totalCents": cart.TotalCents()})
	}
}

func addCartItemHandler(carts cartrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if req.Quantity <= 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "quantity must be positive"})
			return
		}
		if req.UnitPriceCents < 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unitPriceCents must not be negative"})
			return
		}

		ctx := c.Request.Context()
		cart, err := carts.GetOrCreateActive(ctx, sess.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart unavailable"})
			return
		}
		if err := carts.AddItem(ctx, cart.ID, cartrepo.AddItemInput{
			ProductID:      strings.TrimSpace(req.ProductID),
			Quantity:       req.Quantity,
			UnitPriceCents: req.UnitPriceCents,
			Size:           req.Size,
			Color:          req.Color,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add item"})
			return
		}
		updated, err := carts.GetOrCreateActive(ctx, sess.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": updated, "totalCents": updated.TotalCents()})
	}
}

func changeCartItemHandler(carts cartrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		lineID := c.Param("lineId")
		var req struct {
			Quantity int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		ctx := c.Request.Context()
		cart, err := carts.GetOrCreateActive(ctx, sess.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart unavailable"})
			return
		}
		if err := carts.ChangeLineQuantity(ctx, cart.ID, lineID, req.Quantity); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "line not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update line"})
			return
		}
		updated, err := carts.GetOrCreateActive(ctx, sess.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": updated, "totalCents": updated.TotalCents()})
	}
}
