package httpserver

import (
	"net/http"

	cartrepo "storefront-orders/internal/repository/cart"
	addresssvc "storefront-orders/internal/service/address"
	"storefront-orders/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	SavedAddressID string           `json:"savedAddressId"`
	NewAddress     *addresssvc.Form `json:"newAddress"`
	Notes          string           `json:"notes"`
}

type checkoutResponse struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	TotalCents  int64  `json:"totalCents"`
}

func checkoutHandler(svc *checkout.Service, carts cartrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		var req checkoutRequest
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

		order, err := svc.Submit(ctx, sess, checkout.SubmitInput{
			Cart: *cart,
			Address: addresssvc.Input{
				SavedID: req.SavedAddressID,
				Form:    req.NewAddress,
			},
			Notes: req.Notes,
		})
		if err != nil {
			writeCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusCreated, checkoutResponse{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			TotalCents:  order.TotalCents,
		})
	}
}

// writeCheckoutError renders one blocking message per failure with a
// specific call-to-action. The cart is never cleared on failure, so "try
// again" always means resubmitting the same items.
func writeCheckoutError(c *gin.Context, err error) {
	kind := checkout.KindOf(err)
	switch kind {
	case checkout.KindEmptyCart:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "your cart is empty",
			"kind":   kind,
			"action": "add items before checking out",
		})
	case checkout.KindValidation:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "some fields need attention",
			"kind":   kind,
			"fields": checkout.FieldsOf(err),
			"action": "correct the highlighted fields",
		})
	case checkout.KindAddressNotFound:
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "that delivery address no longer exists",
			"kind":   kind,
			"action": "select another address",
		})
	case checkout.KindSessionExpired:
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":  "your session has expired",
			"kind":   kind,
			"action": "log in again; your cart is saved",
		})
	case checkout.KindLineCreate, checkout.KindOrderCreate:
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  "the order could not be placed",
			"kind":   kind,
			"action": "try again in a moment",
		})
	case checkout.KindInconsistent:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "the order was only partially recorded",
			"kind":   kind,
			"action": "contact support before resubmitting",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
	}
}
