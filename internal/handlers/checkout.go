package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/checkout"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/events"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/middleware/session"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/models"
)

type CheckoutHandler struct {
	Submitter *checkout.Submitter
	Producer  *events.Producer
}

// Checkout drives the submit state machine. A validation problem or an empty
// cart rejects synchronously with no state change; a delivery failure leaves
// cart and form state intact so the visitor can retry.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	var customer models.Customer
	if err := c.Bind(&customer); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sessionID := session.FromContext(c)
	receipt, err := h.Submitter.Submit(c.Request().Context(), sessionID, customer)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrValidation), errors.Is(err, checkout.ErrEmptyCart):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, checkout.ErrInFlight):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			c.Logger().Errorf("checkout failed: %v", err)
			return c.JSON(http.StatusBadGateway, echo.Map{
				"status":  "error",
				"message": "Order could not be delivered. Your cart is unchanged; please try again.",
			})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, sessionID, map[string]any{
		"type":        "order_created",
		"order_id":    receipt.OrderID,
		"total_cents": receipt.TotalCents,
		"sink":        receipt.Sink,
	}); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"message": "Order submitted successfully!",
		"receipt": receipt,
	})
}
