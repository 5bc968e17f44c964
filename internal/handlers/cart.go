package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/cart"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/events"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/middleware/session"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/models"
)

type CartHandler struct {
	Store    *cart.Store
	Producer *events.Producer
}

// cartView is what the widget renders after every mutation: the line list,
// the badge count and the running total.
type cartView struct {
	Items      []models.CartLine `json:"items"`
	Count      uint              `json:"count"`
	TotalCents int64             `json:"total_cents"`
	Total      string            `json:"total"`
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, session.FromContext(c), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *CartHandler) view(c echo.Context) cartView {
	sessionID := session.FromContext(c)

	lines, err := h.Store.Lines(c.Request().Context(), sessionID)
	if err != nil {
		// Storage trouble degrades to an empty cart so the widget stays
		// usable rather than failing the whole page.
		c.Logger().Errorf("cart read error: %v", err)
		lines = nil
	}

	view := cartView{Items: lines}
	if view.Items == nil {
		view.Items = []models.CartLine{}
	}
	for i := range lines {
		view.Count += lines[i].Quantity
		view.TotalCents += lines[i].LineTotalCents()
	}
	view.Total = models.FormatCents(view.TotalCents)
	return view
}

func (h *CartHandler) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, h.view(c))
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	var req struct {
		ProductID int    `json:"product_id"`
		Size      string `json:"size"`
		Quantity  uint   `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sessionID := session.FromContext(c)
	line, err := h.Store.Add(c.Request().Context(), sessionID, req.ProductID, req.Size, req.Quantity)
	if err != nil {
		return cartError(err)
	}

	h.publish(c, map[string]any{
		"type":       "cart_line_added",
		"session_id": sessionID,
		"product_id": line.ProductID,
		"size":       line.Size,
		"quantity":   line.Quantity,
	})
	return c.JSON(http.StatusOK, h.view(c))
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	var req struct {
		ProductID int    `json:"product_id"`
		Size      string `json:"size"`
		Delta     int    `json:"delta"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sessionID := session.FromContext(c)
	_, removed, err := h.Store.UpdateQuantity(c.Request().Context(), sessionID, req.ProductID, req.Size, req.Delta)
	if err != nil {
		return cartError(err)
	}

	h.publish(c, map[string]any{
		"type":       "cart_line_updated",
		"session_id": sessionID,
		"product_id": req.ProductID,
		"size":       req.Size,
		"removed":    removed,
	})
	return c.JSON(http.StatusOK, h.view(c))
}

func (h *CartHandler) DeleteFromCart(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	size := c.Param("size")

	sessionID := session.FromContext(c)
	if err := h.Store.Remove(c.Request().Context(), sessionID, productID, size); err != nil {
		return cartError(err)
	}

	h.publish(c, map[string]any{
		"type":       "cart_line_removed",
		"session_id": sessionID,
		"product_id": productID,
		"size":       size,
	})
	return c.JSON(http.StatusOK, h.view(c))
}

func (h *CartHandler) GetTotal(c echo.Context) error {
	total, err := h.Store.TotalCents(c.Request().Context(), session.FromContext(c))
	if err != nil {
		c.Logger().Errorf("cart total error: %v", err)
		total = 0
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_cents": total,
		"total":       models.FormatCents(total),
	})
}

func cartError(err error) error {
	switch {
	case errors.Is(err, cart.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, cart.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
