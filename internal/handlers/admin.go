package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/admin"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/models"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/orderlog"
)

type AdminHandler struct {
	Gate *admin.Gate
	Log  *orderlog.Log
}

func (h *AdminHandler) Login(c echo.Context) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if !h.Gate.Check(req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid password")
	}

	_, cookie, err := h.Gate.IssueToken()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.Log.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":         stats.Count,
		"revenue_cents": stats.RevenueCents,
		"revenue":       models.FormatCents(stats.RevenueCents),
	})
}

func (h *AdminHandler) RecentOrders(c echo.Context) error {
	n := 5
	if v := c.QueryParam("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid n")
		}
		n = parsed
	}

	orders, err := h.Log.Recent(c.Request().Context(), n)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}
