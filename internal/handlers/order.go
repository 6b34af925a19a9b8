package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teguhsatriya/furnimart/internal/models"
	"github.com/teguhsatriya/furnimart/internal/mykafka"
	"github.com/teguhsatriya/furnimart/internal/service/cart"
	"github.com/teguhsatriya/furnimart/internal/service/order"
	"github.com/teguhsatriya/furnimart/internal/service/token"
	"github.com/teguhsatriya/furnimart/internal/util"
)

type OrderHandler struct {
	Svc      *order.Service
	Carts    *cart.Service
	Producer *mykafka.Producer
}

type checkoutRequest struct {
	AddressID      uint   `json:"address_id"`
	ShippingMethod string `json:"shipping_method"`
	PaymentMethod  string `json:"payment_method"`
}

// Checkout snapshots the caller's cart and runs the order creation
// sequence against it.
func (h *OrderHandler) Checkout(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	items, err := h.Carts.Items(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	lines := make([]order.CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, order.CartLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	created, err := h.Svc.CreateOrder(c.Request().Context(), userID, order.CheckoutInput{
		Items:          lines,
		AddressID:      req.AddressID,
		ShippingMethod: req.ShippingMethod,
		PaymentMethod:  req.PaymentMethod,
	})
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": created.ID,
		"total":   created.TotalAmount,
	})
	return c.JSON(http.StatusCreated, created)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	o, err := h.Svc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	role, _ := c.Get("role").(string)
	if o.UserID != userID && role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, total, err := h.Svc.ListOrders(c.Request().Context(), order.ListFilter{
		UserID: userID,
		Status: c.QueryParam("status"),
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": orders, "total": total})
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, total, err := h.Svc.ListOrders(c.Request().Context(), order.ListFilter{
		UserID: uint(parseIntDefault(c.QueryParam("user_id"), 0)),
		Status: c.QueryParam("status"),
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": orders, "total": total})
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	o, err := h.Svc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":    "order_status_changed",
		"userID":  o.UserID,
		"orderID": o.ID,
		"status":  o.Status,
	})
	return c.JSON(http.StatusOK, o)
}
