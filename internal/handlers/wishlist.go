package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teguhsatriya/furnimart/internal/mykafka"
	"github.com/teguhsatriya/furnimart/internal/service/token"
	"github.com/teguhsatriya/furnimart/internal/service/wishlist"
)

type WishlistHandler struct {
	Svc      *wishlist.Service
	Producer *mykafka.Producer
}

func (h *WishlistHandler) GetWishlist(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	entries, err := h.Svc.List(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	entry, err := h.Svc.Add(c.Request().Context(), userID, req.ProductID)
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":      "wishlist_item_added",
		"userID":    userID,
		"productID": req.ProductID,
	})
	return c.JSON(http.StatusCreated, entry)
}

func (h *WishlistHandler) RemoveFromWishlist(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	productID, err := paramID(c, "productID")
	if err != nil {
		return err
	}
	if err := h.Svc.Remove(c.Request().Context(), userID, productID); err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":      "wishlist_item_removed",
		"userID":    userID,
		"productID": productID,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *WishlistHandler) Contains(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	productID, err := paramID(c, "productID")
	if err != nil {
		return err
	}
	ok, err := h.Svc.Contains(c.Request().Context(), userID, productID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"in_wishlist": ok})
}
