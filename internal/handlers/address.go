package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teguhsatriya/furnimart/internal/service/address"
	"github.com/teguhsatriya/furnimart/internal/service/token"
)

type AddressHandler struct {
	Svc *address.Service
}

func (h *AddressHandler) ListAddresses(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	addrs, err := h.Svc.List(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, addrs)
}

func (h *AddressHandler) GetAddress(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	addr, err := h.Svc.Get(c.Request().Context(), id, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, addr)
}

func (h *AddressHandler) CreateAddress(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	var req address.Input
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	addr, err := h.Svc.Create(c.Request().Context(), userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, addr)
}

func (h *AddressHandler) PatchAddress(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req address.Input
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	addr, err := h.Svc.Update(c.Request().Context(), id, userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, addr)
}

func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id, userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
