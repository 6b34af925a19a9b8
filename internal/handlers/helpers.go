package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/teguhsatriya/furnimart/internal/mykafka"
	"github.com/teguhsatriya/furnimart/internal/service/address"
	"github.com/teguhsatriya/furnimart/internal/service/catalog"
	"github.com/teguhsatriya/furnimart/internal/service/order"
	"github.com/teguhsatriya/furnimart/internal/service/wishlist"
)

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// httpError maps service sentinel errors onto HTTP statuses. Anything
// unmapped is a 500.
func httpError(err error) error {
	var step *order.StepError

	switch {
	case errors.Is(err, address.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, wishlist.ErrDuplicate),
		errors.Is(err, catalog.ErrCategoryInUse),
		errors.Is(err, order.ErrIllegalTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, catalog.ErrValidation),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidAddress),
		errors.Is(err, order.ErrProductNotFound):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &step):
		return echo.NewHTTPError(http.StatusInternalServerError, "order could not be created")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func publish(c echo.Context, p *mykafka.Producer, topic string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
