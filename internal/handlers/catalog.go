package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/teguhsatriya/furnimart/internal/mykafka"
	"github.com/teguhsatriya/furnimart/internal/service/catalog"
	"github.com/teguhsatriya/furnimart/internal/service/search"
	"github.com/teguhsatriya/furnimart/internal/service/token"
	"github.com/teguhsatriya/furnimart/internal/util"
)

type CatalogHandler struct {
	Svc      *catalog.Service
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

func (h *CatalogHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	f := catalog.ProductFilter{
		CategoryID: uint(parseIntDefault(c.QueryParam("category_id"), 0)),
		Sort:       c.QueryParam("sort"),
		Offset:     offset,
		Limit:      limit,
	}
	if v := c.QueryParam("is_hot"); v != "" {
		hot := v == "true" || v == "1"
		f.IsHot = &hot
	}

	products, total, err := h.Svc.ListProducts(c.Request().Context(), f)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": products,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.Svc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req catalog.ProductInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	p, err := h.Svc.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}

	if h.ES != nil {
		if err := search.IndexProduct(c.Request().Context(), h.ES, h.Index, *p); err != nil {
			c.Logger().Errorf("index product: %v", err)
		}
	}
	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_created",
		"productID": p.ID,
		"name":      p.Name,
	})
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHandler) PatchProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req catalog.ProductInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	p, err := h.Svc.UpdateProduct(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}

	if h.ES != nil {
		if err := search.IndexProduct(c.Request().Context(), h.ES, h.Index, *p); err != nil {
			c.Logger().Errorf("index product: %v", err)
		}
	}
	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_updated",
		"productID": p.ID,
		"name":      p.Name,
	})
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteProduct(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	if h.ES != nil {
		if err := search.DeleteProduct(c.Request().Context(), h.ES, h.Index, id); err != nil {
			c.Logger().Errorf("deindex product: %v", err)
		}
	}
	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) GetCategories(c echo.Context) error {
	cats, err := h.Svc.ListCategories(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cats)
}

type categoryRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	cat, err := h.Svc.CreateCategory(c.Request().Context(), req.Name, req.ImageURL)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHandler) PatchCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	cat, err := h.Svc.UpdateCategory(c.Request().Context(), id, req.Name, req.ImageURL)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteCategory(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *CatalogHandler) CreateReview(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}
	productID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	review, err := h.Svc.AddReview(c.Request().Context(), userID, productID, req.Rating, req.Comment)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *CatalogHandler) GetReviews(c echo.Context) error {
	productID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	reviews, err := h.Svc.ListReviews(c.Request().Context(), productID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reviews)
}
