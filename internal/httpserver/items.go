package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/storefront/internal/catalog"
	"github.com/minimarket/storefront/internal/logging"
	"github.com/minimarket/storefront/internal/store"
)

type ItemsHandler struct {
	Svc *catalog.Service
}

func priceParam(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (h *ItemsHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "items.list")

	filter := store.Filter{
		Category: c.QueryParam("category"),
		Query:    c.QueryParam("q"),
	}

	var err error
	if filter.MinPrice, err = priceParam(c, "minPrice"); err != nil {
		return errorJSON(c, http.StatusBadRequest, "minPrice must be a number")
	}
	if filter.MaxPrice, err = priceParam(c, "maxPrice"); err != nil {
		return errorJSON(c, http.StatusBadRequest, "maxPrice must be a number")
	}

	items, err := h.Svc.List(ctx, filter)
	if err != nil {
		l.Error("list_items_error", "status", 500, "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ItemsHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "items.get")

	item, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "item not found")
		}
		l.Error("get_item_error", "status", 500, "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, item)
}

func (h *ItemsHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "items.create")

	var req struct {
		Name        string   `json:"name"`
		Price       *float64 `json:"price"`
		Category    string   `json:"category"`
		Description string   `json:"description"`
		Image       string   `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create_item_error", "status", 400, "error", err)
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Price == nil {
		return errorJSON(c, http.StatusBadRequest, "name and price required")
	}

	item, err := h.Svc.Create(ctx, catalog.CreateRequest{
		Name:        req.Name,
		Price:       *req.Price,
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrValidation) {
			return errorJSON(c, http.StatusBadRequest, err.Error())
		}
		l.Error("create_item_error", "status", 500, "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, item)
}

func (h *ItemsHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "items.update")

	var patch store.ItemPatch
	if err := c.Bind(&patch); err != nil {
		l.Warn("update_item_error", "status", 400, "error", err)
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.Update(ctx, c.Param("id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return errorJSON(c, http.StatusNotFound, "item not found")
		case errors.Is(err, catalog.ErrValidation):
			return errorJSON(c, http.StatusBadRequest, err.Error())
		}
		l.Error("update_item_error", "status", 500, "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, item)
}

func (h *ItemsHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "items.delete")

	item, err := h.Svc.Delete(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "item not found")
		}
		l.Error("delete_item_error", "status", 500, "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]any{"removed": item})
}
