package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/storefront/internal/cart"
	"github.com/minimarket/storefront/internal/logging"
)

type CartHandler struct {
	Engine *cart.Engine
}

// coerceQty mirrors the loose add-to-cart contract: any numeric value is
// truncated to an integer, anything else (missing, strings that do not
// parse, other JSON types) falls back to 1.
func coerceQty(raw any) int {
	switch v := raw.(type) {
	case float64:
		return int(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return int(f)
		}
	}
	return 1
}

func (h *CartHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	uid, ok := userID(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	entries, err := h.Engine.Get(ctx, uid)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, entries)
}

func (h *CartHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	uid, ok := userID(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		ItemID string `json:"itemId"`
		Qty    any    `json:"qty"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if req.ItemID == "" {
		return errorJSON(c, http.StatusBadRequest, "itemId required")
	}

	entries, err := h.Engine.Add(ctx, uid, req.ItemID, coerceQty(req.Qty))
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			return errorJSON(c, http.StatusNotFound, "item not found")
		}
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, entries)
}

func (h *CartHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	uid, ok := userID(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		ItemID string   `json:"itemId"`
		Qty    *float64 `json:"qty"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_error", "status", 400, "error", err)
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if req.ItemID == "" {
		return errorJSON(c, http.StatusBadRequest, "itemId required")
	}
	if req.Qty == nil {
		return errorJSON(c, http.StatusBadRequest, "qty required")
	}

	entries, err := h.Engine.Update(ctx, uid, req.ItemID, int(*req.Qty))
	if err != nil {
		l.Error("update_cart_error", "status", 500, "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, entries)
}

func (h *CartHandler) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	uid, ok := userID(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		ItemID string `json:"itemId"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "error", err)
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if req.ItemID == "" {
		return errorJSON(c, http.StatusBadRequest, "itemId required")
	}

	entries, err := h.Engine.Remove(ctx, uid, req.ItemID)
	if err != nil {
		l.Error("remove_from_cart_error", "status", 500, "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, entries)
}
