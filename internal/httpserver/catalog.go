package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/Skotchmaster/shoplist/internal/inventory"
	"github.com/Skotchmaster/shoplist/internal/logging"
	"github.com/Skotchmaster/shoplist/internal/models"
	"github.com/Skotchmaster/shoplist/internal/mykafka"
	"github.com/Skotchmaster/shoplist/internal/search"
	"github.com/Skotchmaster/shoplist/internal/util"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	Svc      *inventory.Service
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

func (h *CatalogHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "catalog_events", event["name"].(string), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *CatalogHandler) index(c echo.Context, item *models.CatalogItem) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.Index(ctx, h.ES, h.Index, item); err != nil {
		logging.FromContext(c.Request().Context()).Error("es index error", "error", err)
	}
}

func (h *CatalogHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	items, total, err := h.Svc.ListCatalog(ctx, offset, limit)
	if err != nil {
		l.Error("catalog_list_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
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

func (h *CatalogHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, "q required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, items, err := search.Search(ctx, h.ES, h.Index, q, from, limit)
	if err != nil {
		l.Error("catalog_search_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "items": items})
}

func (h *CatalogHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create")

	var req inventory.ItemFields
	if err := c.Bind(&req); err != nil {
		l.Warn("catalog_create_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.CreateItem(ctx, GetRole(c), req)
	if err != nil {
		l.Warn("catalog_create_error", "status", statusFor(err), "error", err)
		return domainError(c, err)
	}

	h.publish(c, map[string]any{
		"type":    "item_created",
		"item_id": item.ID,
		"name":    item.Name,
	})
	h.index(c, item)

	l.Info("catalog item created", "item_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch")

	id := parseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	var req inventory.ItemFields
	if err := c.Bind(&req); err != nil {
		l.Warn("catalog_patch_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.EditItem(ctx, GetRole(c), uint(id), req)
	if err != nil {
		l.Warn("catalog_patch_error", "status", statusFor(err), "error", err)
		return domainError(c, err)
	}

	h.publish(c, map[string]any{
		"type":    "item_updated",
		"item_id": item.ID,
		"name":    item.Name,
	})
	h.index(c, item)

	l.Info("catalog item updated", "item_id", item.ID)
	return c.JSON(http.StatusOK, item)
}
