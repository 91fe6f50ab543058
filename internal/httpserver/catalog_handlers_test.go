package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shoplist/internal/inventory"
	"github.com/Skotchmaster/shoplist/internal/models"
)

func TestListCatalog(t *testing.T) {
	env := newTestEnv(t)
	env.seedItem("milk", 5, 2.50)
	env.seedItem("eggs", 10, 4)

	rec, _, c := env.doJSONRequest(http.MethodGet, "/catalog", nil)
	require.NoError(t, env.Catalog.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.CatalogItem `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.EqualValues(t, 2, resp.Meta.Total)
	require.Equal(t, "milk", resp.Data[0].Name)
}

func TestCreateItem_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedAccount("sam@example.com", models.RoleUser)
	admin := env.seedAccount("boss@example.com", models.RoleAdmin)

	load := inventory.ItemFields{Name: "milk", Price: 2.50, Quantity: 5}

	rec, _, c := env.doJSONRequest(http.MethodPost, "/catalog", load, env.sessionCookie(user))
	require.NoError(t, env.withLogin(env.Catalog.Create)(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, _, c = env.doJSONRequest(http.MethodPost, "/catalog", load, env.sessionCookie(admin))
	require.NoError(t, env.withLogin(env.Catalog.Create)(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.CatalogItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.Equal(t, "milk", item.Name)
	require.Equal(t, models.DefaultCategory, item.Category)
	require.NotZero(t, item.ID)
}

func TestPatchItem(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAccount("boss@example.com", models.RoleAdmin)
	item := env.seedItem("milk", 5, 2.50)

	load := inventory.ItemFields{Name: "whole milk", Category: "Dairy", Price: 3.10, Quantity: 20}

	rec, _, c := env.doJSONRequest(http.MethodPatch, "/catalog/1", load, env.sessionCookie(admin))
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.withLogin(env.Catalog.Patch)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.CatalogItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, item.ID, updated.ID)
	require.Equal(t, "whole milk", updated.Name)
	require.Equal(t, "Dairy", updated.Category)
	require.EqualValues(t, 20, updated.Quantity)
}

func TestPatchItem_MissingIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAccount("boss@example.com", models.RoleAdmin)

	load := inventory.ItemFields{Name: "ghost", Price: 1}

	rec, _, c := env.doJSONRequest(http.MethodPatch, "/catalog/404", load, env.sessionCookie(admin))
	c.SetParamNames("id")
	c.SetParamValues("404")
	require.NoError(t, env.withLogin(env.Catalog.Patch)(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
