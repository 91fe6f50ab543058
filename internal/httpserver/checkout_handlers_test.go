package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shoplist/internal/inventory"
	"github.com/Skotchmaster/shoplist/internal/models"
	"github.com/Skotchmaster/shoplist/internal/payment"
)

func TestCheckoutStart_EmptyCart(t *testing.T) {
	env := newTestEnv(t)
	acc := env.seedAccount("sam@example.com", models.RoleUser)
	env.Checkout.Payments = payment.NewClient("sk_test_dummy", "http://shop/checkout/success", "http://shop/checkout/cancel")

	rec, _, c := env.doJSONRequest(http.MethodPost, "/checkout", nil, env.sessionCookie(acc))
	require.NoError(t, env.withLogin(env.Checkout.Start)(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutStart_GatewayNotConfigured(t *testing.T) {
	env := newTestEnv(t)
	acc := env.seedAccount("sam@example.com", models.RoleUser)

	rec, _, c := env.doJSONRequest(http.MethodPost, "/checkout", nil, env.sessionCookie(acc))
	require.NoError(t, env.withLogin(env.Checkout.Start)(c))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCheckoutSuccess_FinalizesPurchase(t *testing.T) {
	env := newTestEnv(t)
	acc := env.seedAccount("sam@example.com", models.RoleUser)
	env.seedItem("milk", 5, 2.50)

	ctx := context.Background()
	_, _, err := env.Svc.ReserveOne(ctx, acc.ID, "milk")
	require.NoError(t, err)
	_, _, err = env.Svc.ReserveOne(ctx, acc.ID, "milk")
	require.NoError(t, err)

	rec, _, c := env.doJSONRequest(http.MethodGet, "/checkout/success?session_id=cs_test_1", nil, env.sessionCookie(acc))
	require.NoError(t, env.withLogin(env.Checkout.Success)(c))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/catalog", rec.Header().Get("Location"))

	var records []models.PurchaseRecord
	require.NoError(t, env.DB.Where("user_id = ?", acc.ID).Find(&records).Error)
	require.Len(t, records, 1)
	require.Equal(t, "cs_test_1", records[0].TransactionID)
	require.Equal(t, uint(2), records[0].Quantity)
	require.Equal(t, 2.50, records[0].UnitPrice)

	lines, err := env.Svc.ListCart(ctx, acc.ID)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestCheckoutSuccess_MissingSessionIDJustRedirects(t *testing.T) {
	env := newTestEnv(t)
	acc := env.seedAccount("sam@example.com", models.RoleUser)
	env.seedItem("milk", 5, 2.50)
	_, _, err := env.Svc.ReserveOne(context.Background(), acc.ID, "milk")
	require.NoError(t, err)

	rec, _, c := env.doJSONRequest(http.MethodGet, "/checkout/success", nil, env.sessionCookie(acc))
	require.NoError(t, env.withLogin(env.Checkout.Success)(c))
	require.Equal(t, http.StatusFound, rec.Code)

	lines, err := env.Svc.ListCart(context.Background(), acc.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1, "cart must be untouched without a session id")
}

func TestHistory_GroupsByTransaction(t *testing.T) {
	env := newTestEnv(t)
	acc := env.seedAccount("sam@example.com", models.RoleUser)
	env.seedItem("milk", 5, 2.50)
	env.seedItem("eggs", 5, 4)

	ctx := context.Background()
	_, _, err := env.Svc.ReserveOne(ctx, acc.ID, "milk")
	require.NoError(t, err)
	_, err = env.Svc.FinalizePurchase(ctx, acc.ID, "cs_first")
	require.NoError(t, err)

	_, _, err = env.Svc.ReserveOne(ctx, acc.ID, "eggs")
	require.NoError(t, err)
	_, err = env.Svc.FinalizePurchase(ctx, acc.ID, "cs_second")
	require.NoError(t, err)

	rec, _, c := env.doJSONRequest(http.MethodGet, "/history", nil, env.sessionCookie(acc))
	require.NoError(t, env.withLogin(env.History.Get)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Transactions []inventory.Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Transactions, 2)

	ids := []string{resp.Transactions[0].TransactionID, resp.Transactions[1].TransactionID}
	require.ElementsMatch(t, []string{"cs_first", "cs_second"}, ids)
	for _, tx := range resp.Transactions {
		require.Len(t, tx.Lines, 1)
		require.NotZero(t, tx.Total)
	}
}
