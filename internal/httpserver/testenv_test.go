package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shoplist/internal/inventory"
	"github.com/Skotchmaster/shoplist/internal/middleware/session"
	"github.com/Skotchmaster/shoplist/internal/models"
	"github.com/Skotchmaster/shoplist/internal/mykafka"
	"github.com/Skotchmaster/shoplist/internal/repo"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Svc      *inventory.Service
	Sessions *session.Manager
	Cart     *CartHandler
	Catalog  *CatalogHandler
	Checkout *CheckoutHandler
	History  *HistoryHandler
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.CatalogItem{},
		&models.CartLine{},
		&models.PurchaseRecord{},
		&models.Account{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	svc := &inventory.Service{Repo: &repo.GormRepo{DB: db}}
	prod := mykafka.NewProducer(nil)

	return &testEnv{
		T:        t,
		E:        echo.New(),
		DB:       db,
		Svc:      svc,
		Sessions: &session.Manager{Secret: []byte("test-session-secret")},
		Cart:     &CartHandler{Svc: svc},
		Catalog:  &CatalogHandler{Svc: svc, Producer: prod},
		Checkout: &CheckoutHandler{Svc: svc, Producer: prod},
		History:  &HistoryHandler{Svc: svc},
	}
}

func (env *testEnv) doJSONRequest(method, target string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, *http.Request, echo.Context) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			env.T.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, req, c
}

// sessionCookie forges the cookie Issue would have set after an OIDC login.
func (env *testEnv) sessionCookie(acc models.Account) *http.Cookie {
	claims := jwt.MapClaims{
		"sub":   acc.ID,
		"role":  string(acc.Role),
		"email": acc.Email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(env.Sessions.Secret)
	if err != nil {
		env.T.Fatalf("sign session token: %v", err)
	}
	return &http.Cookie{Name: session.CookieName, Value: signed, Path: "/"}
}

func (env *testEnv) withLogin(h echo.HandlerFunc) echo.HandlerFunc {
	return env.Sessions.RequireLogin(h)
}

func (env *testEnv) seedAccount(email string, role models.Role) models.Account {
	acc := models.Account{Email: email, Name: "Test", Role: role}
	if err := env.DB.Create(&acc).Error; err != nil {
		env.T.Fatalf("seed account: %v", err)
	}
	return acc
}

func (env *testEnv) seedItem(name string, quantity uint, price float64) models.CatalogItem {
	item := models.CatalogItem{Name: name, Category: models.DefaultCategory, Quantity: quantity, Price: price}
	if err := env.DB.Create(&item).Error; err != nil {
		env.T.Fatalf("seed item: %v", err)
	}
	return item
}
