package identity

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shoplist/internal/models"
	"github.com/Skotchmaster/shoplist/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return &repo.GormRepo{DB: db}
}

func TestRoleFor_IsPureAndCaseInsensitive(t *testing.T) {
	svc := NewService(newTestRepo(t), []string{"Admin@example.com", " boss@example.com "})

	assert.Equal(t, models.RoleAdmin, svc.RoleFor("admin@example.com"))
	assert.Equal(t, models.RoleAdmin, svc.RoleFor("ADMIN@EXAMPLE.COM"))
	assert.Equal(t, models.RoleAdmin, svc.RoleFor("boss@example.com"))
	assert.Equal(t, models.RoleUser, svc.RoleFor("user@example.com"))
	// same input, same answer
	assert.Equal(t, svc.RoleFor("user@example.com"), svc.RoleFor("user@example.com"))
}

func TestReconcile_CreatesAccountOnFirstLogin(t *testing.T) {
	r := newTestRepo(t)
	svc := NewService(r, []string{"admin@example.com"})
	ctx := context.Background()

	acc, err := svc.Reconcile(ctx, Claims{Email: "admin@example.com", Name: "Ada", Picture: "http://pic"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, acc.Role)
	assert.Equal(t, "Ada", acc.Name)
	assert.NotZero(t, acc.ID)

	acc2, err := svc.Reconcile(ctx, Claims{Email: "someone@example.com", Name: "Sam"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, acc2.Role)
}

func TestReconcile_RederivesRoleOnEveryLogin(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	svc := NewService(r, []string{"admin@example.com"})
	acc, err := svc.Reconcile(ctx, Claims{Email: "admin@example.com", Name: "Ada"})
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, acc.Role)

	// the allow-list changed, same account logs in again
	revoked := NewService(r, nil)
	acc, err = revoked.Reconcile(ctx, Claims{Email: "admin@example.com", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, acc.Role)

	var stored models.Account
	require.NoError(t, r.DB.Where("email = ?", "admin@example.com").First(&stored).Error)
	assert.Equal(t, models.RoleUser, stored.Role)

	// and granted back by configuration alone
	granted := NewService(r, []string{"admin@example.com"})
	acc, err = granted.Reconcile(ctx, Claims{Email: "admin@example.com", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, acc.Role)
}

func TestReconcile_RefreshesProfileFields(t *testing.T) {
	r := newTestRepo(t)
	svc := NewService(r, nil)
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, Claims{Email: "sam@example.com", Name: "Sam", Picture: "http://old"})
	require.NoError(t, err)

	second, err := svc.Reconcile(ctx, Claims{Email: "sam@example.com", Name: "Samantha", Picture: "http://new"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Samantha", second.Name)
	assert.Equal(t, "http://new", second.PictureURL)
}

func TestReconcile_RejectsEmptyEmail(t *testing.T) {
	svc := NewService(newTestRepo(t), nil)

	_, err := svc.Reconcile(context.Background(), Claims{Name: "nobody"})
	require.Error(t, err)
}
