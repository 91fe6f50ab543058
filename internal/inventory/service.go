package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Skotchmaster/shoplist/internal/models"
	"github.com/Skotchmaster/shoplist/internal/repo"
	"gorm.io/gorm"
)

// Service owns the cart → purchase lifecycle and enforces stock conservation.
// All role checks happen here, not in route middleware, so the invariants hold
// no matter which entry point calls in.
type Service struct {
	Repo *repo.GormRepo
}

// LineItem is what the payment gateway consumes: the unit amount is in minor
// currency units (cents).
type LineItem struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int64  `json:"quantity"`
}

// Transaction is one checkout session's worth of purchase records.
type Transaction struct {
	TransactionID string                  `json:"transaction_id"`
	Lines         []models.PurchaseRecord `json:"lines"`
	Total         float64                 `json:"total"`
	Date          time.Time               `json:"date"`
}

type ItemFields struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity uint    `json:"quantity"`
}

func (s *Service) ReserveOne(ctx context.Context, userID uint, itemName string) ([]models.CartLine, *models.CatalogItem, error) {
	if itemName == "" {
		return nil, nil, fmt.Errorf("item name required: %w", ErrValidation)
	}

	_, item, err := s.Repo.ReserveOne(ctx, userID, itemName)
	switch {
	case errors.Is(err, repo.ErrOutOfStock):
		return nil, nil, fmt.Errorf("%q: %w", itemName, ErrOutOfStock)
	case errors.Is(err, repo.ErrInsufficientStock):
		return nil, nil, fmt.Errorf("%q: %w", itemName, ErrInsufficientStock)
	case err != nil:
		return nil, nil, err
	}

	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return cart, item, nil
}

func (s *Service) ReleaseLine(ctx context.Context, userID, lineID uint) ([]models.CartLine, *models.CatalogItem, error) {
	item, err := s.Repo.ReleaseLine(ctx, userID, lineID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("cart line %d: %w", lineID, ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}

	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return cart, item, nil
}

func (s *Service) ListCart(ctx context.Context, userID uint) ([]models.CartLine, error) {
	return s.Repo.GetCart(ctx, userID)
}

// Checkout is read-only: it builds the gateway line items from the current
// cart joined against current catalog prices. Lines whose item lost its price
// are skipped, not failed.
func (s *Service) Checkout(ctx context.Context, userID uint) ([]LineItem, error) {
	lines, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		item, err := s.Repo.GetItemByName(ctx, line.ItemName)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if item.Price <= 0 {
			continue
		}
		items = append(items, LineItem{
			Name:       line.ItemName,
			UnitAmount: int64(item.Price * 100),
			Quantity:   int64(line.Quantity),
		})
	}

	if len(items) == 0 {
		return nil, ErrNoValidLineItems
	}
	return items, nil
}

func (s *Service) FinalizePurchase(ctx context.Context, userID uint, transactionID string) (int, error) {
	if transactionID == "" {
		return 0, fmt.Errorf("transaction id required: %w", ErrValidation)
	}
	return s.Repo.FinalizePurchase(ctx, userID, transactionID)
}

func (s *Service) ListCatalog(ctx context.Context, offset, limit int) ([]models.CatalogItem, int64, error) {
	return s.Repo.ListItems(ctx, offset, limit)
}

func (s *Service) CreateItem(ctx context.Context, actorRole models.Role, fields ItemFields) (*models.CatalogItem, error) {
	if actorRole != models.RoleAdmin {
		return nil, fmt.Errorf("admin role required: %w", ErrUnauthorized)
	}
	if fields.Name == "" {
		return nil, fmt.Errorf("name required: %w", ErrValidation)
	}
	if fields.Price < 0 {
		return nil, fmt.Errorf("price must be >= 0: %w", ErrValidation)
	}
	if fields.Category == "" {
		fields.Category = models.DefaultCategory
	}

	item := models.CatalogItem{
		Name:     fields.Name,
		Category: fields.Category,
		Price:    fields.Price,
		Quantity: fields.Quantity,
	}
	if err := s.Repo.CreateItem(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// EditItem overwrites the item unconditionally. No stock-conservation check
// here: the admin is trusted to correct inventory directly.
func (s *Service) EditItem(ctx context.Context, actorRole models.Role, itemID uint, fields ItemFields) (*models.CatalogItem, error) {
	if actorRole != models.RoleAdmin {
		return nil, fmt.Errorf("admin role required: %w", ErrUnauthorized)
	}
	if fields.Name == "" {
		return nil, fmt.Errorf("name required: %w", ErrValidation)
	}
	if fields.Price < 0 {
		return nil, fmt.Errorf("price must be >= 0: %w", ErrValidation)
	}
	if fields.Category == "" {
		fields.Category = models.DefaultCategory
	}

	item, err := s.Repo.GetItem(ctx, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	item.Name = fields.Name
	item.Category = fields.Category
	item.Price = fields.Price
	item.Quantity = fields.Quantity

	if err := s.Repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// PurchaseHistory groups the user's records by transaction id, newest group
// first. Equal dates order by transaction id so the listing is deterministic.
func (s *Service) PurchaseHistory(ctx context.Context, userID uint) ([]Transaction, error) {
	records, err := s.Repo.ListPurchases(ctx, userID)
	if err != nil {
		return nil, err
	}

	index := map[string]int{}
	groups := []Transaction{}
	for _, rec := range records {
		i, ok := index[rec.TransactionID]
		if !ok {
			i = len(groups)
			index[rec.TransactionID] = i
			groups = append(groups, Transaction{
				TransactionID: rec.TransactionID,
				Date:          rec.PurchasedAt,
			})
		}
		g := &groups[i]
		g.Lines = append(g.Lines, rec)
		g.Total += float64(rec.Quantity) * rec.UnitPrice
		if rec.PurchasedAt.Before(g.Date) {
			g.Date = rec.PurchasedAt
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].Date.Equal(groups[j].Date) {
			return groups[i].Date.After(groups[j].Date)
		}
		return groups[i].TransactionID < groups[j].TransactionID
	})

	return groups, nil
}
