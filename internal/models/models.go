package models

import (
	"time"
)

// Role is the closed set of account roles. It is re-derived from the admin
// allow-list on every login, never edited by hand.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

const DefaultCategory = "Uncategorized"

type CatalogItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"       json:"id"`
	Name      string    `gorm:"uniqueIndex;not null"           json:"name"`
	Category  string    `gorm:"not null;default:Uncategorized" json:"category"`
	Quantity  uint      `json:"quantity"`
	Price     float64   `gorm:"not null;default:0"             json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

func (CatalogItem) TableName() string {
	return "catalog_items"
}

type CartLine struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"           json:"id"`
	UserID   uint      `gorm:"uniqueIndex:idx_user_item;not null" json:"user_id"`
	ItemName string    `gorm:"uniqueIndex:idx_user_item;not null" json:"item_name"`
	Quantity uint      `gorm:"default:1;check:quantity>0"         json:"quantity"`
	AddedAt  time.Time `gorm:"autoCreateTime"                     json:"added_at"`
}

func (CartLine) TableName() string {
	return "cart_lines"
}

// PurchaseRecord rows are the audit trail: written once by checkout
// finalization, never updated or deleted.
type PurchaseRecord struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID string    `gorm:"index;not null"           json:"transaction_id"`
	UserID        uint      `gorm:"index;not null"           json:"user_id"`
	ItemName      string    `gorm:"not null"                 json:"item_name"`
	Quantity      uint      `gorm:"not null"                 json:"quantity"`
	UnitPrice     float64   `gorm:"not null"                 json:"unit_price"`
	PurchasedAt   time.Time `gorm:"autoCreateTime"           json:"purchased_at"`
}

func (PurchaseRecord) TableName() string {
	return "purchase_records"
}

type Account struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email      string `gorm:"uniqueIndex;not null"     json:"email"`
	Name       string `json:"name"`
	PictureURL string `json:"picture_url"`
	Role       Role   `gorm:"not null;default:user"    json:"role"`
}

func (Account) TableName() string {
	return "accounts"
}
