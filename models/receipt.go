package models

import "time"

// Receipt roles. Settlement writes a matched pair: a purchase receipt for the
// buyer and a sale receipt for the seller, with identical items and amount.
const (
	ReceiptRolePurchase = "purchase"
	ReceiptRoleSale     = "sale"
)

type Receipt struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	ReceiptNumber string        `gorm:"type:varchar(36);uniqueIndex;not null" json:"receipt_number"`
	OrderID       uint          `gorm:"not null;index" json:"order_id"`
	TransactionID uint          `gorm:"not null" json:"transaction_id"`
	BuyerID       uint          `gorm:"not null;index" json:"buyer_id"`
	SellerID      uint          `gorm:"not null;index" json:"seller_id"`
	Role          string        `gorm:"type:varchar(10);not null" json:"role"`
	Amount        int64         `gorm:"not null" json:"amount"`
	ReceiptItems  []ReceiptItem `gorm:"foreignKey:ReceiptID" json:"receipt_items"`
	CreatedAt     time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updated_at"`
}

type ReceiptItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReceiptID  uint      `gorm:"not null;index" json:"receipt_id"`
	MenuItemID uint      `gorm:"not null" json:"menu_item_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	UnitPrice  int64     `gorm:"not null" json:"unit_price"`
	Subtotal   int64     `gorm:"not null" json:"subtotal"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
