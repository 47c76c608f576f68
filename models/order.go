package models

import "time"

// Delivery methods
const (
	DeliveryMethodPickup   = "pickup"
	DeliveryMethodDelivery = "delivery"
)

// Order is a placed canteen order. Line items snapshot the menu name and
// price at placement time and never change afterwards. Delivery orders also
// carry the assigned table and slot; both slot fields are set together or not
// at all, and SlotEndMs-SlotStartMs always equals the configured per-student
// duration.
type Order struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	ShopID         uint        `gorm:"not null;index" json:"shop_id"`
	Shop           Shop        `gorm:"foreignKey:ShopID" json:"-"`
	StudentID      uint        `gorm:"not null;index" json:"student_id"`
	StudentName    string      `gorm:"type:varchar(255);not null" json:"student_name"`
	Status         string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	DeliveryMethod string      `gorm:"type:varchar(10);not null" json:"delivery_method"`
	TotalAmount    int64       `gorm:"not null;default:0" json:"total_amount"`
	TransactionID  *uint       `gorm:"index" json:"transaction_id,omitempty"`
	TableLabel     *string     `gorm:"type:varchar(50)" json:"table_label,omitempty"`
	SlotStartMs    *int64      `gorm:"index" json:"slot_start_ms,omitempty"`
	SlotEndMs      *int64      `json:"slot_end_ms,omitempty"`
	CreatedAt      time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"not null" json:"updated_at"`
	Items          []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// HasSlot reports whether a table slot was assigned to the order.
func (o *Order) HasSlot() bool {
	return o.TableLabel != nil && o.SlotStartMs != nil && o.SlotEndMs != nil
}
