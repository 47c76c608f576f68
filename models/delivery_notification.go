package models

import "time"

const (
	DeliveryNotificationPending = "pending"
	DeliveryNotificationServed  = "served"
)

// DeliveryNotification is created when a student checks in at their assigned
// table slot. At most one exists per order; carriers work the pending queue
// and mark entries served.
type DeliveryNotification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;uniqueIndex" json:"order_id"`
	Order       Order     `gorm:"foreignKey:OrderID" json:"-"`
	ShopID      uint      `gorm:"not null;index" json:"shop_id"`
	StudentID   uint      `gorm:"not null" json:"student_id"`
	StudentName string    `gorm:"type:varchar(255);not null" json:"student_name"`
	TableLabel  string    `gorm:"type:varchar(50);not null" json:"table_label"`
	Status      string    `gorm:"type:varchar(10);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
