package models

import "time"

// Transaction statuses. A held debit has already been deducted from the
// balance; settling keeps the money, reversing refunds it. Either way the
// transaction is finalized exactly once.
const (
	TransactionHeld     = "held"
	TransactionSettled  = "settled"
	TransactionReversed = "reversed"
)

type Wallet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex" json:"student_id"`
	Student   User      `gorm:"foreignKey:StudentID" json:"-"`
	Balance   int64     `gorm:"not null;default:0" json:"balance"`
	PinHash   string    `gorm:"type:varchar(255)" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

type WalletTransaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Memo      string    `gorm:"type:varchar(255)" json:"memo"`
	Status    string    `gorm:"type:varchar(10);not null;default:'held'" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
