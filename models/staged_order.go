package models

import (
	"encoding/json"
	"time"
)

// StagedOrder is a resumable order attempt that was blocked by insufficient
// funds. At most one exists per student; re-staging overwrites it and a
// successful placement clears it.
type StagedOrder struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StudentID      uint      `gorm:"not null;uniqueIndex" json:"student_id"`
	ShopID         uint      `gorm:"not null" json:"shop_id"`
	DeliveryMethod string    `gorm:"type:varchar(10);not null" json:"delivery_method"`
	ItemsJSON      string    `gorm:"type:text;not null" json:"-"`
	TotalAmount    int64     `gorm:"not null" json:"total_amount"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

// SetItems stores the cart (menu item id -> quantity) as JSON.
func (s *StagedOrder) SetItems(cart map[uint]int) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	s.ItemsJSON = string(raw)
	return nil
}

// Items decodes the stored cart.
func (s *StagedOrder) Items() (map[uint]int, error) {
	cart := make(map[uint]int)
	if s.ItemsJSON == "" {
		return cart, nil
	}
	if err := json.Unmarshal([]byte(s.ItemsJSON), &cart); err != nil {
		return nil, err
	}
	return cart, nil
}
