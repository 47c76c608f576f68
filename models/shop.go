package models

import "time"

// Shop is a canteen stall. It belongs to one school, is optionally owned by a
// seller account and keeps the set of carriers allowed to deliver for it.
type Shop struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SchoolID    uint      `gorm:"not null;index" json:"school_id"`
	School      School    `gorm:"foreignKey:SchoolID" json:"-"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     *uint     `gorm:"index" json:"owner_id,omitempty"`
	Owner       *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Carriers    []User    `gorm:"many2many:shop_carriers" json:"carriers,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// HasCarrier reports whether the user is registered as a carrier of the shop.
// Carriers must be preloaded.
func (s *Shop) HasCarrier(userID uint) bool {
	for _, c := range s.Carriers {
		if c.ID == userID {
			return true
		}
	}
	return false
}

// CanManageOrders reports whether the user may drive the order lifecycle of
// this shop (owner or registered carrier).
func (s *Shop) CanManageOrders(userID uint) bool {
	if s.OwnerID != nil && *s.OwnerID == userID {
		return true
	}
	return s.HasCarrier(userID)
}
