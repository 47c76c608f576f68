package models

import "time"

// MenuItem is a food item sold by a shop. Price is an integer amount in the
// smallest currency unit; orders snapshot it at placement time.
type MenuItem struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	ShopID      uint         `gorm:"not null;index" json:"shop_id"`
	Shop        Shop         `gorm:"foreignKey:ShopID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CategoryID  uint         `gorm:"not null" json:"category_id"`
	Category    MenuCategory `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Price       int64        `gorm:"not null" json:"price"`
	Available   bool         `gorm:"not null;default:true" json:"available"`
	Description string       `gorm:"type:text" json:"description"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}
