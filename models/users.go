package models

import "time"

// Roles used across the app. Sellers own shops, carriers deliver for them,
// students place orders, admins manage everything in their school.
const (
	RoleAdmin   = "admin"
	RoleSeller  = "seller"
	RoleCarrier = "carrier"
	RoleStudent = "student"
)

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SchoolID  uint   `gorm:"not null;index" json:"school_id"`
	School    School `gorm:"foreignKey:SchoolID" json:"-"`
	Name      string `gorm:"type:varchar(255);not null" json:"name"`
	Email     string `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password  string `gorm:"type:varchar(255);not null" json:"-"`
	Role      string `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
