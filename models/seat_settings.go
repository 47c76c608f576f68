package models

import "time"

// SeatSettings holds a school's physical seating configuration: how many
// students are expected to eat, and which tables with how many seats exist.
// The per-student slot duration is never stored; it is derived on read from
// these values plus the synced ordering windows (see services).
type SeatSettings struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	SchoolID      uint           `gorm:"not null;uniqueIndex" json:"school_id"`
	School        School         `gorm:"foreignKey:SchoolID" json:"-"`
	TotalStudents int            `gorm:"not null;default:0" json:"total_students"`
	Tables        []CanteenTable `gorm:"foreignKey:SeatSettingsID" json:"tables"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

// TotalCapacity is the number of physical seats across all tables.
func (s *SeatSettings) TotalCapacity() int {
	total := 0
	for _, t := range s.Tables {
		if t.Capacity > 0 {
			total += t.Capacity
		}
	}
	return total
}

type CanteenTable struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SeatSettingsID uint      `gorm:"not null;index" json:"seat_settings_id"`
	Label          string    `gorm:"type:varchar(50);not null" json:"label"`
	Capacity       int       `gorm:"not null;default:0" json:"capacity"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
