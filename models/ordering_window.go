package models

import (
	"fmt"
	"time"
)

// OrderingWindow is a named daily-recurring time-of-day interval during which
// ordering is open. StartTime/EndTime are "HH:MM" without a date component.
// Windows flagged SyncedForSeating also drive the seating-duration
// calculation.
type OrderingWindow struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	SchoolID         uint      `gorm:"not null;index" json:"school_id"`
	School           School    `gorm:"foreignKey:SchoolID" json:"-"`
	Name             string    `gorm:"type:varchar(100);not null" json:"name"`
	StartTime        string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime          string    `gorm:"type:varchar(5);not null" json:"end_time"`
	SyncedForSeating bool      `gorm:"not null;default:false" json:"synced_for_seating"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

// BoundsOn resolves the window to concrete epoch-millisecond bounds on the
// given day, in that day's location.
func (w *OrderingWindow) BoundsOn(day time.Time) (startMs, endMs int64, err error) {
	start, err := atTimeOfDay(day, w.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("window %q start: %w", w.Name, err)
	}
	end, err := atTimeOfDay(day, w.EndTime)
	if err != nil {
		return 0, 0, fmt.Errorf("window %q end: %w", w.Name, err)
	}
	return start.UnixMilli(), end.UnixMilli(), nil
}

// DurationMinutes is the window length in minutes, 0 if the times are
// malformed or inverted.
func (w *OrderingWindow) DurationMinutes() int {
	ref := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	startMs, endMs, err := w.BoundsOn(ref)
	if err != nil || endMs <= startMs {
		return 0
	}
	return int((endMs - startMs) / 60000)
}

func atTimeOfDay(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
