package services

import (
	"time"

	"github.com/smartschool/canteen-app/models"
)

// WindowStatus is the resolver's answer for a single instant. When Open, the
// active window and its concrete bounds are set; when Closed, Next points at
// the soonest upcoming window (today or tomorrow) if any window exists.
type WindowStatus struct {
	Open             bool                   `json:"open"`
	Active           *models.OrderingWindow `json:"active,omitempty"`
	WindowStartMs    int64                  `json:"window_start_ms,omitempty"`
	WindowEndMs      int64                  `json:"window_end_ms,omitempty"`
	MillisUntilClose int64                  `json:"millis_until_close,omitempty"`
	Next             *models.OrderingWindow `json:"next,omitempty"`
	MillisUntilOpen  int64                  `json:"millis_until_open,omitempty"`
}

// SeatingWindows filters the list to the synced-for-seating subset. If no
// window is marked synced, all windows count.
func SeatingWindows(windows []models.OrderingWindow) []models.OrderingWindow {
	synced := make([]models.OrderingWindow, 0, len(windows))
	for _, w := range windows {
		if w.SyncedForSeating {
			synced = append(synced, w)
		}
	}
	if len(synced) == 0 {
		return windows
	}
	return synced
}

// ResolveWindowStatus decides whether ordering is open at the given instant.
// Windows are matched in list order, so the first containing window wins;
// curators keep them non-overlapping. With no windows at all the canteen is
// reported closed with no upcoming window: delivery ordering requires an
// explicit schedule.
func ResolveWindowStatus(now time.Time, windows []models.OrderingWindow) WindowStatus {
	windows = SeatingWindows(windows)
	if len(windows) == 0 {
		return WindowStatus{Open: false}
	}

	nowMs := now.UnixMilli()

	for i := range windows {
		startMs, endMs, err := windows[i].BoundsOn(now)
		if err != nil || endMs <= startMs {
			continue
		}
		if nowMs >= startMs && nowMs < endMs {
			return WindowStatus{
				Open:             true,
				Active:           &windows[i],
				WindowStartMs:    startMs,
				WindowEndMs:      endMs,
				MillisUntilClose: endMs - nowMs,
			}
		}
	}

	// Closed. Soonest window still ahead of us today wins; otherwise the
	// window with the earliest time-of-day start, scheduled for tomorrow.
	var next *models.OrderingWindow
	var nextStartMs int64
	for i := range windows {
		startMs, endMs, err := windows[i].BoundsOn(now)
		if err != nil || endMs <= startMs {
			continue
		}
		if startMs > nowMs && (next == nil || startMs < nextStartMs) {
			next = &windows[i]
			nextStartMs = startMs
		}
	}
	if next == nil {
		tomorrow := now.AddDate(0, 0, 1)
		for i := range windows {
			startMs, endMs, err := windows[i].BoundsOn(tomorrow)
			if err != nil || endMs <= startMs {
				continue
			}
			if next == nil || startMs < nextStartMs {
				next = &windows[i]
				nextStartMs = startMs
			}
		}
	}
	if next == nil {
		return WindowStatus{Open: false}
	}
	return WindowStatus{
		Open:            false,
		Next:            next,
		MillisUntilOpen: nextStartMs - nowMs,
	}
}
