package services

import (
	"sort"

	"github.com/smartschool/canteen-app/models"
)

// SlotAssignment is a reserved seat interval for one delivery order. Seats
// are fungible within a table's capacity; only the winning table's label is
// reported.
type SlotAssignment struct {
	TableLabel  string `json:"table_label"`
	SlotStartMs int64  `json:"slot_start_ms"`
	SlotEndMs   int64  `json:"slot_end_ms"`
}

// seatTrack models one physical seat as an independent resource that is free
// again at nextFree.
type seatTrack struct {
	tableLabel string
	nextFree   int64
}

// ComputeSlotDurationMinutes derives the per-student seating duration from
// the seat settings and the synced ordering windows: the seat-minutes
// available across all synced windows divided evenly over the expected
// student body. It is computed on read and never stored. Any zero driving
// quantity means seating was never configured properly.
func ComputeSlotDurationMinutes(settings *models.SeatSettings, windows []models.OrderingWindow) (int, error) {
	if settings == nil || settings.TotalStudents <= 0 {
		return 0, ErrSeatingNotConfigured
	}
	capacity := settings.TotalCapacity()
	if capacity <= 0 {
		return 0, ErrSeatingNotConfigured
	}
	windowMinutes := 0
	for _, w := range SeatingWindows(windows) {
		windowMinutes += w.DurationMinutes()
	}
	if windowMinutes <= 0 {
		return 0, ErrSeatingNotConfigured
	}
	minutes := windowMinutes * capacity / settings.TotalStudents
	if minutes <= 0 {
		return 0, ErrSeatingNotConfigured
	}
	return minutes, nil
}

// AllocateSlot computes the next non-overlapping (table, start, end)
// assignment inside the active window, given the delivery orders already
// scheduled there. Every seat starts free at windowStart; existing orders are
// replayed in ascending slot-start order onto whichever seat frees up first,
// and the new order takes the seat with the globally smallest next-free time.
// The result is first-come-first-served seating with no double-booked seat
// and minimal idle gaps.
func AllocateSlot(windowStartMs, windowEndMs int64, settings *models.SeatSettings, durationMinutes int, existing []models.Order) (*SlotAssignment, error) {
	if settings == nil || len(settings.Tables) == 0 || durationMinutes <= 0 {
		return nil, ErrSeatingNotConfigured
	}

	tracks := make([]*seatTrack, 0, settings.TotalCapacity())
	for _, table := range settings.Tables {
		for seat := 0; seat < table.Capacity; seat++ {
			tracks = append(tracks, &seatTrack{tableLabel: table.Label, nextFree: windowStartMs})
		}
	}
	if len(tracks) == 0 {
		return nil, ErrSeatingNotConfigured
	}

	durationMs := int64(durationMinutes) * 60_000

	scheduled := make([]models.Order, 0, len(existing))
	for _, o := range existing {
		if o.HasSlot() {
			scheduled = append(scheduled, o)
		}
	}
	sort.SliceStable(scheduled, func(i, j int) bool {
		return *scheduled[i].SlotStartMs < *scheduled[j].SlotStartMs
	})

	for _, o := range scheduled {
		track := earliestFree(tracks)
		start := *o.SlotStartMs
		if track.nextFree > start {
			start = track.nextFree
		}
		track.nextFree = start + durationMs
	}

	track := earliestFree(tracks)
	slotStart := track.nextFree
	if slotStart < windowStartMs {
		slotStart = windowStartMs
	}
	slotEnd := slotStart + durationMs

	// A slot may run slightly past closing, but not by more than half a
	// serving; beyond that the window is full.
	if slotEnd > windowEndMs+durationMs/2 {
		return nil, ErrWindowFull
	}

	return &SlotAssignment{
		TableLabel:  track.tableLabel,
		SlotStartMs: slotStart,
		SlotEndMs:   slotEnd,
	}, nil
}

func earliestFree(tracks []*seatTrack) *seatTrack {
	best := tracks[0]
	for _, t := range tracks[1:] {
		if t.nextFree < best.nextFree {
			best = t
		}
	}
	return best
}
