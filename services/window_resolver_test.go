package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smartschool/canteen-app/models"
)

func window(name, start, end string, synced bool) models.OrderingWindow {
	return models.OrderingWindow{
		Name:             name,
		StartTime:        start,
		EndTime:          end,
		SyncedForSeating: synced,
	}
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func TestResolveWindowStatusOpen(t *testing.T) {
	windows := []models.OrderingWindow{window("Breakfast", "07:00", "07:30", true)}

	status := ResolveWindowStatus(at(7, 10), windows)

	assert.True(t, status.Open)
	assert.Equal(t, "Breakfast", status.Active.Name)
	assert.Equal(t, at(7, 0).UnixMilli(), status.WindowStartMs)
	assert.Equal(t, at(7, 30).UnixMilli(), status.WindowEndMs)
	assert.Equal(t, int64(20*60*1000), status.MillisUntilClose)
}

func TestResolveWindowStatusBoundaries(t *testing.T) {
	windows := []models.OrderingWindow{window("Breakfast", "07:00", "07:30", true)}

	// Start is inclusive, end exclusive.
	assert.True(t, ResolveWindowStatus(at(7, 0), windows).Open)
	assert.False(t, ResolveWindowStatus(at(7, 30), windows).Open)
}

func TestResolveWindowStatusClosedBeforeOpen(t *testing.T) {
	windows := []models.OrderingWindow{
		window("Breakfast", "07:00", "07:30", true),
		window("Lunch", "12:00", "13:00", true),
	}

	status := ResolveWindowStatus(at(6, 0), windows)

	assert.False(t, status.Open)
	assert.Equal(t, "Breakfast", status.Next.Name)
	assert.Equal(t, int64(60*60*1000), status.MillisUntilOpen)
}

func TestResolveWindowStatusBetweenWindows(t *testing.T) {
	windows := []models.OrderingWindow{
		window("Breakfast", "07:00", "07:30", true),
		window("Lunch", "12:00", "13:00", true),
	}

	status := ResolveWindowStatus(at(9, 0), windows)

	assert.False(t, status.Open)
	assert.Equal(t, "Lunch", status.Next.Name)
	assert.Equal(t, int64(3*60*60*1000), status.MillisUntilOpen)
}

func TestResolveWindowStatusAfterLastWindowRollsToTomorrow(t *testing.T) {
	windows := []models.OrderingWindow{
		window("Lunch", "12:00", "13:00", true),
		window("Breakfast", "07:00", "07:30", true),
	}

	status := ResolveWindowStatus(at(20, 0), windows)

	assert.False(t, status.Open)
	assert.Equal(t, "Breakfast", status.Next.Name)
	// 20:00 today until 07:00 tomorrow.
	assert.Equal(t, int64(11*60*60*1000), status.MillisUntilOpen)
}

func TestResolveWindowStatusNoWindows(t *testing.T) {
	status := ResolveWindowStatus(at(12, 0), nil)

	assert.False(t, status.Open)
	assert.Nil(t, status.Active)
	assert.Nil(t, status.Next)
}

func TestResolveWindowStatusFirstContainingWindowWins(t *testing.T) {
	windows := []models.OrderingWindow{
		window("First", "07:00", "08:00", true),
		window("Second", "07:30", "09:00", true),
	}

	status := ResolveWindowStatus(at(7, 45), windows)

	assert.True(t, status.Open)
	assert.Equal(t, "First", status.Active.Name)
}

func TestResolveWindowStatusSkipsMalformedWindows(t *testing.T) {
	windows := []models.OrderingWindow{
		window("Broken", "nope", "07:30", true),
		window("Inverted", "09:00", "08:00", true),
		window("Lunch", "12:00", "13:00", true),
	}

	status := ResolveWindowStatus(at(12, 30), windows)

	assert.True(t, status.Open)
	assert.Equal(t, "Lunch", status.Active.Name)
}

func TestSeatingWindows(t *testing.T) {
	all := []models.OrderingWindow{
		window("Breakfast", "07:00", "07:30", false),
		window("Lunch", "12:00", "13:00", true),
	}

	synced := SeatingWindows(all)
	assert.Len(t, synced, 1)
	assert.Equal(t, "Lunch", synced[0].Name)

	// With nothing flagged, every window counts.
	none := []models.OrderingWindow{
		window("Breakfast", "07:00", "07:30", false),
		window("Lunch", "12:00", "13:00", false),
	}
	assert.Len(t, SeatingWindows(none), 2)
}
