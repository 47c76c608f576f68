package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/controllers"
	"github.com/smartschool/canteen-app/models"
)

func seatRouter(db *gorm.DB, user *models.User) *gin.Engine {
	router := gin.Default()
	seatCtrl := controllers.NewSeatSettingsController(db)
	windowCtrl := controllers.NewOrderingWindowController(db)
	auth := router.Group("/api", asUser(user))
	auth.GET("/seat-settings", seatCtrl.GetSeatSettings)
	auth.PUT("/seat-settings", seatCtrl.UpsertSeatSettings)
	auth.POST("/ordering-windows", windowCtrl.CreateWindow)
	return router
}

func TestSeatSettingsLifecycle(t *testing.T) {
	db := setupTestDB(t)
	school := models.School{Name: "SMP 1"}
	require.NoError(t, db.Create(&school).Error)
	admin := models.User{SchoolID: school.ID, Name: "Admin", Email: "admin@test.local", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	router := seatRouter(db, &admin)

	w := doJSON(t, router, "POST", "/api/ordering-windows", gin.H{
		"name": "Breakfast", "start_time": "07:00", "end_time": "07:30", "synced_for_seating": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "PUT", "/api/seat-settings", gin.H{
		"total_students": 4,
		"tables":         []gin.H{{"label": "T1", "capacity": 2}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/seat-settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	// 30 window minutes times 2 seats over 4 students.
	assert.Equal(t, float64(15), data["time_per_student_per_slot_minutes"])

	// A re-PUT replaces the table list instead of appending.
	w = doJSON(t, router, "PUT", "/api/seat-settings", gin.H{
		"total_students": 8,
		"tables":         []gin.H{{"label": "T1", "capacity": 2}, {"label": "T2", "capacity": 2}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var tableCount int64
	db.Model(&models.CanteenTable{}).Count(&tableCount)
	assert.Equal(t, int64(2), tableCount)
}

func TestSeatSettingsAdminOnly(t *testing.T) {
	db := setupTestDB(t)
	school := models.School{Name: "SMP 1"}
	require.NoError(t, db.Create(&school).Error)
	student := models.User{SchoolID: school.ID, Name: "Budi", Email: "budi@test.local", Password: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)
	router := seatRouter(db, &student)

	w := doJSON(t, router, "PUT", "/api/seat-settings", gin.H{
		"total_students": 4,
		"tables":         []gin.H{{"label": "T1", "capacity": 2}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, "POST", "/api/ordering-windows", gin.H{
		"name": "Breakfast", "start_time": "07:00", "end_time": "07:30",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderingWindowValidation(t *testing.T) {
	db := setupTestDB(t)
	school := models.School{Name: "SMP 1"}
	require.NoError(t, db.Create(&school).Error)
	admin := models.User{SchoolID: school.ID, Name: "Admin", Email: "admin@test.local", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	router := seatRouter(db, &admin)

	w := doJSON(t, router, "POST", "/api/ordering-windows", gin.H{
		"name": "Broken", "start_time": "7am", "end_time": "07:30",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "POST", "/api/ordering-windows", gin.H{
		"name": "Inverted", "start_time": "08:00", "end_time": "07:30",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
