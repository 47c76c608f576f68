package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/models"
	"github.com/smartschool/canteen-app/services"
	"github.com/smartschool/canteen-app/utils"
)

type SeatSettingsController struct {
	DB *gorm.DB
}

func NewSeatSettingsController(db *gorm.DB) *SeatSettingsController {
	return &SeatSettingsController{DB: db}
}

// GetSeatSettings -> the school's seating configuration with the derived
// per-student duration. The duration is computed on read, never stored.
func (sc *SeatSettingsController) GetSeatSettings(c *gin.Context) {
	schoolID, _ := currentSchoolID(c)

	var settings models.SeatSettings
	err := sc.DB.Preload("Tables").Where("school_id = ?", schoolID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, errors.New("seat settings not configured"))
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var windows []models.OrderingWindow
	if err := sc.DB.Where("school_id = ?", schoolID).Order("id asc").Find(&windows).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	minutes, err := services.ComputeSlotDurationMinutes(&settings, windows)
	if err != nil {
		minutes = 0
	}

	utils.RespondJSON(c, http.StatusOK, "Seat settings", gin.H{
		"settings":                          settings,
		"time_per_student_per_slot_minutes": minutes,
	})
}

// UpsertSeatSettings -> admin replaces the seating configuration of the
// school: expected students and the full table list.
func (sc *SeatSettingsController) UpsertSeatSettings(c *gin.Context) {
	if currentRole(c) != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}
	schoolID, _ := currentSchoolID(c)

	var req struct {
		TotalStudents int `json:"total_students" binding:"required"`
		Tables        []struct {
			Label    string `json:"label" binding:"required"`
			Capacity int    `json:"capacity"`
		} `json:"tables" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.TotalStudents < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("total_students must be non-negative"))
		return
	}
	for _, t := range req.Tables {
		if t.Capacity < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("table capacity must be non-negative"))
			return
		}
	}

	var settings models.SeatSettings
	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("school_id = ?", schoolID).First(&settings).Error
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			settings = models.SeatSettings{SchoolID: schoolID}
			if err := tx.Create(&settings).Error; err != nil {
				return err
			}
		} else if findErr != nil {
			return findErr
		}

		settings.TotalStudents = req.TotalStudents
		if err := tx.Save(&settings).Error; err != nil {
			return err
		}

		if err := tx.Where("seat_settings_id = ?", settings.ID).Delete(&models.CanteenTable{}).Error; err != nil {
			return err
		}
		for _, t := range req.Tables {
			table := models.CanteenTable{
				SeatSettingsID: settings.ID,
				Label:          t.Label,
				Capacity:       t.Capacity,
			}
			if err := tx.Create(&table).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := sc.DB.Preload("Tables").First(&settings, settings.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Seat settings updated for school %d: %d students, %d tables",
		schoolID, settings.TotalStudents, len(settings.Tables))
	utils.RespondJSON(c, http.StatusOK, "Seat settings saved", settings)
}
