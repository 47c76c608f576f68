package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/models"
	"github.com/smartschool/canteen-app/utils"
)

type OrderingWindowController struct {
	DB *gorm.DB
}

func NewOrderingWindowController(db *gorm.DB) *OrderingWindowController {
	return &OrderingWindowController{DB: db}
}

// GetAllWindows -> windows of the caller's school
func (wc *OrderingWindowController) GetAllWindows(c *gin.Context) {
	schoolID, _ := currentSchoolID(c)
	var windows []models.OrderingWindow
	if err := wc.DB.Where("school_id = ?", schoolID).Order("id asc").Find(&windows).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of ordering windows", windows)
}

// CreateWindow -> admin only
func (wc *OrderingWindowController) CreateWindow(c *gin.Context) {
	if currentRole(c) != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}
	schoolID, _ := currentSchoolID(c)

	var req struct {
		Name             string `json:"name" binding:"required"`
		StartTime        string `json:"start_time" binding:"required"`
		EndTime          string `json:"end_time" binding:"required"`
		SyncedForSeating bool   `json:"synced_for_seating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := validateTimeOfDay(req.StartTime, req.EndTime); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	window := models.OrderingWindow{
		SchoolID:         schoolID,
		Name:             req.Name,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		SyncedForSeating: req.SyncedForSeating,
	}
	if err := wc.DB.Create(&window).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Ordering window created: %s %s-%s (synced=%v)",
		window.Name, window.StartTime, window.EndTime, window.SyncedForSeating)
	utils.RespondJSON(c, http.StatusCreated, "Ordering window created", window)
}

// UpdateWindow -> admin only
func (wc *OrderingWindowController) UpdateWindow(c *gin.Context) {
	if currentRole(c) != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	windowID := c.Param("window_id")
	var window models.OrderingWindow
	if err := wc.DB.First(&window, windowID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name             *string `json:"name"`
		StartTime        *string `json:"start_time"`
		EndTime          *string `json:"end_time"`
		SyncedForSeating *bool   `json:"synced_for_seating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		window.Name = *req.Name
	}
	if req.StartTime != nil {
		window.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		window.EndTime = *req.EndTime
	}
	if req.SyncedForSeating != nil {
		window.SyncedForSeating = *req.SyncedForSeating
	}
	if err := validateTimeOfDay(window.StartTime, window.EndTime); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := wc.DB.Save(&window).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ordering window updated", window)
}

// DeleteWindow -> admin only
func (wc *OrderingWindowController) DeleteWindow(c *gin.Context) {
	if currentRole(c) != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	idStr := c.Param("window_id")
	id, _ := strconv.Atoi(idStr)

	if err := wc.DB.Delete(&models.OrderingWindow{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ordering window deleted", gin.H{"window_id": id})
}

func validateTimeOfDay(start, end string) error {
	s, err := time.Parse("15:04", start)
	if err != nil {
		return errors.New("start_time must be HH:MM")
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return errors.New("end_time must be HH:MM")
	}
	if !e.After(s) {
		return errors.New("end_time must be after start_time")
	}
	return nil
}
