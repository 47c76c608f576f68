package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/models"
	"github.com/smartschool/canteen-app/services"
	"github.com/smartschool/canteen-app/utils"
)

var errSchoolIDRequired = errors.New("school_id query parameter is required")

type CanteenController struct {
	DB      *gorm.DB
	Service *services.OrderService
}

func NewCanteenController(db *gorm.DB, service *services.OrderService) *CanteenController {
	return &CanteenController{DB: db, Service: service}
}

// GetStatus -> is the canteen open right now, and when does that change.
// Public; school_id comes from the query so display boards can poll it.
func (cc *CanteenController) GetStatus(c *gin.Context) {
	schoolIDStr := c.Query("school_id")
	schoolID, err := strconv.Atoi(schoolIDStr)
	if err != nil || schoolID <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errSchoolIDRequired)
		return
	}

	status, err := cc.Service.CurrentStatus(uint(schoolID))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Canteen status", status)
}

// GetDashboard -> admin overview: today's order counts by status, revenue of
// settled orders and the live delivery queue depth.
func (cc *CanteenController) GetDashboard(c *gin.Context) {
	if currentRole(c) != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}
	schoolID, _ := currentSchoolID(c)

	dayStart := time.Now().Truncate(24 * time.Hour)

	var shopIDs []uint
	if err := cc.DB.Model(&models.Shop{}).Where("school_id = ?", schoolID).Pluck("id", &shopIDs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if len(shopIDs) == 0 {
		utils.RespondJSON(c, http.StatusOK, "Dashboard", gin.H{
			"orders_by_status": gin.H{},
			"revenue_today":    0,
			"pending_checkins": 0,
		})
		return
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := cc.DB.Model(&models.Order{}).
		Select("status, count(*) as count").
		Where("shop_id IN ? AND created_at >= ?", shopIDs, dayStart).
		Group("status").
		Scan(&counts).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	byStatus := make(map[string]int64, len(counts))
	for _, sc := range counts {
		byStatus[sc.Status] = sc.Count
	}

	var revenue int64
	if err := cc.DB.Model(&models.Order{}).
		Where("shop_id IN ? AND status = ? AND created_at >= ?", shopIDs, services.OrderStatusDelivered, dayStart).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var pendingCheckins int64
	if err := cc.DB.Model(&models.DeliveryNotification{}).
		Where("shop_id IN ? AND status = ?", shopIDs, models.DeliveryNotificationPending).
		Count(&pendingCheckins).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard", gin.H{
		"orders_by_status": byStatus,
		"revenue_today":    revenue,
		"pending_checkins": pendingCheckins,
	})
}
