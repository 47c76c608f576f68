package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/models"
	"github.com/smartschool/canteen-app/services"
	"github.com/smartschool/canteen-app/utils"
)

type AttendanceController struct {
	DB      *gorm.DB
	Service *services.AttendanceService
}

func NewAttendanceController(db *gorm.DB, service *services.AttendanceService) *AttendanceController {
	return &AttendanceController{DB: db, Service: service}
}

// CheckIn -> student announces arrival at their assigned table.
func (ac *AttendanceController) CheckIn(c *gin.Context) {
	if currentRole(c) != models.RoleStudent {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}
	userID, _ := currentUserID(c)

	var req struct {
		OrderID uint `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	notif, err := ac.Service.SignIn(userID, req.OrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Checked in", notif)
}

// GetPendingDeliveries -> the shop's live delivery queue.
func (ac *AttendanceController) GetPendingDeliveries(c *gin.Context) {
	shopID := c.Param("shop_id")

	var shop models.Shop
	if err := ac.DB.Preload("Carriers").First(&shop, shopID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	userID, _ := currentUserID(c)
	if currentRole(c) != models.RoleAdmin && !shop.CanManageOrders(userID) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	notifs, err := ac.Service.PendingForShop(shop.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pending deliveries", notifs)
}

// MarkServed -> flag a check-in as handled.
func (ac *AttendanceController) MarkServed(c *gin.Context) {
	idStr := c.Param("notif_id")
	notifID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID, _ := currentUserID(c)
	notif, err := ac.Service.MarkServed(userID, uint(notifID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Delivery marked as served", notif)
}

// ClearNotification -> remove a served check-in from the queue.
func (ac *AttendanceController) ClearNotification(c *gin.Context) {
	idStr := c.Param("notif_id")
	notifID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID, _ := currentUserID(c)
	if err := ac.Service.Clear(userID, uint(notifID)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Delivery notification cleared", gin.H{"notif_id": notifID})
}
