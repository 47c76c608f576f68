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

type OrderController struct {
	DB      *gorm.DB
	Service *services.OrderService
}

func NewOrderController(db *gorm.DB, service *services.OrderService) *OrderController {
	return &OrderController{DB: db, Service: service}
}

// PlaceOrder -> student submits a cart; delivery orders get a seat slot.
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	if currentRole(c) != models.RoleStudent {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}
	studentID, _ := currentUserID(c)

	var req struct {
		ShopID         uint                `json:"shop_id" binding:"required"`
		DeliveryMethod string              `json:"delivery_method" binding:"required"`
		Pin            string              `json:"pin" binding:"required"`
		Items          []services.CartLine `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.PlaceOrder(services.PlaceOrderInput{
		StudentID:      studentID,
		Pin:            req.Pin,
		ShopID:         req.ShopID,
		DeliveryMethod: req.DeliveryMethod,
		Items:          req.Items,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

// GetMyOrders -> the caller's own orders, newest first.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID, _ := currentUserID(c)

	var orders []models.Order
	q := oc.DB.Preload("Items").Where("student_id = ?", userID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("created_at desc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetShopOrders -> work queue for the shop owner / carriers / admin.
func (oc *OrderController) GetShopOrders(c *gin.Context) {
	shopID := c.Param("shop_id")

	var shop models.Shop
	if err := oc.DB.Preload("Carriers").First(&shop, shopID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	userID, _ := currentUserID(c)
	if currentRole(c) != models.RoleAdmin && !shop.CanManageOrders(userID) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var orders []models.Order
	q := oc.DB.Preload("Items").Where("shop_id = ?", shop.ID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("created_at asc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of shop orders", orders)
}

// GetOrderByID -> detail; visible to the placing student, shop staff and admin.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	userID, _ := currentUserID(c)
	if currentRole(c) != models.RoleAdmin && order.StudentID != userID {
		var shop models.Shop
		if err := oc.DB.Preload("Carriers").First(&shop, order.ShopID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		if !shop.CanManageOrders(userID) {
			utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> one forward step by shop staff, or cancellation by the
// student. The service enforces who may do what.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	idStr := c.Param("order_id")
	orderID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID, _ := currentUserID(c)
	order, err := oc.Service.UpdateOrderStatus(userID, uint(orderID), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// CompleteOrder -> carrier handshake: settle and mark delivered.
func (oc *OrderController) CompleteOrder(c *gin.Context) {
	idStr := c.Param("order_id")
	orderID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID, _ := currentUserID(c)
	order, err := oc.Service.CompleteOrder(userID, uint(orderID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order completed", order)
}

// CancelOrder -> student abandons a pending order; the hold is refunded.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	idStr := c.Param("order_id")
	orderID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID, _ := currentUserID(c)
	order, err := oc.Service.CancelOrder(userID, uint(orderID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}
