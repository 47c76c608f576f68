package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/models"
	"github.com/smartschool/canteen-app/utils"
)

type ReceiptController struct {
	DB *gorm.DB
}

func NewReceiptController(db *gorm.DB) *ReceiptController {
	return &ReceiptController{DB: db}
}

// GetMyReceipts -> receipts where the caller is the buyer or the seller.
func (rc *ReceiptController) GetMyReceipts(c *gin.Context) {
	userID, _ := currentUserID(c)

	var receipts []models.Receipt
	q := rc.DB.Preload("ReceiptItems").
		Where("(role = ? AND buyer_id = ?) OR (role = ? AND seller_id = ?)",
			models.ReceiptRolePurchase, userID, models.ReceiptRoleSale, userID)
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Order("created_at desc").Find(&receipts).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of receipts", receipts)
}

// GetReceiptByID -> one receipt; only its buyer, its seller or an admin.
func (rc *ReceiptController) GetReceiptByID(c *gin.Context) {
	receiptID := c.Param("receipt_id")

	var receipt models.Receipt
	if err := rc.DB.Preload("ReceiptItems").First(&receipt, receiptID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	userID, _ := currentUserID(c)
	if currentRole(c) != models.RoleAdmin && receipt.BuyerID != userID && receipt.SellerID != userID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Receipt detail", receipt)
}
