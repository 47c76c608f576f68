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

type WalletController struct {
	DB       *gorm.DB
	Payments *services.PaymentService
}

func NewWalletController(db *gorm.DB, payments *services.PaymentService) *WalletController {
	return &WalletController{DB: db, Payments: payments}
}

// GetMyWallet -> balance and recent transactions of the caller.
func (wc *WalletController) GetMyWallet(c *gin.Context) {
	userID, _ := currentUserID(c)

	var wallet models.Wallet
	err := wc.DB.Where("student_id = ?", userID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondJSON(c, http.StatusOK, "Wallet", gin.H{
			"balance":      0,
			"transactions": []models.WalletTransaction{},
		})
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var txns []models.WalletTransaction
	if err := wc.DB.Where("student_id = ?", userID).
		Order("created_at desc").Limit(50).Find(&txns).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Wallet", gin.H{
		"balance":      wallet.Balance,
		"transactions": txns,
	})
}

// TopUp -> admin credits a student's wallet. Cash is handed over at the
// office; this records the credit.
func (wc *WalletController) TopUp(c *gin.Context) {
	if currentRole(c) != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		StudentID uint  `json:"student_id" binding:"required"`
		Amount    int64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Amount <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("amount must be positive"))
		return
	}

	var student models.User
	if err := wc.DB.First(&student, req.StudentID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if student.Role != models.RoleStudent {
		utils.RespondError(c, http.StatusBadRequest, errors.New("wallets belong to students"))
		return
	}

	wallet, err := wc.Payments.TopUp(req.StudentID, req.Amount)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Wallet top-up: student %d +%s (balance=%s)",
		req.StudentID, utils.FormatAmount(req.Amount), utils.FormatAmount(wallet.Balance))
	utils.RespondJSON(c, http.StatusOK, "Wallet topped up", wallet)
}

// SetPin -> student sets or replaces their wallet PIN.
func (wc *WalletController) SetPin(c *gin.Context) {
	if currentRole(c) != models.RoleStudent {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}
	userID, _ := currentUserID(c)

	var req struct {
		Pin string `json:"pin" binding:"required,min=4,max=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := wc.Payments.SetPin(userID, req.Pin); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "PIN updated", nil)
}
