package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/services"
	"github.com/smartschool/canteen-app/utils"
)

type StagedOrderController struct {
	Payments *services.PaymentService
}

func NewStagedOrderController(payments *services.PaymentService) *StagedOrderController {
	return &StagedOrderController{Payments: payments}
}

// GetStagedOrder -> the caller's parked cart, if any. The client uses it to
// prefill a retry after a top-up.
func (sc *StagedOrderController) GetStagedOrder(c *gin.Context) {
	userID, _ := currentUserID(c)

	staged, err := sc.Payments.StagedOrderFor(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondJSON(c, http.StatusOK, "No staged order", nil)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	items, err := staged.Items()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Staged order", gin.H{
		"staged": staged,
		"items":  items,
	})
}

// DiscardStagedOrder -> drop the parked cart.
func (sc *StagedOrderController) DiscardStagedOrder(c *gin.Context) {
	userID, _ := currentUserID(c)

	if err := sc.Payments.ClearStagedOrder(userID); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Staged order discarded", nil)
}
