package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/services"
	"github.com/smartschool/canteen-app/utils"
)

// ErrNoPermission mirrors the service-level sentinel for handlers that do
// their own role checks.
var ErrNoPermission = services.ErrNoPermission

func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func currentSchoolID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("school_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func currentRole(c *gin.Context) string {
	v, _ := c.Get("role")
	role, _ := v.(string)
	return role
}

// respondServiceError maps engine errors onto HTTP codes so every failure
// reaches the client with a usable message.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrUnknownItem),
		errors.Is(err, services.ErrItemUnavailable):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrCanteenClosed),
		errors.Is(err, services.ErrWindowFull),
		errors.Is(err, services.ErrSeatingNotConfigured):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrInsufficientFunds):
		utils.RespondError(c, http.StatusPaymentRequired, err)
	case errors.Is(err, services.ErrInvalidPin):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrNoPermission):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrOrderNotCancellable),
		errors.Is(err, services.ErrOrderNotCompletable),
		errors.Is(err, services.ErrDuplicateCheckIn),
		errors.Is(err, services.ErrNotYourSlot),
		errors.Is(err, services.ErrNotDeliveryOrder),
		errors.Is(err, services.ErrOrderNotActive),
		errors.Is(err, services.ErrTransactionFinalized):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
