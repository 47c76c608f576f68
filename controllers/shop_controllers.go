package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/models"
	"github.com/smartschool/canteen-app/utils"
)

type ShopController struct {
	DB *gorm.DB
}

func NewShopController(db *gorm.DB) *ShopController {
	return &ShopController{DB: db}
}

// GetAllShops -> list shops of a school (public; school_id query param)
func (sc *ShopController) GetAllShops(c *gin.Context) {
	schoolID := c.Query("school_id")
	var shops []models.Shop
	q := sc.DB.Preload("Owner").Preload("Carriers")
	if schoolID != "" {
		q = q.Where("school_id = ?", schoolID)
	}
	if err := q.Find(&shops).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of shops", shops)
}

// GetShopMenu -> full menu of one shop, grouped listing (public)
func (sc *ShopController) GetShopMenu(c *gin.Context) {
	shopID := c.Param("shop_id")

	var shop models.Shop
	if err := sc.DB.First(&shop, shopID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var items []models.MenuItem
	if err := sc.DB.Where("shop_id = ?", shop.ID).Order("category_id asc").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Shop menu", gin.H{
		"shop":  shop,
		"items": items,
	})
}

// CreateShop -> admin only
func (sc *ShopController) CreateShop(c *gin.Context) {
	if currentRole(c) != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}
	schoolID, _ := currentSchoolID(c)

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		OwnerID     *uint  `json:"owner_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	shop := models.Shop{
		SchoolID:    schoolID,
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	}
	if err := sc.DB.Create(&shop).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Shop created: %s (school=%d)", shop.Name, shop.SchoolID)
	utils.RespondJSON(c, http.StatusCreated, "Shop created", shop)
}

// UpdateShop -> admin only
func (sc *ShopController) UpdateShop(c *gin.Context) {
	if currentRole(c) != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	shopID := c.Param("shop_id")
	var shop models.Shop
	if err := sc.DB.First(&shop, shopID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		OwnerID     *uint   `json:"owner_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Description != nil {
		shop.Description = *req.Description
	}
	if req.OwnerID != nil {
		shop.OwnerID = req.OwnerID
	}

	if err := sc.DB.Save(&shop).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Shop updated", shop)
}

// SetCarriers -> admin replaces the carrier set of a shop
func (sc *ShopController) SetCarriers(c *gin.Context) {
	if currentRole(c) != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	shopID := c.Param("shop_id")
	var shop models.Shop
	if err := sc.DB.First(&shop, shopID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		CarrierIDs []uint `json:"carrier_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var carriers []models.User
	if len(req.CarrierIDs) > 0 {
		if err := sc.DB.Where("id IN ? AND role = ?", req.CarrierIDs, models.RoleCarrier).Find(&carriers).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if len(carriers) != len(req.CarrierIDs) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("some carrier ids are unknown or not carriers"))
			return
		}
	}

	if err := sc.DB.Model(&shop).Association("Carriers").Replace(carriers); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Carriers updated", gin.H{
		"shop_id":  shop.ID,
		"carriers": carriers,
	})
}

// DeleteShop -> admin only; categories and menu items go with it
func (sc *ShopController) DeleteShop(c *gin.Context) {
	if currentRole(c) != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	idStr := c.Param("shop_id")
	id, _ := strconv.Atoi(idStr)

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shop_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shop_id = ?", id).Delete(&models.MenuCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Shop{}, id).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Shop %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Shop deleted", gin.H{"shop_id": id})
}
