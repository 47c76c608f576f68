package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/models"
	"github.com/smartschool/canteen-app/utils"
)

type MenuCategoryController struct {
	DB *gorm.DB
}

func NewMenuCategoryController(db *gorm.DB) *MenuCategoryController {
	return &MenuCategoryController{DB: db}
}

// GetAllCategories -> categories of a shop
func (mc *MenuCategoryController) GetAllCategories(c *gin.Context) {
	shopID := c.Query("shop_id")
	var cats []models.MenuCategory
	q := mc.DB
	if shopID != "" {
		q = q.Where("shop_id = ?", shopID)
	}
	if err := q.Find(&cats).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", cats)
}

// CreateCategory -> admin only
func (mc *MenuCategoryController) CreateCategory(c *gin.Context) {
	if currentRole(c) != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		ShopID uint   `json:"shop_id" binding:"required"`
		Name   string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cat := models.MenuCategory{ShopID: req.ShopID, Name: req.Name}
	if err := mc.DB.Create(&cat).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", cat)
}

// UpdateCategory -> admin only
func (mc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	if currentRole(c) != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	catID := c.Param("cat_id")
	var cat models.MenuCategory
	if err := mc.DB.First(&cat, catID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cat.Name = req.Name
	if err := mc.DB.Save(&cat).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", cat)
}

// DeleteCategory -> admin only
func (mc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	if currentRole(c) != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	idStr := c.Param("cat_id")
	id, _ := strconv.Atoi(idStr)

	if err := mc.DB.Delete(&models.MenuCategory{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"cat_id": id})
}
