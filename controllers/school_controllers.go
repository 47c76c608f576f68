package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/models"
	"github.com/smartschool/canteen-app/utils"
)

type SchoolController struct {
	DB *gorm.DB
}

func NewSchoolController(db *gorm.DB) *SchoolController {
	return &SchoolController{DB: db}
}

// GetAllSchools -> public list for the registration screen.
func (sc *SchoolController) GetAllSchools(c *gin.Context) {
	var schools []models.School
	if err := sc.DB.Order("name asc").Find(&schools).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of schools", schools)
}

// CreateSchool -> tenant onboarding. The first admin registers right after.
func (sc *SchoolController) CreateSchool(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	school := models.School{Name: req.Name, Address: req.Address}
	if err := sc.DB.Create(&school).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("School onboarded: %s", school.Name)
	utils.RespondJSON(c, http.StatusCreated, "School created", school)
}
