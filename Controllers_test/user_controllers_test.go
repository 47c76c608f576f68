package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/controllers"
	"github.com/smartschool/canteen-app/models"
)

func setupUserRouter(db *gorm.DB) *gin.Engine {
	router := gin.Default()
	userCtrl := controllers.NewUserController(db)
	router.POST("/register", userCtrl.Register)
	router.POST("/login", userCtrl.Login)
	return router
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	school := models.School{Name: "SMP 1"}
	require.NoError(t, db.Create(&school).Error)
	router := setupUserRouter(db)

	w := doJSON(t, router, "POST", "/register", gin.H{
		"school_id": school.ID,
		"name":      "Budi",
		"email":     "budi@test.local",
		"password":  "rahasia123",
		"role":      "student",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "POST", "/login", gin.H{
		"email":    "budi@test.local",
		"password": "rahasia123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "student", data["user_role"])
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db)

	w := doJSON(t, router, "POST", "/register", gin.H{
		"school_id": 1,
		"name":      "Budi",
		"email":     "budi@test.local",
		"password":  "rahasia123",
		"role":      "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	school := models.School{Name: "SMP 1"}
	require.NoError(t, db.Create(&school).Error)
	router := setupUserRouter(db)

	w := doJSON(t, router, "POST", "/register", gin.H{
		"school_id": school.ID,
		"name":      "Budi",
		"email":     "budi@test.local",
		"password":  "rahasia123",
		"role":      "student",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "POST", "/login", gin.H{
		"email":    "budi@test.local",
		"password": "salah",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
