package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/controllers"
	"github.com/smartschool/canteen-app/models"
	"github.com/smartschool/canteen-app/services"
)

type httpOrderFixture struct {
	db      *gorm.DB
	student models.User
	owner   models.User
	shop    models.Shop
	rice    models.MenuItem
	orders  *services.OrderService
}

func setupHTTPOrderFixture(t *testing.T) *httpOrderFixture {
	t.Helper()
	db := setupTestDB(t)

	school := models.School{Name: "SMP 1"}
	require.NoError(t, db.Create(&school).Error)

	f := &httpOrderFixture{db: db}
	f.student = models.User{SchoolID: school.ID, Name: "Budi", Email: "budi@test.local", Password: "x", Role: models.RoleStudent}
	f.owner = models.User{SchoolID: school.ID, Name: "Ibu Sari", Email: "sari@test.local", Password: "x", Role: models.RoleSeller}
	require.NoError(t, db.Create(&f.student).Error)
	require.NoError(t, db.Create(&f.owner).Error)

	f.shop = models.Shop{SchoolID: school.ID, Name: "Warung Sari", OwnerID: &f.owner.ID}
	require.NoError(t, db.Create(&f.shop).Error)

	category := models.MenuCategory{ShopID: f.shop.ID, Name: "Mains"}
	require.NoError(t, db.Create(&category).Error)
	f.rice = models.MenuItem{ShopID: f.shop.ID, CategoryID: category.ID, Name: "Nasi Goreng", Price: 15_000, Available: true}
	require.NoError(t, db.Create(&f.rice).Error)

	require.NoError(t, db.Create(&models.OrderingWindow{
		SchoolID: school.ID, Name: "Breakfast",
		StartTime: "07:00", EndTime: "07:30", SyncedForSeating: true,
	}).Error)
	settings := models.SeatSettings{SchoolID: school.ID, TotalStudents: 4}
	require.NoError(t, db.Create(&settings).Error)
	require.NoError(t, db.Create(&models.CanteenTable{SeatSettingsID: settings.ID, Label: "T1", Capacity: 2}).Error)

	payments := services.NewPaymentService(db)
	_, err := payments.TopUp(f.student.ID, 100_000)
	require.NoError(t, err)
	require.NoError(t, payments.SetPin(f.student.ID, "1234"))

	f.orders = services.NewOrderService(db, payments, payments, services.NewDBNotifier(db))
	f.orders.Now = func() time.Time {
		return time.Date(2026, 3, 2, 7, 5, 0, 0, time.UTC)
	}
	return f
}

func (f *httpOrderFixture) router(user *models.User) *gin.Engine {
	router := gin.Default()
	orderCtrl := controllers.NewOrderController(f.db, f.orders)
	auth := router.Group("/api", asUser(user))
	auth.POST("/orders", orderCtrl.PlaceOrder)
	auth.GET("/orders", orderCtrl.GetMyOrders)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	auth.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)
	return router
}

func TestPlaceOrderHTTP(t *testing.T) {
	f := setupHTTPOrderFixture(t)
	router := f.router(&f.student)

	w := doJSON(t, router, "POST", "/api/orders", gin.H{
		"shop_id":         f.shop.ID,
		"delivery_method": "delivery",
		"pin":             "1234",
		"items":           []gin.H{{"menu_item_id": f.rice.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, float64(30_000), data["total_amount"])
	assert.Equal(t, "T1", data["table_label"])

	w = doJSON(t, router, "GET", "/api/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, list, 1)
}

func TestPlaceOrderHTTPInsufficientFunds(t *testing.T) {
	f := setupHTTPOrderFixture(t)
	router := f.router(&f.student)

	w := doJSON(t, router, "POST", "/api/orders", gin.H{
		"shop_id":         f.shop.ID,
		"delivery_method": "pickup",
		"pin":             "1234",
		"items":           []gin.H{{"menu_item_id": f.rice.ID, "quantity": 100}},
	})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	// The attempt is parked for a retry after top-up.
	var staged models.StagedOrder
	require.NoError(t, f.db.Where("student_id = ?", f.student.ID).First(&staged).Error)
	assert.Equal(t, int64(1_500_000), staged.TotalAmount)
}

func TestPlaceOrderHTTPSellerForbidden(t *testing.T) {
	f := setupHTTPOrderFixture(t)
	router := f.router(&f.owner)

	w := doJSON(t, router, "POST", "/api/orders", gin.H{
		"shop_id":         f.shop.ID,
		"delivery_method": "pickup",
		"pin":             "1234",
		"items":           []gin.H{{"menu_item_id": f.rice.ID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderStatusHTTPFlow(t *testing.T) {
	f := setupHTTPOrderFixture(t)
	studentRouter := f.router(&f.student)
	ownerRouter := f.router(&f.owner)

	w := doJSON(t, studentRouter, "POST", "/api/orders", gin.H{
		"shop_id":         f.shop.ID,
		"delivery_method": "pickup",
		"pin":             "1234",
		"items":           []gin.H{{"menu_item_id": f.rice.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeBody(t, w)["data"].(map[string]interface{})["id"].(float64)

	path := fmt.Sprintf("/api/orders/%.0f/status", orderID)
	w = doJSON(t, ownerRouter, "PATCH", path, gin.H{"status": "preparing"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Skipping a state is a conflict.
	w = doJSON(t, ownerRouter, "PATCH", path, gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Too late to cancel once preparing.
	w = doJSON(t, studentRouter, "POST", fmt.Sprintf("/api/orders/%.0f/cancel", orderID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
