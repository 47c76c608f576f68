package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/models"
	"github.com/smartschool/canteen-app/router"
	"github.com/smartschool/canteen-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndCanteenFlow walks the whole happy path over HTTP:
//  1. onboard a school and register admin, seller, carrier and student
//  2. admin sets up the shop, menu, ordering window and seating
//  3. admin tops up the student's wallet, student sets a PIN
//  4. student places a delivery order and gets a table slot
//  5. seller drives the order to out_for_delivery
//  6. student checks in at the table, carrier sees the queue
//  7. carrier completes the order; money settles and receipts appear
func TestEndToEndCanteenFlow(t *testing.T) {
	db := setupIntegrationDB(t)
	r := router.SetupRouter(db)

	// 1. Tenant and accounts.
	schoolID := createSchool(t, r)
	registerUser(t, r, schoolID, "Admin", "admin@it.local", "admin")
	sellerID := registerUser(t, r, schoolID, "Ibu Sari", "sari@it.local", "seller")
	carrierID := registerUser(t, r, schoolID, "Pak Joko", "joko@it.local", "carrier")
	studentID := registerUser(t, r, schoolID, "Budi", "budi@it.local", "student")

	adminToken := login(t, r, "admin@it.local")
	sellerToken := login(t, r, "sari@it.local")
	carrierToken := login(t, r, "joko@it.local")
	studentToken := login(t, r, "budi@it.local")

	// 2. Shop, menu, window, seating.
	shopID := asFloat(request(t, r, "POST", "/api/shops", adminToken, gin.H{
		"name": "Warung Sari", "owner_id": sellerID,
	}, http.StatusCreated)["id"])
	request(t, r, "PUT", fmt.Sprintf("/api/shops/%.0f/carriers", shopID), adminToken, gin.H{
		"carrier_ids": []float64{carrierID},
	}, http.StatusOK)
	categoryID := asFloat(request(t, r, "POST", "/api/categories", adminToken, gin.H{
		"shop_id": shopID, "name": "Mains",
	}, http.StatusCreated)["id"])
	itemID := asFloat(request(t, r, "POST", "/api/menu-items", adminToken, gin.H{
		"shop_id": shopID, "category_id": categoryID, "name": "Nasi Goreng", "price": 15_000,
	}, http.StatusCreated)["id"])

	startTime, endTime := windowAroundNow()
	request(t, r, "POST", "/api/ordering-windows", adminToken, gin.H{
		"name": "Today", "start_time": startTime, "end_time": endTime, "synced_for_seating": true,
	}, http.StatusCreated)
	request(t, r, "PUT", "/api/seat-settings", adminToken, gin.H{
		"total_students": 2,
		"tables":         []gin.H{{"label": "T1", "capacity": 2}},
	}, http.StatusOK)

	// 3. Money.
	request(t, r, "POST", "/api/wallet/top-up", adminToken, gin.H{
		"student_id": studentID, "amount": 100_000,
	}, http.StatusOK)
	request(t, r, "PUT", "/api/wallet/pin", studentToken, gin.H{"pin": "1234"}, http.StatusOK)

	// The canteen is open right now.
	status := request(t, r, "GET", fmt.Sprintf("/canteen/status?school_id=%.0f", schoolID), "", nil, http.StatusOK)
	require.Equal(t, true, status["open"])

	// 4. Place a delivery order.
	order := request(t, r, "POST", "/api/orders", studentToken, gin.H{
		"shop_id":         shopID,
		"delivery_method": "delivery",
		"pin":             "1234",
		"items":           []gin.H{{"menu_item_id": itemID, "quantity": 2}},
	}, http.StatusCreated)
	orderID := asFloat(order["id"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, float64(30_000), order["total_amount"])
	assert.Equal(t, "T1", order["table_label"])

	wallet := request(t, r, "GET", "/api/wallet", studentToken, nil, http.StatusOK)
	assert.Equal(t, float64(70_000), wallet["balance"])

	// 5. Seller works the order forward.
	statusPath := fmt.Sprintf("/api/orders/%.0f/status", orderID)
	for _, next := range []string{"preparing", "packaged", "out_for_delivery"} {
		got := request(t, r, "PATCH", statusPath, sellerToken, gin.H{"status": next}, http.StatusOK)
		assert.Equal(t, next, got["status"])
	}

	// 6. Student checks in; the carrier sees the table in the queue.
	request(t, r, "POST", "/api/check-in", studentToken, gin.H{"order_id": orderID}, http.StatusCreated)
	queueResp := requestRaw(t, r, "GET", fmt.Sprintf("/api/shops/%.0f/deliveries", shopID), carrierToken, nil, http.StatusOK)
	queue := queueResp["data"].([]interface{})
	require.Len(t, queue, 1)
	assert.Equal(t, "T1", queue[0].(map[string]interface{})["table_label"])

	// A second check-in for the same order is refused.
	doRequest(t, r, "POST", "/api/check-in", studentToken, gin.H{"order_id": orderID}, http.StatusConflict)

	// 7. Carrier completes; money settles exactly once and both sides get a
	// receipt.
	request(t, r, "POST", fmt.Sprintf("/api/orders/%.0f/complete", orderID), carrierToken, nil, http.StatusOK)
	doRequest(t, r, "POST", fmt.Sprintf("/api/orders/%.0f/complete", orderID), carrierToken, nil, http.StatusConflict)

	wallet = request(t, r, "GET", "/api/wallet", studentToken, nil, http.StatusOK)
	assert.Equal(t, float64(70_000), wallet["balance"])

	studentReceipts := requestRaw(t, r, "GET", "/api/receipts", studentToken, nil, http.StatusOK)["data"].([]interface{})
	require.Len(t, studentReceipts, 1)
	assert.Equal(t, "purchase", studentReceipts[0].(map[string]interface{})["role"])

	sellerReceipts := requestRaw(t, r, "GET", "/api/receipts", sellerToken, nil, http.StatusOK)["data"].([]interface{})
	require.Len(t, sellerReceipts, 1)
	assert.Equal(t, "sale", sellerReceipts[0].(map[string]interface{})["role"])

	// The seller was notified when the order came in.
	sellerNotifs := requestRaw(t, r, "GET", "/api/notifications", sellerToken, nil, http.StatusOK)["data"].([]interface{})
	assert.NotEmpty(t, sellerNotifs)
}

func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.School{}, &models.User{}, &models.Shop{},
		&models.MenuCategory{}, &models.MenuItem{},
		&models.OrderingWindow{}, &models.SeatSettings{}, &models.CanteenTable{},
		&models.Order{}, &models.OrderItem{}, &models.StagedOrder{},
		&models.Wallet{}, &models.WalletTransaction{},
		&models.Receipt{}, &models.ReceiptItem{},
		&models.DeliveryNotification{}, &models.Notification{},
	))
	return db
}

// windowAroundNow builds an ordering window that contains the current wall
// clock, clamped to today.
func windowAroundNow() (string, string) {
	now := time.Now()
	start := now.Add(-time.Hour)
	if start.Day() != now.Day() {
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
	end := now.Add(time.Hour)
	if end.Day() != now.Day() {
		end = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
	}
	return start.Format("15:04"), end.Format("15:04")
}

func createSchool(t *testing.T, r *gin.Engine) float64 {
	t.Helper()
	resp := request(t, r, "POST", "/schools", "", gin.H{"name": "SMP Integrasi"}, http.StatusCreated)
	return asFloat(resp["id"])
}

func registerUser(t *testing.T, r *gin.Engine, schoolID float64, name, email, role string) float64 {
	t.Helper()
	resp := request(t, r, "POST", "/register", "", gin.H{
		"school_id": schoolID,
		"name":      name,
		"email":     email,
		"password":  "rahasia123",
		"role":      role,
	}, http.StatusCreated)
	return asFloat(resp["user_id"])
}

func login(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	resp := request(t, r, "POST", "/login", "", gin.H{
		"email":    email,
		"password": "rahasia123",
	}, http.StatusOK)
	return resp["token"].(string)
}

// request performs a JSON request and returns the envelope's data object.
func request(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}, wantCode int) map[string]interface{} {
	t.Helper()
	resp := requestRaw(t, r, method, path, token, payload, wantCode)
	data, _ := resp["data"].(map[string]interface{})
	return data
}

func requestRaw(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}, wantCode int) map[string]interface{} {
	t.Helper()
	w := doRequest(t, r, method, path, token, payload, wantCode)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}, wantCode int) *httptest.ResponseRecorder {
	t.Helper()
	body := bytes.NewBuffer(nil)
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equalf(t, wantCode, w.Code, "%s %s: %s", method, path, w.Body.String())
	return w
}

func asFloat(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}
