package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/controllers"
	"github.com/smartschool/canteen-app/middlewares"
	"github.com/smartschool/canteen-app/models"
	"github.com/smartschool/canteen-app/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Services
	paymentSvc := services.NewPaymentService(db)
	notifier := services.NewDBNotifier(db)
	orderSvc := services.NewOrderService(db, paymentSvc, paymentSvc, notifier)
	attendanceSvc := services.NewAttendanceService(db, notifier)

	// Controllers
	schoolCtrl := controllers.NewSchoolController(db)
	userCtrl := controllers.NewUserController(db)
	shopCtrl := controllers.NewShopController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	windowCtrl := controllers.NewOrderingWindowController(db)
	seatCtrl := controllers.NewSeatSettingsController(db)
	orderCtrl := controllers.NewOrderController(db, orderSvc)
	stagedCtrl := controllers.NewStagedOrderController(paymentSvc)
	attendanceCtrl := controllers.NewAttendanceController(db, attendanceSvc)
	canteenCtrl := controllers.NewCanteenController(db, orderSvc)
	walletCtrl := controllers.NewWalletController(db, paymentSvc)
	receiptCtrl := controllers.NewReceiptController(db)
	notificationCtrl := controllers.NewNotificationController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/schools", schoolCtrl.CreateSchool)
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}
	r.GET("/schools", schoolCtrl.GetAllSchools)

	// Display boards and the app's home screen poll these without a session.
	r.GET("/canteen/status", canteenCtrl.GetStatus)
	r.GET("/shops", shopCtrl.GetAllShops)
	r.GET("/shops/:shop_id/menu", shopCtrl.GetShopMenu)
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menu-items", menuCtrl.GetAllMenuItems)
	r.GET("/menu-items/:item_id", menuCtrl.GetMenuItemByID)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/api")
	auth.Use(middlewares.AuthMiddleware())

	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", userCtrl.GetAllUsers)

	// SHOPS (admin)
	auth.POST("/shops", shopCtrl.CreateShop)
	auth.PATCH("/shops/:shop_id", shopCtrl.UpdateShop)
	auth.PUT("/shops/:shop_id/carriers", shopCtrl.SetCarriers)
	auth.DELETE("/shops/:shop_id", shopCtrl.DeleteShop)

	// MENU CATEGORIES (admin)
	auth.POST("/categories", categoryCtrl.CreateCategory)
	auth.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
	auth.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

	// MENU ITEMS (admin; sellers may toggle availability)
	auth.POST("/menu-items", menuCtrl.CreateMenuItem)
	auth.PATCH("/menu-items/:item_id", menuCtrl.UpdateMenuItem)
	auth.DELETE("/menu-items/:item_id", menuCtrl.DeleteMenuItem)

	// ORDERING WINDOWS (admin manages, everyone reads)
	auth.GET("/ordering-windows", windowCtrl.GetAllWindows)
	auth.POST("/ordering-windows", windowCtrl.CreateWindow)
	auth.PATCH("/ordering-windows/:window_id", windowCtrl.UpdateWindow)
	auth.DELETE("/ordering-windows/:window_id", windowCtrl.DeleteWindow)

	// SEAT SETTINGS (admin manages, everyone reads)
	auth.GET("/seat-settings", seatCtrl.GetSeatSettings)
	auth.PUT("/seat-settings", seatCtrl.UpsertSeatSettings)

	// ORDERS
	auth.POST("/orders", orderCtrl.PlaceOrder)
	auth.GET("/orders", orderCtrl.GetMyOrders)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	auth.GET("/shops/:shop_id/orders", orderCtrl.GetShopOrders)

	// Settlement and refunds move money; their requests are audit logged.
	settle := auth.Group("/orders")
	settle.Use(middlewares.SettlementLoggerMiddleware())
	{
		settle.POST("/:order_id/complete", orderCtrl.CompleteOrder)
		settle.POST("/:order_id/cancel", orderCtrl.CancelOrder)
	}

	// STAGED ORDER
	auth.GET("/staged-order", stagedCtrl.GetStagedOrder)
	auth.DELETE("/staged-order", stagedCtrl.DiscardStagedOrder)

	// DELIVERY CHECK-IN
	auth.POST("/check-in", attendanceCtrl.CheckIn)
	auth.GET("/shops/:shop_id/deliveries", attendanceCtrl.GetPendingDeliveries)
	auth.PATCH("/deliveries/:notif_id/served", attendanceCtrl.MarkServed)
	auth.DELETE("/deliveries/:notif_id", attendanceCtrl.ClearNotification)

	// WALLET
	auth.GET("/wallet", walletCtrl.GetMyWallet)
	auth.PUT("/wallet/pin", walletCtrl.SetPin)
	auth.POST("/wallet/top-up", middlewares.RequireRole(models.RoleAdmin), walletCtrl.TopUp)

	// RECEIPTS
	auth.GET("/receipts", receiptCtrl.GetMyReceipts)
	auth.GET("/receipts/:receipt_id", receiptCtrl.GetReceiptByID)

	// NOTIFICATIONS
	auth.GET("/notifications", notificationCtrl.GetMyNotifications)
	auth.PATCH("/notifications/:notif_id/read", notificationCtrl.MarkRead)

	// DASHBOARD (admin)
	auth.GET("/dashboard/stats", canteenCtrl.GetDashboard)

	return r
}
