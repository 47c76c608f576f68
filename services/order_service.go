package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/models"
	"github.com/smartschool/canteen-app/utils"
)

// Order statuses. Forward transitions are seller/carrier driven and move one
// state at a time; cancellation is student driven and only legal from
// pending.
const (
	OrderStatusPending        = "pending"
	OrderStatusPreparing      = "preparing"
	OrderStatusPackaged       = "packaged"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// forwardTransitions maps each status to the only forward status reachable
// from it.
var forwardTransitions = map[string]string{
	OrderStatusPending:        OrderStatusPreparing,
	OrderStatusPreparing:      OrderStatusPackaged,
	OrderStatusPackaged:       OrderStatusOutForDelivery,
	OrderStatusOutForDelivery: OrderStatusDelivered,
}

// StagingCoordinator is the slice of the payment service the order engine
// needs for the insufficient-funds recovery path.
type StagingCoordinator interface {
	StageOrder(studentID, shopID uint, method string, cart map[uint]int, total int64) error
	ClearStagedOrder(studentID uint) error
}

type CartLine struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required"`
}

type PlaceOrderInput struct {
	StudentID      uint
	Pin            string
	ShopID         uint
	DeliveryMethod string
	Items          []CartLine
}

// OrderService owns the order state machine. Delivery placement, settlement
// and cancellation for one shop are serialized through a per-shop mutex so
// the slot allocator's read-then-write replay never interleaves.
type OrderService struct {
	db       *gorm.DB
	wallet   WalletGateway
	staging  StagingCoordinator
	notifier Notifier

	// Now is swappable in tests.
	Now func() time.Time

	shopLocks sync.Map // shop id -> *sync.Mutex
}

func NewOrderService(db *gorm.DB, wallet WalletGateway, staging StagingCoordinator, notifier Notifier) *OrderService {
	return &OrderService{
		db:       db,
		wallet:   wallet,
		staging:  staging,
		notifier: notifier,
		Now:      time.Now,
	}
}

func (s *OrderService) lockShop(shopID uint) *sync.Mutex {
	v, _ := s.shopLocks.LoadOrStore(shopID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu
}

// CurrentStatus reports whether the school's canteen is open for delivery
// orders right now.
func (s *OrderService) CurrentStatus(schoolID uint) (WindowStatus, error) {
	windows, err := s.windowsFor(schoolID)
	if err != nil {
		return WindowStatus{}, err
	}
	return ResolveWindowStatus(s.Now(), windows), nil
}

// PlaceOrder validates the cart, reserves a seat slot for delivery orders,
// holds the debit against the student's wallet and persists the order in
// pending. Capacity failures happen before payment is touched; an
// insufficient balance stages the attempt for later instead of failing
// generically.
func (s *OrderService) PlaceOrder(in PlaceOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if in.DeliveryMethod != models.DeliveryMethodPickup && in.DeliveryMethod != models.DeliveryMethodDelivery {
		return nil, fmt.Errorf("unknown delivery method %q", in.DeliveryMethod)
	}

	var student models.User
	if err := s.db.First(&student, in.StudentID).Error; err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	var shop models.Shop
	if err := s.db.Preload("Carriers").First(&shop, in.ShopID).Error; err != nil {
		return nil, fmt.Errorf("failed to load shop: %w", err)
	}
	if shop.SchoolID != student.SchoolID {
		return nil, fmt.Errorf("%w: shop belongs to another school", ErrNoPermission)
	}

	// Snapshot every cart line against the live menu.
	var total int64
	cart := make(map[uint]int, len(in.Items))
	lines := make([]models.OrderItem, 0, len(in.Items))
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrUnknownItem)
		}
		var item models.MenuItem
		err := s.db.Where("id = ? AND shop_id = ?", line.MenuItemID, in.ShopID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownItem
		}
		if err != nil {
			return nil, err
		}
		if !item.Available {
			return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, item.Name)
		}
		total += int64(line.Quantity) * item.Price
		cart[item.ID] += line.Quantity
		lines = append(lines, models.OrderItem{
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   line.Quantity,
			Price:      item.Price,
		})
	}

	// Delivery orders reserve a seat before payment is touched. The shop
	// lock covers the replay of existing orders through the insert of the
	// new one.
	var assignment *SlotAssignment
	if in.DeliveryMethod == models.DeliveryMethodDelivery {
		mu := s.lockShop(in.ShopID)
		defer mu.Unlock()

		var err error
		assignment, err = s.reserveSlot(&shop)
		if err != nil {
			return nil, err
		}
	}

	balance, err := s.wallet.AvailableBalance(in.StudentID)
	if err != nil {
		return nil, err
	}
	if balance < total {
		if err := s.staging.StageOrder(in.StudentID, in.ShopID, in.DeliveryMethod, cart, total); err != nil {
			return nil, fmt.Errorf("failed to stage order: %w", err)
		}
		return nil, ErrInsufficientFunds
	}

	ok, err := s.wallet.VerifyPin(in.StudentID, in.Pin)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidPin
	}

	order := models.Order{
		ShopID:         in.ShopID,
		StudentID:      student.ID,
		StudentName:    student.Name,
		Status:         OrderStatusPending,
		DeliveryMethod: in.DeliveryMethod,
		TotalAmount:    total,
		Items:          lines,
	}
	if assignment != nil {
		order.TableLabel = &assignment.TableLabel
		order.SlotStartMs = &assignment.SlotStartMs
		order.SlotEndMs = &assignment.SlotEndMs
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	memo := fmt.Sprintf("Canteen order #%d at %s", order.ID, shop.Name)
	txnID, err := s.wallet.CreateHeldDebit(in.StudentID, total, memo, order.ID)
	if err != nil {
		// The order never became payable; take it back out.
		s.db.Delete(&models.OrderItem{}, "order_id = ?", order.ID)
		s.db.Delete(&order)
		if errors.Is(err, ErrInsufficientFunds) {
			if stageErr := s.staging.StageOrder(in.StudentID, in.ShopID, in.DeliveryMethod, cart, total); stageErr != nil {
				return nil, fmt.Errorf("failed to stage order: %w", stageErr)
			}
		}
		return nil, err
	}
	order.TransactionID = &txnID
	if err := s.db.Save(&order).Error; err != nil {
		// A hold without a durable order is a fatal inconsistency; undo it
		// before surfacing the error.
		if revErr := s.wallet.Reverse(s.db, txnID); revErr != nil {
			utils.ErrorLogger.Printf("failed to reverse orphaned hold %d: %v", txnID, revErr)
		}
		s.db.Delete(&models.OrderItem{}, "order_id = ?", order.ID)
		s.db.Delete(&order)
		return nil, fmt.Errorf("failed to attach transaction: %w", err)
	}

	if err := s.staging.ClearStagedOrder(in.StudentID); err != nil {
		utils.ErrorLogger.Printf("failed to clear staged order for student %d: %v", in.StudentID, err)
	}

	s.notifyOwner(&shop, &order)

	utils.InfoLogger.Printf("Order #%d placed by %s at shop %d (total=%d, method=%s)",
		order.ID, student.Name, shop.ID, total, in.DeliveryMethod)
	return &order, nil
}

// reserveSlot resolves the active window and runs the allocator. Callers must
// hold the shop lock.
func (s *OrderService) reserveSlot(shop *models.Shop) (*SlotAssignment, error) {
	windows, err := s.windowsFor(shop.SchoolID)
	if err != nil {
		return nil, err
	}
	status := ResolveWindowStatus(s.Now(), windows)
	if !status.Open {
		return nil, ErrCanteenClosed
	}

	var settings models.SeatSettings
	err = s.db.Preload("Tables").Where("school_id = ?", shop.SchoolID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSeatingNotConfigured
	}
	if err != nil {
		return nil, err
	}
	duration, err := ComputeSlotDurationMinutes(&settings, windows)
	if err != nil {
		return nil, err
	}

	var existing []models.Order
	if err := s.db.
		Where("shop_id = ? AND delivery_method = ? AND status <> ?", shop.ID, models.DeliveryMethodDelivery, OrderStatusCancelled).
		Where("slot_start_ms >= ? AND slot_start_ms < ?", status.WindowStartMs, status.WindowEndMs).
		Find(&existing).Error; err != nil {
		return nil, err
	}

	return AllocateSlot(status.WindowStartMs, status.WindowEndMs, &settings, duration, existing)
}

// UpdateOrderStatus drives the forward chain one step (seller/carrier) or
// cancels a pending order (student). Reaching delivered settles the held
// debit and writes receipts; cancelling reverses it. Any financial failure
// rolls the status change back.
func (s *OrderService) UpdateOrderStatus(actorID, orderID uint, newStatus string) (*models.Order, error) {
	shopID, err := s.shopIDOf(orderID)
	if err != nil {
		return nil, err
	}
	mu := s.lockShop(shopID)
	defer mu.Unlock()

	// Loaded under the lock so the transition check cannot act on a status
	// another writer already replaced.
	order, shop, err := s.loadOrderWithShop(orderID)
	if err != nil {
		return nil, err
	}

	switch {
	case newStatus == OrderStatusCancelled:
		if actorID != order.StudentID {
			return nil, ErrNoPermission
		}
		if order.Status != OrderStatusPending {
			return nil, ErrOrderNotCancellable
		}
	case forwardTransitions[order.Status] == newStatus:
		if !shop.CanManageOrders(actorID) {
			return nil, ErrNoPermission
		}
	default:
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		order.Status = newStatus
		order.UpdatedAt = time.Now()
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		switch newStatus {
		case OrderStatusDelivered:
			return s.settleInTx(tx, order, shop)
		case OrderStatusCancelled:
			return s.reverseHold(tx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order #%d -> %s (actor=%d)", order.ID, newStatus, actorID)
	return order, nil
}

// CompleteOrder is the carrier handshake: settle an out_for_delivery order
// and mark it delivered. Only the shop owner or a registered carrier may do
// this.
func (s *OrderService) CompleteOrder(actorID, orderID uint) (*models.Order, error) {
	shopID, err := s.shopIDOf(orderID)
	if err != nil {
		return nil, err
	}
	mu := s.lockShop(shopID)
	defer mu.Unlock()

	order, shop, err := s.loadOrderWithShop(orderID)
	if err != nil {
		return nil, err
	}
	if !shop.CanManageOrders(actorID) {
		return nil, ErrNoPermission
	}
	if order.Status != OrderStatusOutForDelivery {
		return nil, ErrOrderNotCompletable
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		order.Status = OrderStatusDelivered
		order.UpdatedAt = time.Now()
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		return s.settleInTx(tx, order, shop)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order #%d completed by %d", order.ID, actorID)
	return order, nil
}

// CancelOrder lets the placing student abandon a pending order; the held
// debit is refunded.
func (s *OrderService) CancelOrder(studentID, orderID uint) (*models.Order, error) {
	return s.UpdateOrderStatus(studentID, orderID, OrderStatusCancelled)
}

func (s *OrderService) settleInTx(tx *gorm.DB, order *models.Order, shop *models.Shop) error {
	if order.TransactionID == nil {
		return fmt.Errorf("order #%d has no transaction to settle", order.ID)
	}
	if err := s.wallet.Settle(tx, *order.TransactionID); err != nil {
		return err
	}
	return writeReceiptPair(tx, order, shop)
}

func (s *OrderService) reverseHold(tx *gorm.DB, order *models.Order) error {
	if order.TransactionID == nil {
		return fmt.Errorf("order #%d has no transaction to reverse", order.ID)
	}
	return s.wallet.Reverse(tx, *order.TransactionID)
}

func (s *OrderService) shopIDOf(orderID uint) (uint, error) {
	var order models.Order
	if err := s.db.Select("id", "shop_id").First(&order, orderID).Error; err != nil {
		return 0, err
	}
	return order.ShopID, nil
}

func (s *OrderService) loadOrderWithShop(orderID uint) (*models.Order, *models.Shop, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, nil, err
	}
	var shop models.Shop
	if err := s.db.Preload("Carriers").First(&shop, order.ShopID).Error; err != nil {
		return nil, nil, err
	}
	return &order, &shop, nil
}

func (s *OrderService) windowsFor(schoolID uint) ([]models.OrderingWindow, error) {
	var windows []models.OrderingWindow
	if err := s.db.Where("school_id = ?", schoolID).Order("id asc").Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

func (s *OrderService) notifyOwner(shop *models.Shop, order *models.Order) {
	if shop.OwnerID == nil {
		return
	}
	body := fmt.Sprintf("%s ordered for %s", order.StudentName, utils.FormatAmount(order.TotalAmount))
	if order.HasSlot() {
		body = fmt.Sprintf("%s, table %s at %s", body, *order.TableLabel,
			time.UnixMilli(*order.SlotStartMs).Format("15:04"))
	}
	if err := s.notifier.Broadcast(fmt.Sprintf("New order #%d", order.ID), body, []uint{*shop.OwnerID}); err != nil {
		utils.ErrorLogger.Printf("failed to notify shop owner: %v", err)
	}
}
