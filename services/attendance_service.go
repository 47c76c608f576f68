package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/models"
	"github.com/smartschool/canteen-app/utils"
)

// CheckInGrace is how far outside the assigned slot a student may still
// check in.
const CheckInGrace = 15 * time.Minute

// AttendanceService turns a student's physical check-in at their table into
// a delivery notification that carriers can work and clear.
type AttendanceService struct {
	db       *gorm.DB
	notifier Notifier

	// Now is swappable in tests.
	Now func() time.Time
}

func NewAttendanceService(db *gorm.DB, notifier Notifier) *AttendanceService {
	return &AttendanceService{db: db, notifier: notifier, Now: time.Now}
}

// SignIn records the student's arrival at their assigned slot. The order
// must be an active delivery order with a slot, the current time must fall
// inside the slot plus grace on both sides, and only one check-in per order
// is ever accepted. Carriers of the shop are notified on success.
func (s *AttendanceService) SignIn(studentID, orderID uint) (*models.DeliveryNotification, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		return nil, err
	}
	if order.StudentID != studentID {
		return nil, ErrNoPermission
	}
	if order.Status == OrderStatusDelivered || order.Status == OrderStatusCancelled {
		return nil, ErrOrderNotActive
	}
	if order.DeliveryMethod != models.DeliveryMethodDelivery || !order.HasSlot() {
		return nil, ErrNotDeliveryOrder
	}

	nowMs := s.Now().UnixMilli()
	graceMs := CheckInGrace.Milliseconds()
	if nowMs < *order.SlotStartMs-graceMs || nowMs > *order.SlotEndMs+graceMs {
		return nil, ErrNotYourSlot
	}

	var existing models.DeliveryNotification
	err := s.db.Where("order_id = ?", order.ID).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateCheckIn
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	notif, err := s.recordCheckIn(&order)
	if err != nil {
		return nil, err
	}

	s.notifyCarriers(&order, notif)

	utils.InfoLogger.Printf("Check-in for order #%d at table %s", order.ID, notif.TableLabel)
	return notif, nil
}

// recordCheckIn inserts the notification row. The unique index on order_id
// backs the one-check-in-per-order rule; a second check-in that slipped past
// the lookup loses here and is reported as a duplicate, not a DB failure.
func (s *AttendanceService) recordCheckIn(order *models.Order) (*models.DeliveryNotification, error) {
	notif := models.DeliveryNotification{
		OrderID:     order.ID,
		ShopID:      order.ShopID,
		StudentID:   order.StudentID,
		StudentName: order.StudentName,
		TableLabel:  *order.TableLabel,
		Status:      models.DeliveryNotificationPending,
	}
	if err := s.db.Create(&notif).Error; err != nil {
		var winner models.DeliveryNotification
		if lookupErr := s.db.Where("order_id = ?", order.ID).First(&winner).Error; lookupErr == nil {
			return nil, ErrDuplicateCheckIn
		}
		return nil, err
	}
	return &notif, nil
}

// MarkServed flags a pending notification as handled. Allowed for the shop
// owner and registered carriers, independently of completing the order.
func (s *AttendanceService) MarkServed(actorID, notifID uint) (*models.DeliveryNotification, error) {
	notif, shop, err := s.loadWithShop(notifID)
	if err != nil {
		return nil, err
	}
	if !shop.CanManageOrders(actorID) {
		return nil, ErrNoPermission
	}
	notif.Status = models.DeliveryNotificationServed
	notif.UpdatedAt = time.Now()
	if err := s.db.Save(notif).Error; err != nil {
		return nil, err
	}
	return notif, nil
}

// Clear removes a served notification from the live queue.
func (s *AttendanceService) Clear(actorID, notifID uint) error {
	notif, shop, err := s.loadWithShop(notifID)
	if err != nil {
		return err
	}
	if !shop.CanManageOrders(actorID) {
		return ErrNoPermission
	}
	if notif.Status != models.DeliveryNotificationServed {
		return fmt.Errorf("only served notifications can be cleared")
	}
	return s.db.Delete(notif).Error
}

// PendingForShop lists the live delivery queue, oldest first.
func (s *AttendanceService) PendingForShop(shopID uint) ([]models.DeliveryNotification, error) {
	var notifs []models.DeliveryNotification
	err := s.db.Where("shop_id = ?", shopID).Order("created_at asc").Find(&notifs).Error
	return notifs, err
}

func (s *AttendanceService) loadWithShop(notifID uint) (*models.DeliveryNotification, *models.Shop, error) {
	var notif models.DeliveryNotification
	if err := s.db.First(&notif, notifID).Error; err != nil {
		return nil, nil, err
	}
	var shop models.Shop
	if err := s.db.Preload("Carriers").First(&shop, notif.ShopID).Error; err != nil {
		return nil, nil, err
	}
	return &notif, &shop, nil
}

func (s *AttendanceService) notifyCarriers(order *models.Order, notif *models.DeliveryNotification) {
	var shop models.Shop
	if err := s.db.Preload("Carriers").First(&shop, order.ShopID).Error; err != nil {
		utils.ErrorLogger.Printf("failed to load shop %d for carrier broadcast: %v", order.ShopID, err)
		return
	}
	recipients := make([]uint, 0, len(shop.Carriers))
	for _, c := range shop.Carriers {
		recipients = append(recipients, c.ID)
	}
	if len(recipients) == 0 {
		return
	}
	body := fmt.Sprintf("%s is waiting at table %s for order #%d",
		notif.StudentName, notif.TableLabel, order.ID)
	if err := s.notifier.Broadcast("Delivery check-in", body, recipients); err != nil {
		utils.ErrorLogger.Printf("failed to notify carriers: %v", err)
	}
}
