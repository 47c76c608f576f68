package services

import (
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/models"
	"github.com/smartschool/canteen-app/utils"
)

// Notifier delivers a message to a set of recipients. Real-time transport is
// out of scope here; the default implementation persists one notification row
// per recipient for clients to poll.
type Notifier interface {
	Broadcast(title, body string, recipientIDs []uint) error
}

type DBNotifier struct {
	db *gorm.DB
}

func NewDBNotifier(db *gorm.DB) *DBNotifier {
	return &DBNotifier{db: db}
}

func (n *DBNotifier) Broadcast(title, body string, recipientIDs []uint) error {
	for _, id := range recipientIDs {
		notif := models.Notification{
			UserID:  id,
			Title:   title,
			Message: body,
		}
		if err := n.db.Create(&notif).Error; err != nil {
			return err
		}
	}
	utils.InfoLogger.Printf("Notification sent to %d recipient(s): %s", len(recipientIDs), title)
	return nil
}
