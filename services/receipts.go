package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/models"
)

// writeReceiptPair records the settlement as two receipts with identical
// items and amount: a purchase for the buyer and a sale for the seller.
func writeReceiptPair(tx *gorm.DB, order *models.Order, shop *models.Shop) error {
	var sellerID uint
	if shop.OwnerID != nil {
		sellerID = *shop.OwnerID
	}
	for _, role := range []string{models.ReceiptRolePurchase, models.ReceiptRoleSale} {
		receipt := models.Receipt{
			ReceiptNumber: uuid.NewString(),
			OrderID:       order.ID,
			TransactionID: *order.TransactionID,
			BuyerID:       order.StudentID,
			SellerID:      sellerID,
			Role:          role,
			Amount:        order.TotalAmount,
		}
		for _, item := range order.Items {
			receipt.ReceiptItems = append(receipt.ReceiptItems, models.ReceiptItem{
				MenuItemID: item.MenuItemID,
				Name:       item.Name,
				Quantity:   item.Quantity,
				UnitPrice:  item.Price,
				Subtotal:   item.Subtotal(),
			})
		}
		if err := tx.Create(&receipt).Error; err != nil {
			return err
		}
	}
	return nil
}
