package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/smartschool/canteen-app/models"
)

// WalletGateway is what the order engine needs from the wallet subsystem.
// Balances and PINs are owned elsewhere; the engine only holds, settles and
// reverses debits. Settle and Reverse run on the handle the caller passes,
// so a caller inside a transaction makes the money movement part of it.
type WalletGateway interface {
	AvailableBalance(studentID uint) (int64, error)
	VerifyPin(studentID uint, pin string) (bool, error)
	CreateHeldDebit(studentID uint, amount int64, memo string, orderID uint) (uint, error)
	Settle(db *gorm.DB, transactionID uint) error
	Reverse(db *gorm.DB, transactionID uint) error
}

// PaymentService is the wallet-backed implementation of WalletGateway plus
// the staged-order coordinator. A held debit is deducted from the balance
// immediately; settling keeps it, reversing refunds it. Both finalizers
// refuse to touch a transaction twice.
type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

func (s *PaymentService) AvailableBalance(studentID uint) (int64, error) {
	wallet, err := s.walletFor(studentID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

func (s *PaymentService) VerifyPin(studentID uint, pin string) (bool, error) {
	wallet, err := s.walletFor(studentID)
	if err != nil {
		return false, err
	}
	if wallet.PinHash == "" {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(wallet.PinHash), []byte(pin)) == nil, nil
}

// CreateHeldDebit deducts the amount from the wallet and records a held
// transaction. Fails with ErrInsufficientFunds when the balance cannot cover
// the amount at debit time.
func (s *PaymentService) CreateHeldDebit(studentID uint, amount int64, memo string, orderID uint) (uint, error) {
	var txnID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		if err := tx.Where("student_id = ?", studentID).First(&wallet).Error; err != nil {
			return fmt.Errorf("failed to load wallet: %w", err)
		}
		if wallet.Balance < amount {
			return ErrInsufficientFunds
		}
		wallet.Balance -= amount
		if err := tx.Save(&wallet).Error; err != nil {
			return fmt.Errorf("failed to debit wallet: %w", err)
		}
		txn := models.WalletTransaction{
			Reference: uuid.NewString(),
			StudentID: studentID,
			OrderID:   orderID,
			Amount:    amount,
			Memo:      memo,
			Status:    models.TransactionHeld,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}
		txnID = txn.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return txnID, nil
}

// Settle captures a held debit. Settling anything but a held transaction
// fails loudly instead of double-applying.
func (s *PaymentService) Settle(db *gorm.DB, transactionID uint) error {
	return s.finalize(db, transactionID, models.TransactionSettled, false)
}

// Reverse refunds a held debit back to the wallet.
func (s *PaymentService) Reverse(db *gorm.DB, transactionID uint) error {
	return s.finalize(db, transactionID, models.TransactionReversed, true)
}

func (s *PaymentService) finalize(db *gorm.DB, transactionID uint, status string, refund bool) error {
	if db == nil {
		db = s.db
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var txn models.WalletTransaction
		if err := tx.First(&txn, transactionID).Error; err != nil {
			return fmt.Errorf("failed to load transaction: %w", err)
		}
		if txn.Status != models.TransactionHeld {
			return ErrTransactionFinalized
		}
		txn.Status = status
		if err := tx.Save(&txn).Error; err != nil {
			return fmt.Errorf("failed to finalize transaction: %w", err)
		}
		if refund {
			var wallet models.Wallet
			if err := tx.Where("student_id = ?", txn.StudentID).First(&wallet).Error; err != nil {
				return fmt.Errorf("failed to load wallet: %w", err)
			}
			wallet.Balance += txn.Amount
			if err := tx.Save(&wallet).Error; err != nil {
				return fmt.Errorf("failed to refund wallet: %w", err)
			}
		}
		return nil
	})
}

/*
========================================
 STAGED ORDERS
========================================
*/

// StageOrder persists the attempted cart so the student can resume after
// topping up. One staged order per student; re-staging overwrites.
func (s *PaymentService) StageOrder(studentID, shopID uint, method string, cart map[uint]int, total int64) error {
	staged := models.StagedOrder{
		StudentID:      studentID,
		ShopID:         shopID,
		DeliveryMethod: method,
		TotalAmount:    total,
	}
	if err := staged.SetItems(cart); err != nil {
		return err
	}
	var existing models.StagedOrder
	err := s.db.Where("student_id = ?", studentID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&staged).Error
	}
	if err != nil {
		return err
	}
	existing.ShopID = staged.ShopID
	existing.DeliveryMethod = staged.DeliveryMethod
	existing.ItemsJSON = staged.ItemsJSON
	existing.TotalAmount = staged.TotalAmount
	existing.UpdatedAt = time.Now()
	return s.db.Save(&existing).Error
}

func (s *PaymentService) StagedOrderFor(studentID uint) (*models.StagedOrder, error) {
	var staged models.StagedOrder
	if err := s.db.Where("student_id = ?", studentID).First(&staged).Error; err != nil {
		return nil, err
	}
	return &staged, nil
}

func (s *PaymentService) ClearStagedOrder(studentID uint) error {
	return s.db.Where("student_id = ?", studentID).Delete(&models.StagedOrder{}).Error
}

/*
========================================
 WALLET ADMIN HELPERS
========================================
*/

// TopUp credits a student's wallet, creating it if needed.
func (s *PaymentService) TopUp(studentID uint, amount int64) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.db.Where("student_id = ?", studentID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wallet = models.Wallet{StudentID: studentID}
		if err := s.db.Create(&wallet).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	wallet.Balance += amount
	if err := s.db.Save(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// SetPin stores a bcrypt hash of the student's wallet PIN.
func (s *PaymentService) SetPin(studentID uint, pin string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	var wallet models.Wallet
	err = s.db.Where("student_id = ?", studentID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wallet = models.Wallet{StudentID: studentID, PinHash: string(hashed)}
		return s.db.Create(&wallet).Error
	}
	if err != nil {
		return err
	}
	wallet.PinHash = string(hashed)
	return s.db.Save(&wallet).Error
}

func (s *PaymentService) walletFor(studentID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.Where("student_id = ?", studentID).First(&wallet).Error; err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	return &wallet, nil
}
