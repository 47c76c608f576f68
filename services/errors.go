package services

import "errors"

// Sentinel errors for the canteen engine. Controllers map these onto HTTP
// status codes; everything else bubbles up as a 500.
var (
	// validation
	ErrEmptyCart       = errors.New("cart is empty")
	ErrUnknownItem     = errors.New("menu item not found in this shop")
	ErrItemUnavailable = errors.New("menu item is currently unavailable")

	// capacity
	ErrCanteenClosed        = errors.New("canteen is closed for delivery orders")
	ErrWindowFull           = errors.New("window full: no seat available in the active window")
	ErrSeatingNotConfigured = errors.New("seating not configured")

	// funds
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidPin        = errors.New("invalid wallet pin")

	// authorization
	ErrNoPermission = errors.New("you do not have permission to perform this action")

	// state
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrOrderNotCancellable  = errors.New("only pending orders can be cancelled")
	ErrOrderNotCompletable  = errors.New("only out_for_delivery orders can be completed")
	ErrDuplicateCheckIn     = errors.New("order already checked in")
	ErrNotYourSlot          = errors.New("not your slot: check-in outside the assigned slot window")
	ErrNotDeliveryOrder     = errors.New("order has no delivery slot to check in for")
	ErrOrderNotActive       = errors.New("order is no longer active")
	ErrTransactionFinalized = errors.New("wallet transaction already finalized")
)
