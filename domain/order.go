package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	OrderStatusCompleted = "completed"
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusFailed    = "failed"

	CheckoutStepOrder = "insert_order"
	CheckoutStepItems = "insert_order_items"
	CheckoutStepStock = "decrement_stock"
)

var (
	MessageSuccessCheckout   = "order processed successfully"
	MessageSuccessGetOrders  = "orders retrieved successfully"
	MessageSuccessGetOrder   = "order retrieved successfully"
	MessageSuccessPayment    = "payment link created successfully"
	MessageSuccessWebhook    = "payment notification processed"
	MessageFailedCheckout    = "failed to process order"
	MessageFailedGetOrders   = "failed to retrieve orders"
	MessageFailedGetOrder    = "failed to retrieve order"
	MessageFailedPayment     = "failed to create payment link"
	MessageFailedWebhook     = "failed to process payment notification"
	MessageFailedNoCustomer  = "customer name is required"
	MessageFailedInvalidCart = "cart is empty"

	ErrOrderNotFound       = errors.New("order not found")
	ErrCustomerRequired    = errors.New("customer name is required")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrPaymentFailed       = errors.New("payment processing failed")
	ErrPaymentNotAvailable = errors.New("payment gateway not configured")
)

// CheckoutStepError reports which step of the checkout sequence failed.
// Steps that ran before it are not rolled back unless atomic checkout is on.
type CheckoutStepError struct {
	Step    string
	OrderID string
	Err     error
}

func (e *CheckoutStepError) Error() string {
	if e.OrderID == "" {
		return fmt.Sprintf("checkout step %s failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("checkout step %s failed for order %s: %v", e.Step, e.OrderID, e.Err)
}

func (e *CheckoutStepError) Unwrap() error {
	return e.Err
}

type (
	CustomerInfo struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"omitempty,email"`
		Phone string `json:"phone" validate:"omitempty"`
	}

	CheckoutRequest struct {
		Customer CustomerInfo `json:"customer" validate:"required"`
	}

	OrderItemResponse struct {
		ID          string  `json:"id"`
		ProductID   string  `json:"product_id"`
		ProductName string  `json:"product_name"`
		Quantity    int     `json:"quantity"`
		UnitPrice   float64 `json:"unit_price"`
		TotalPrice  float64 `json:"total_price"`
	}

	OrderResponse struct {
		ID            string              `json:"id"`
		InvoiceNumber string              `json:"invoice_number"`
		CustomerName  string              `json:"customer_name"`
		CustomerEmail string              `json:"customer_email,omitempty"`
		CustomerPhone string              `json:"customer_phone,omitempty"`
		Subtotal      float64             `json:"subtotal"`
		Tax           float64             `json:"tax"`
		Total         float64             `json:"total"`
		Status        string              `json:"status"`
		PaymentURL    string              `json:"payment_url,omitempty"`
		Items         []OrderItemResponse `json:"items"`
		CreatedAt     time.Time           `json:"created_at"`
	}

	PaymentResponse struct {
		OrderID     string `json:"order_id"`
		Token       string `json:"token"`
		RedirectURL string `json:"redirect_url"`
	}

	MidtransNotification struct {
		OrderID           string `json:"order_id" validate:"required"`
		TransactionStatus string `json:"transaction_status"`
		FraudStatus       string `json:"fraud_status"`
		StatusCode        string `json:"status_code"`
		GrossAmount       string `json:"gross_amount"`
		SignatureKey      string `json:"signature_key"`
	}
)
