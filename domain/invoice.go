package domain

import (
	"errors"
)

var (
	MessageSuccessSendInvoice = "invoice sent successfully"
	MessageFailedSendInvoice  = "failed to send invoice"
	MessageFailedGeneratePDF  = "failed to generate invoice PDF"

	ErrNoCustomerEmail = errors.New("order has no customer email")
)

type (
	SendInvoiceRequest struct {
		Email string `json:"email" validate:"omitempty,email"`
	}

	SendInvoiceResponse struct {
		OrderID    string `json:"order_id"`
		SentTo     string `json:"sent_to"`
		ArchiveURL string `json:"archive_url,omitempty"`
	}
)
