package invoice

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/internal/utils/mailing"
	"Supermarket-Vision-Backend/internal/utils/storage"
	"Supermarket-Vision-Backend/pkg/order"
	"context"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"html"
	"strings"
	"time"
)

type (
	Document struct {
		FileName string
		Data     []byte
	}

	InvoiceService interface {
		GeneratePDF(ctx context.Context, orderID string) (Document, error)
		SendInvoice(ctx context.Context, orderID string, req domain.SendInvoiceRequest) (domain.SendInvoiceResponse, error)
	}

	invoiceService struct {
		orderService order.OrderService
		mailer       mailing.Mailer
		s3           storage.AwsS3
		storeName    string
		location     *time.Location
	}
)

func NewInvoiceService(orderService order.OrderService, mailer mailing.Mailer, s3 storage.AwsS3, storeName string, location *time.Location) InvoiceService {
	return &invoiceService{
		orderService: orderService,
		mailer:       mailer,
		s3:           s3,
		storeName:    storeName,
		location:     location,
	}
}

func (s *invoiceService) GeneratePDF(ctx context.Context, orderID string) (Document, error) {
	o, err := s.orderService.GetOrderByID(ctx, orderID)
	if err != nil {
		return Document{}, err
	}
	return s.render(o)
}

// SendInvoice mails the invoice PDF to req.Email, or to the customer's
// address when none is given. With object storage configured the PDF is
// archived first; archive failures are logged and do not stop the mail.
func (s *invoiceService) SendInvoice(ctx context.Context, orderID string, req domain.SendInvoiceRequest) (domain.SendInvoiceResponse, error) {
	o, err := s.orderService.GetOrderByID(ctx, orderID)
	if err != nil {
		return domain.SendInvoiceResponse{}, err
	}

	to := strings.TrimSpace(req.Email)
	if to == "" {
		to = o.CustomerEmail
	}
	if to == "" {
		return domain.SendInvoiceResponse{}, domain.ErrNoCustomerEmail
	}

	doc, err := s.render(o)
	if err != nil {
		return domain.SendInvoiceResponse{}, err
	}

	res := domain.SendInvoiceResponse{OrderID: o.ID, SentTo: to}
	if s.s3.Enabled() {
		key, err := s.s3.UploadBytes(ctx, "invoices/"+doc.FileName, doc.Data, "application/pdf")
		if err != nil {
			log.Warnf("failed to archive invoice %s: %v", o.InvoiceNumber, err)
		} else {
			res.ArchiveURL = s.s3.GetPublicLinkKey(key)
		}
	}

	subject := fmt.Sprintf("Invoice #%s from %s", o.InvoiceNumber, s.storeName)
	if err := s.mailer.SendMail(to, subject, mailBody(o, s.storeName), mailing.Attachment{Name: doc.FileName, Data: doc.Data}); err != nil {
		return domain.SendInvoiceResponse{}, err
	}

	log.Infof("invoice %s sent to %s", o.InvoiceNumber, to)
	return res, nil
}

func (s *invoiceService) render(o domain.OrderResponse) (Document, error) {
	data, err := Render(o, s.storeName, s.location)
	if err != nil {
		return Document{}, fmt.Errorf("render invoice %s: %w", o.InvoiceNumber, err)
	}
	return Document{
		FileName: fmt.Sprintf("invoice-%s.pdf", o.InvoiceNumber),
		Data:     data,
	}, nil
}

func mailBody(o domain.OrderResponse, storeName string) string {
	name := o.CustomerName
	if name == "" {
		name = walkInCustomer
	}
	return fmt.Sprintf(
		"<p>Dear %s,</p><p>Thank you for shopping at %s. Your invoice #%s for a total of %s is attached.</p>",
		html.EscapeString(name),
		html.EscapeString(storeName),
		o.InvoiceNumber,
		money(o.Total),
	)
}
