package invoice

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/internal/utils/mailing"
	"Supermarket-Vision-Backend/internal/utils/storage"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrders struct {
	orders map[string]domain.OrderResponse
}

func (s stubOrders) Checkout(context.Context, string, domain.CheckoutRequest) (domain.OrderResponse, error) {
	return domain.OrderResponse{}, errors.New("not used")
}

func (s stubOrders) GetOrders(context.Context, int, int) ([]domain.OrderResponse, domain.Pagination, error) {
	return nil, domain.Pagination{}, errors.New("not used")
}

func (s stubOrders) GetOrderByID(_ context.Context, id string) (domain.OrderResponse, error) {
	o, ok := s.orders[id]
	if !ok {
		return domain.OrderResponse{}, domain.ErrOrderNotFound
	}
	return o, nil
}

type sentMail struct {
	to, subject, body string
	attachments       []mailing.Attachment
}

type recordingMailer struct {
	sent []sentMail
}

func (m *recordingMailer) SendMail(to, subject, body string, attachments ...mailing.Attachment) error {
	m.sent = append(m.sent, sentMail{to, subject, body, attachments})
	return nil
}

type archive struct {
	keys []string
}

func (a *archive) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	a.keys = append(a.keys, *in.Key)
	return &s3.PutObjectOutput{}, nil
}

func (a *archive) DeleteObject(context.Context, *s3.DeleteObjectInput, ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	return &s3.DeleteObjectOutput{}, nil
}

func sampleOrder(email string) domain.OrderResponse {
	return domain.OrderResponse{
		ID:            "3f2a9c1b-1111-2222-3333-444455556666",
		InvoiceNumber: "3F2A9C1B",
		CustomerName:  "José Núñez",
		CustomerEmail: email,
		Subtotal:      7.27,
		Tax:           0.5816,
		Total:         7.8516,
		Status:        domain.OrderStatusCompleted,
		Items: []domain.OrderItemResponse{
			{ProductName: "Milk", Quantity: 2, UnitPrice: 1.99, TotalPrice: 3.98},
			{ProductName: "Bread", Quantity: 1, UnitPrice: 3.29, TotalPrice: 3.29},
		},
		CreatedAt: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
	}
}

func newService(orders map[string]domain.OrderResponse, objects storage.ObjectAPI) (InvoiceService, *recordingMailer) {
	mailer := &recordingMailer{}
	var s3 storage.AwsS3
	if objects != nil {
		s3 = storage.NewAwsS3WithClient(objects, "shop", "us-east-1")
	} else {
		s3 = storage.NewAwsS3WithClient(nil, "", "")
	}
	return NewInvoiceService(stubOrders{orders}, mailer, s3, "Corner Market", time.UTC), mailer
}

func TestRender(t *testing.T) {
	data, err := Render(sampleOrder(""), "Corner Market", time.UTC)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	again, err := Render(sampleOrder(""), "Corner Market", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, len(data), len(again))
}

func TestGeneratePDF(t *testing.T) {
	o := sampleOrder("")
	svc, _ := newService(map[string]domain.OrderResponse{o.ID: o}, nil)

	doc, err := svc.GeneratePDF(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "invoice-3F2A9C1B.pdf", doc.FileName)
	assert.NotEmpty(t, doc.Data)

	_, err = svc.GeneratePDF(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestSendInvoice(t *testing.T) {
	o := sampleOrder("jose@example.com")
	objects := &archive{}
	svc, mailer := newService(map[string]domain.OrderResponse{o.ID: o}, objects)

	res, err := svc.SendInvoice(context.Background(), o.ID, domain.SendInvoiceRequest{})
	require.NoError(t, err)
	assert.Equal(t, "jose@example.com", res.SentTo)
	assert.Equal(t, "https://shop.s3.us-east-1.amazonaws.com/invoices/invoice-3F2A9C1B.pdf", res.ArchiveURL)
	assert.Equal(t, []string{"invoices/invoice-3F2A9C1B.pdf"}, objects.keys)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Invoice #3F2A9C1B from Corner Market", mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "$7.85")
	require.Len(t, mailer.sent[0].attachments, 1)
	assert.Equal(t, "invoice-3F2A9C1B.pdf", mailer.sent[0].attachments[0].Name)

	res, err = svc.SendInvoice(context.Background(), o.ID, domain.SendInvoiceRequest{Email: "boss@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "boss@example.com", res.SentTo)
}

func TestSendInvoiceWithoutEmail(t *testing.T) {
	o := sampleOrder("")
	svc, mailer := newService(map[string]domain.OrderResponse{o.ID: o}, nil)

	_, err := svc.SendInvoice(context.Background(), o.ID, domain.SendInvoiceRequest{})
	assert.ErrorIs(t, err, domain.ErrNoCustomerEmail)
	assert.Empty(t, mailer.sent)
}
