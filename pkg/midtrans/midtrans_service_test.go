package midtrans

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/entities"
	"Supermarket-Vision-Backend/internal/utils"
	"Supermarket-Vision-Backend/internal/utils/testdb"
	"Supermarket-Vision-Backend/pkg/order"
	"context"
	"testing"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnap struct {
	requests []*snap.Request
	err      *midtrans.Error
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &snap.Response{Token: "tok-1", RedirectURL: "https://pay.test/tok-1"}, nil
}

type fakeStatus struct {
	status string
	fraud  string
}

func (f *fakeStatus) CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, *midtrans.Error) {
	return &coreapi.TransactionStatusResponse{OrderID: orderID, TransactionStatus: f.status, FraudStatus: f.fraud}, nil
}

func seedOrder(t *testing.T, repo order.OrderRepository) *entities.Order {
	t.Helper()
	email := "jane@example.com"
	o := &entities.Order{CustomerName: "Jane", CustomerEmail: &email, Subtotal: 7.27, Tax: 0.5816, Total: 7.8516, Status: domain.OrderStatusCompleted}
	require.NoError(t, repo.CreateOrder(context.Background(), o))
	return o
}

func TestCreatePayment(t *testing.T) {
	repo := order.NewOrderRepository(testdb.New(t))
	snapClient := &fakeSnap{}
	svc := NewMidtransServiceWithClients(repo, snapClient, &fakeStatus{})
	o := seedOrder(t, repo)
	ctx := context.Background()

	res, err := svc.CreatePayment(ctx, o.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, "https://pay.test/tok-1", res.RedirectURL)

	require.Len(t, snapClient.requests, 1)
	assert.Equal(t, int64(8), snapClient.requests[0].TransactionDetails.GrossAmt)
	assert.Equal(t, "jane@example.com", snapClient.requests[0].CustomerDetail.Email)

	stored, err := repo.GetOrderByID(ctx, o.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, stored.Status)
	assert.Equal(t, "tok-1", stored.PaymentToken)

	// A pending order reuses its link.
	_, err = svc.CreatePayment(ctx, o.ID.String())
	require.NoError(t, err)
	assert.Len(t, snapClient.requests, 1)
}

func TestCreatePaymentErrors(t *testing.T) {
	repo := order.NewOrderRepository(testdb.New(t))
	ctx := context.Background()

	disabled := NewMidtransService(repo, utils.Config{})
	_, err := disabled.CreatePayment(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrPaymentNotAvailable)

	svc := NewMidtransServiceWithClients(repo, &fakeSnap{err: &midtrans.Error{Message: "bad key", StatusCode: 401}}, &fakeStatus{})
	_, err = svc.CreatePayment(ctx, "00000000-0000-0000-0000-000000000001")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	o := seedOrder(t, repo)
	_, err = svc.CreatePayment(ctx, o.ID.String())
	assert.ErrorIs(t, err, domain.ErrPaymentFailed)
	assert.ErrorContains(t, err, "bad key")
}

func TestHandleNotification(t *testing.T) {
	repo := order.NewOrderRepository(testdb.New(t))
	status := &fakeStatus{status: "settlement"}
	svc := NewMidtransServiceWithClients(repo, &fakeSnap{}, status)
	o := seedOrder(t, repo)

	res, err := svc.HandleNotification(context.Background(), domain.MidtransNotification{
		OrderID:           o.ID.String(),
		TransactionStatus: "pending",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, res.Status)
}

func TestOrderStatus(t *testing.T) {
	cases := []struct {
		status, fraud, want string
	}{
		{"capture", "accept", domain.OrderStatusPaid},
		{"capture", "challenge", domain.OrderStatusPending},
		{"settlement", "", domain.OrderStatusPaid},
		{"pending", "", domain.OrderStatusPending},
		{"expire", "", domain.OrderStatusFailed},
		{"deny", "", domain.OrderStatusFailed},
		{"refund", "", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, OrderStatus(tc.status, tc.fraud), tc.status+"/"+tc.fraud)
	}
}
