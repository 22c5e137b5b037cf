package midtrans

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/entities"
	"Supermarket-Vision-Backend/internal/utils"
	"Supermarket-Vision-Backend/pkg/order"
	"context"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"
	"math"
)

type (
	// SnapClient creates hosted payment pages.
	SnapClient interface {
		CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
	}

	// StatusClient looks up the authoritative transaction status.
	StatusClient interface {
		CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
	}

	MidtransService interface {
		CreatePayment(ctx context.Context, orderID string) (domain.PaymentResponse, error)
		HandleNotification(ctx context.Context, req domain.MidtransNotification) (domain.OrderResponse, error)
	}

	midtransService struct {
		orderRepository order.OrderRepository
		snap            SnapClient
		status          StatusClient
	}
)

// NewMidtransService returns nil clients when no server key is configured;
// payment calls then fail with ErrPaymentNotAvailable.
func NewMidtransService(orderRepository order.OrderRepository, cfg utils.Config) MidtransService {
	if cfg.ServerKey == "" {
		return NewMidtransServiceWithClients(orderRepository, nil, nil)
	}

	env := midtrans.Sandbox
	if cfg.IsProd {
		env = midtrans.Production
	}

	var snapClient snap.Client
	snapClient.New(cfg.ServerKey, env)
	var coreClient coreapi.Client
	coreClient.New(cfg.ServerKey, env)

	return NewMidtransServiceWithClients(orderRepository, &snapClient, &coreClient)
}

func NewMidtransServiceWithClients(orderRepository order.OrderRepository, snapClient SnapClient, statusClient StatusClient) MidtransService {
	return &midtransService{
		orderRepository: orderRepository,
		snap:            snapClient,
		status:          statusClient,
	}
}

func (s *midtransService) CreatePayment(ctx context.Context, orderID string) (domain.PaymentResponse, error) {
	if s.snap == nil {
		return domain.PaymentResponse{}, domain.ErrPaymentNotAvailable
	}

	o, err := s.getOrder(ctx, orderID)
	if err != nil {
		return domain.PaymentResponse{}, err
	}

	if o.PaymentToken != "" && o.Status == domain.OrderStatusPending {
		return domain.PaymentResponse{OrderID: orderID, Token: o.PaymentToken, RedirectURL: o.PaymentURL}, nil
	}
	if o.Status == domain.OrderStatusPaid {
		return domain.PaymentResponse{}, fmt.Errorf("%w: order already paid", domain.ErrPaymentFailed)
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  o.ID.String(),
			GrossAmt: int64(math.Round(o.Total)),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: o.CustomerName,
			Email: deref(o.CustomerEmail),
			Phone: deref(o.CustomerPhone),
		},
	}

	res, mErr := s.snap.CreateTransaction(req)
	if mErr != nil {
		log.Errorf("midtrans create transaction for order %s: %s", orderID, mErr.Message)
		return domain.PaymentResponse{}, fmt.Errorf("%w: %s", domain.ErrPaymentFailed, mErr.Message)
	}

	o.PaymentToken = res.Token
	o.PaymentURL = res.RedirectURL
	o.Status = domain.OrderStatusPending
	if err := s.orderRepository.UpdateOrder(ctx, o); err != nil {
		return domain.PaymentResponse{}, err
	}

	return domain.PaymentResponse{
		OrderID:     orderID,
		Token:       res.Token,
		RedirectURL: res.RedirectURL,
	}, nil
}

// HandleNotification re-reads the transaction from Midtrans instead of
// trusting the notification body, then moves the order to its new status.
func (s *midtransService) HandleNotification(ctx context.Context, req domain.MidtransNotification) (domain.OrderResponse, error) {
	if s.status == nil {
		return domain.OrderResponse{}, domain.ErrPaymentNotAvailable
	}

	o, err := s.getOrder(ctx, req.OrderID)
	if err != nil {
		return domain.OrderResponse{}, err
	}

	res, mErr := s.status.CheckTransaction(req.OrderID)
	if mErr != nil {
		return domain.OrderResponse{}, fmt.Errorf("%w: %s", domain.ErrPaymentFailed, mErr.Message)
	}

	status := OrderStatus(res.TransactionStatus, res.FraudStatus)
	if status != "" && status != o.Status {
		o.Status = status
		if err := s.orderRepository.UpdateOrder(ctx, o); err != nil {
			return domain.OrderResponse{}, err
		}
		log.Infof("order %s is now %s", o.ID, status)
	}

	return order.ToOrderResponse(o), nil
}

// OrderStatus maps a Midtrans transaction status to an order status. An
// empty result leaves the order unchanged.
func OrderStatus(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return domain.OrderStatusPending
		}
		if fraudStatus == "accept" || fraudStatus == "" {
			return domain.OrderStatusPaid
		}
		return domain.OrderStatusFailed
	case "settlement":
		return domain.OrderStatusPaid
	case "pending":
		return domain.OrderStatusPending
	case "deny", "cancel", "expire", "failure":
		return domain.OrderStatusFailed
	}
	return ""
}

func (s *midtransService) getOrder(ctx context.Context, id string) (*entities.Order, error) {
	o, err := s.orderRepository.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
