package dashboard

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/pkg/order"
	"Supermarket-Vision-Backend/pkg/product"
	"Supermarket-Vision-Backend/pkg/rawmaterial"
	"Supermarket-Vision-Backend/pkg/scanner"
	"context"
	"github.com/gofiber/fiber/v2/log"
	"time"
)

const lowStockListSize = 10

type (
	DashboardService interface {
		GetDashboard(ctx context.Context) (domain.DashboardResponse, error)
	}

	dashboardService struct {
		productRepository     product.ProductRepository
		orderRepository       order.OrderRepository
		rawMaterialRepository rawmaterial.RawMaterialRepository
		scannerService        scanner.ScannerService
		lowStockQuantity      int
		location              *time.Location
		now                   func() time.Time
	}
)

func NewDashboardService(
	productRepository product.ProductRepository,
	orderRepository order.OrderRepository,
	rawMaterialRepository rawmaterial.RawMaterialRepository,
	scannerService scanner.ScannerService,
	lowStockQuantity int,
	location *time.Location,
) DashboardService {
	if location == nil {
		location = time.Local
	}
	return &dashboardService{
		productRepository:     productRepository,
		orderRepository:       orderRepository,
		rawMaterialRepository: rawMaterialRepository,
		scannerService:        scannerService,
		lowStockQuantity:      lowStockQuantity,
		location:              location,
		now:                   time.Now,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context) (domain.DashboardResponse, error) {
	products, units, err := s.productRepository.GetInventoryTotals(ctx)
	if err != nil {
		return domain.DashboardResponse{}, err
	}

	lowStock, err := s.productRepository.GetLowStock(ctx, s.lowStockQuantity, lowStockListSize)
	if err != nil {
		return domain.DashboardResponse{}, err
	}

	now := s.now().In(s.location)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	orders, revenue, err := s.orderRepository.GetSalesSince(ctx, midnight)
	if err != nil {
		return domain.DashboardResponse{}, err
	}

	rawMaterials, err := s.rawMaterialRepository.CountRawMaterials(ctx)
	if err != nil {
		return domain.DashboardResponse{}, err
	}

	res := domain.DashboardResponse{
		TotalProducts:   products,
		InventoryUnits:  units,
		LowStock:        make([]domain.ProductResponse, 0, len(lowStock)),
		OrdersToday:     orders,
		RevenueToday:    revenue,
		RawMaterials:    rawMaterials,
		RecentDetection: []domain.Detection{},
	}
	for _, p := range lowStock {
		res.LowStock = append(res.LowStock, product.ToProductResponse(p))
	}

	if s.scannerService != nil {
		status, err := s.scannerService.Status(ctx)
		if err != nil {
			log.Warnf("dashboard: scanner status unavailable: %v", err)
			status = domain.ScannerStatus{State: domain.ScannerIdle}
		}
		res.Scanner = status
		if current := s.scannerService.Detections().Current; current != nil {
			res.RecentDetection = current
		}
	}

	return res, nil
}
