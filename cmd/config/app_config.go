package config

import (
	"Supermarket-Vision-Backend/internal/api/handlers"
	"Supermarket-Vision-Backend/internal/api/routes"
	"Supermarket-Vision-Backend/internal/metrics"
	"Supermarket-Vision-Backend/internal/middleware"
	"Supermarket-Vision-Backend/internal/utils"
	"Supermarket-Vision-Backend/internal/utils/broker"
	"Supermarket-Vision-Backend/internal/utils/mailing"
	"Supermarket-Vision-Backend/internal/utils/storage"
	"Supermarket-Vision-Backend/pkg/analysis"
	"Supermarket-Vision-Backend/pkg/camera"
	"Supermarket-Vision-Backend/pkg/cart"
	"Supermarket-Vision-Backend/pkg/dashboard"
	"Supermarket-Vision-Backend/pkg/frame"
	"Supermarket-Vision-Backend/pkg/inference"
	"Supermarket-Vision-Backend/pkg/invoice"
	"Supermarket-Vision-Backend/pkg/jwt"
	"Supermarket-Vision-Backend/pkg/midtrans"
	"Supermarket-Vision-Backend/pkg/notification"
	"Supermarket-Vision-Backend/pkg/order"
	"Supermarket-Vision-Backend/pkg/product"
	"Supermarket-Vision-Backend/pkg/rawmaterial"
	"Supermarket-Vision-Backend/pkg/scanner"
	"Supermarket-Vision-Backend/pkg/user"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

const (
	notificationCapacity = 50
	brokerConnectTimeout = 10 * time.Second
)

// App is the HTTP server together with the background services it owns.
type App struct {
	Fiber   *fiber.App
	Scanner scanner.ScannerService
	closers []func()
}

// Close releases the background services in reverse start order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func NewApp(cfg utils.Config, db *gorm.DB) (*App, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         cfg.BodyLimitMB * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.NewValidator()
	result := &App{Fiber: app}

	// setting up logging and limiter
	if err := os.MkdirAll(cfg.LogDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		filepath.Join(cfg.LogDir, "app.log"),
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	result.closers = append(result.closers, func() { _ = file.Close() })

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   cfg.AppTimeZone,
		Output:     file,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitRPS,
		Expiration: 1 * time.Second,
	}))

	// utils
	collectors, err := metrics.New()
	if err != nil {
		return nil, fmt.Errorf("error registering metrics: %w", err)
	}
	s3, err := storage.NewAwsS3(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("error configuring s3: %w", err)
	}
	mailer := mailing.NewMailer(mailing.LoadMailConfig(cfg))
	location := cfg.Location()

	// Repository
	userRepository := user.NewUserRepository(db)
	productRepository := product.NewProductRepository(db)
	orderRepository := order.NewOrderRepository(db)
	rawMaterialRepository := rawmaterial.NewRawMaterialRepository(db)

	// Service
	jwtService := jwt.NewJWTService(cfg.JWTSecret)
	notificationService := notification.NewNotificationService(notificationCapacity)
	provider, err := inference.NewProvider(cfg, &http.Client{Timeout: cfg.AITimeout()})
	if err != nil {
		return nil, err
	}
	inferenceService := inference.NewInferenceService(provider, cfg.AIRateLimitRPS, collectors.Proxy)
	analysisClient := analysis.NewClient(cfg.AnalyzeEndpoint, cfg.AITimeout())

	scannerService := NewScanner(cfg, camera.NewFFmpegDevice(cfg.CameraDevice), analysisClient, notificationService,
		scanner.WithMetrics(collectors.Scanner),
		scanner.WithSinks(brokerSinks(cfg, collectors.Broker, result)...),
	)
	result.Scanner = scannerService
	result.closers = append(result.closers, func() {
		if err := scannerService.Close(); err != nil {
			log.Warnf("scanner close: %v", err)
		}
	})

	userService := user.NewUserService(userRepository, jwtService, cfg.AutoRegister)
	productService := product.NewProductService(productRepository, s3)
	cartService := cart.NewCartService(productRepository, cfg.CartTTL(), cfg.TaxRate)
	orderService := order.NewOrderService(orderRepository, cartService, cfg.AtomicCheckout)
	midtransService := midtrans.NewMidtransService(orderRepository, cfg)
	invoiceService := invoice.NewInvoiceService(orderService, mailer, s3, cfg.StoreName, location)
	rawMaterialService := rawmaterial.NewRawMaterialService(rawMaterialRepository, analysisClient)
	dashboardService := dashboard.NewDashboardService(
		productRepository,
		orderRepository,
		rawMaterialRepository,
		scannerService,
		cfg.LowStockQuantity,
		location,
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	productHandler := handlers.NewProductHandler(productService, validator)
	cartHandler := handlers.NewCartHandler(cartService, orderService, validator)
	orderHandler := handlers.NewOrderHandler(orderService, midtransService, validator)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, validator)
	rawMaterialHandler := handlers.NewRawMaterialHandler(rawMaterialService, validator)
	scannerHandler := handlers.NewScannerHandler(scannerService, validator)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	analyzeHandler := handlers.NewAnalyzeHandler(inferenceService)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		ProductHandler:      productHandler,
		CartHandler:         cartHandler,
		OrderHandler:        orderHandler,
		InvoiceHandler:      invoiceHandler,
		RawMaterialHandler:  rawMaterialHandler,
		ScannerHandler:      scannerHandler,
		DashboardHandler:    dashboardHandler,
		NotificationHandler: notificationHandler,
		AnalyzeHandler:      analyzeHandler,
		MetricsHandler:      collectors.Handler(),
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return result, nil
}

// NewScanner builds the scan loop over device. The HTTP server and the scan
// command share it so both drive the same pipeline.
func NewScanner(
	cfg utils.Config,
	device camera.Device,
	analyzer scanner.Analyzer,
	notifier notification.Notifier,
	opts ...scanner.Option,
) scanner.ScannerService {
	constraints := camera.DefaultConstraints()
	constraints.Width = cfg.CameraWidth
	constraints.Height = cfg.CameraHeight
	adapter := camera.NewAdapter(device, constraints)
	return scanner.NewScannerService(
		adapter,
		frame.NewEncoder(frame.DefaultMaxEdge),
		analyzer,
		notifier,
		scanner.NewDetectionStore(),
		scanner.NewConfig(cfg),
		opts...,
	)
}

// brokerSinks connects the MQTT publisher when a broker is configured. A
// broker that is down at boot is retried in the background by the client.
func brokerSinks(cfg utils.Config, observer broker.Observer, app *App) []scanner.Sink {
	if cfg.MQTTBroker == "" {
		return nil
	}
	publisher := broker.NewPublisher(cfg.MQTTBroker, cfg.MQTTClientID, observer)
	ctx, cancel := context.WithTimeout(context.Background(), brokerConnectTimeout)
	defer cancel()
	if err := publisher.Connect(ctx); err != nil {
		log.Warnf("mqtt broker unavailable, detections will not be published until it reconnects: %v", err)
	}
	app.closers = append(app.closers, publisher.Disconnect)
	return []scanner.Sink{scanner.NewBrokerSink(publisher, cfg.MQTTDetectionsTopic)}
}
