package routes

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/internal/api/handlers"
	"Supermarket-Vision-Backend/internal/middleware"
	"Supermarket-Vision-Backend/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	ProductHandler      handlers.ProductHandler
	CartHandler         handlers.CartHandler
	OrderHandler        handlers.OrderHandler
	InvoiceHandler      handlers.InvoiceHandler
	RawMaterialHandler  handlers.RawMaterialHandler
	ScannerHandler      handlers.ScannerHandler
	DashboardHandler    handlers.DashboardHandler
	NotificationHandler handlers.NotificationHandler
	AnalyzeHandler      handlers.AnalyzeHandler
	MetricsHandler      fiber.Handler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Functions()
	c.User()
	c.Products()
	c.Carts()
	c.Orders()
	c.Invoices()
	c.RawMaterials()
	c.Scanner()
	c.Dashboard()
	c.Notifications()
}

func (c *Config) auth() fiber.Handler {
	return c.Middleware.AuthMiddleware(c.JWTService)
}

func (c *Config) admin() fiber.Handler {
	return c.Middleware.RequireRole(domain.RoleAdmin)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	if c.MetricsHandler != nil {
		c.App.Get("/metrics", c.MetricsHandler)
	}
	c.App.Post("/webhook/midtrans", c.OrderHandler.PaymentNotification)
}

// Functions serves the inference proxy. It carries no auth; the model key
// never leaves the server.
func (c *Config) Functions() {
	functions := c.App.Group("/functions/v1")
	functions.Post("/analyze-product", c.AnalyzeHandler.AnalyzeProduct)
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.auth(), c.UserHandler.Me)
	}
}

func (c *Config) Products() {
	products := c.App.Group("/api/v1/products", c.auth())
	products.Get("", c.ProductHandler.GetProducts)
	products.Get("/:id", c.ProductHandler.GetProduct)

	products.Post("", c.admin(), c.ProductHandler.AddProduct)
	products.Put("/:id", c.admin(), c.ProductHandler.UpdateProduct)
	products.Delete("/:id", c.admin(), c.ProductHandler.DeleteProduct)
	products.Post("/:id/image", c.admin(), c.ProductHandler.UploadProductImage)
}

func (c *Config) Carts() {
	carts := c.App.Group("/api/v1/carts", c.auth())
	carts.Post("", c.CartHandler.CreateCart)
	carts.Get("/:id", c.CartHandler.GetCart)
	carts.Post("/:id/items", c.CartHandler.AddItem)
	carts.Patch("/:id/items/:product_id", c.CartHandler.UpdateItem)
	carts.Delete("/:id/items/:product_id", c.CartHandler.RemoveItem)
	carts.Post("/:id/checkout", c.CartHandler.Checkout)
}

func (c *Config) Orders() {
	orders := c.App.Group("/api/v1/orders", c.auth())
	orders.Get("", c.OrderHandler.GetOrders)
	orders.Get("/:id", c.OrderHandler.GetOrder)
	orders.Post("/:id/payment", c.OrderHandler.CreatePayment)
}

func (c *Config) Invoices() {
	invoices := c.App.Group("/api/v1/invoices", c.auth())
	invoices.Get("/:order_id/pdf", c.InvoiceHandler.DownloadPDF)
	invoices.Post("/:order_id/send", c.InvoiceHandler.SendInvoice)
}

func (c *Config) RawMaterials() {
	materials := c.App.Group("/api/v1/raw-materials", c.auth())
	materials.Get("", c.RawMaterialHandler.GetRawMaterials)
	materials.Post("", c.admin(), c.RawMaterialHandler.AddRawMaterial)
	materials.Post("/lookup", c.RawMaterialHandler.LookupIngredients)
}

func (c *Config) Scanner() {
	scanner := c.App.Group("/api/v1/scanner", c.auth())
	scanner.Post("/start", c.ScannerHandler.Start)
	scanner.Post("/stop", c.ScannerHandler.Stop)
	scanner.Post("/scan", c.ScannerHandler.Scan)
	scanner.Get("/status", c.ScannerHandler.Status)
	scanner.Get("/detections", c.ScannerHandler.Detections)
}

func (c *Config) Dashboard() {
	c.App.Get("/api/v1/dashboard", c.auth(), c.DashboardHandler.GetDashboard)
}

func (c *Config) Notifications() {
	notifications := c.App.Group("/api/v1/notifications", c.auth())
	notifications.Get("", c.NotificationHandler.GetNotifications)
	notifications.Get("/stream", c.NotificationHandler.Stream)
}
