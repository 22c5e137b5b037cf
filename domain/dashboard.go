package domain

var (
	MessageSuccessGetDashboard = "dashboard statistics retrieved successfully"
	MessageFailedGetDashboard  = "failed to retrieve dashboard statistics"
)

type (
	DashboardResponse struct {
		TotalProducts   int64             `json:"total_products"`
		InventoryUnits  int64             `json:"inventory_units"`
		LowStock        []ProductResponse `json:"low_stock"`
		OrdersToday     int64             `json:"orders_today"`
		RevenueToday    float64           `json:"revenue_today"`
		RawMaterials    int64             `json:"raw_materials"`
		Scanner         ScannerStatus     `json:"scanner"`
		RecentDetection []Detection       `json:"recent_detections"`
	}
)
