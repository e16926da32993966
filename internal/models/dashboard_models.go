package models

// SalesBucket is one point of the dashboard sales chart.
type SalesBucket struct {
	Label      string  `json:"label"` // bucket start, formatted per period granularity
	TotalSales float64 `json:"total_sales"`
	Count      int     `json:"count"`
}

// CategoryShare is one slice of the product-mix breakdown.
type CategoryShare struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DashboardStats holds the aggregated metrics served by GET /api/dashboard.
type DashboardStats struct {
	TotalSales           float64         `json:"total_sales"`
	SalesToday           float64         `json:"sales_today"`
	SalesThisMonth       float64         `json:"sales_this_month"`
	BillCount            int             `json:"bill_count"`
	InvoiceCount         int             `json:"invoice_count"`
	LowStockCount        int             `json:"low_stock_count"`
	PendingPaymentsCount int             `json:"pending_payments_count"`
	SalesByPeriod        []SalesBucket   `json:"sales_by_period"`
	CategoryMix          []CategoryShare `json:"category_mix"`
}

// DashboardParams holds the query parameters of the dashboard endpoint.
type DashboardParams struct {
	Period    string `form:"period"` // hour, week, month, quarter, year, custom
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}
