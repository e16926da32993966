package services

import (
	"fmt"
	"time"

	"gold_billing_backend/internal/models"
	"gold_billing_backend/internal/repositories"
)

// Dashboard periods.
const (
	PeriodHour    = "hour"
	PeriodWeek    = "week"
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
	PeriodYear    = "year"
	PeriodCustom  = "custom"
)

type DashboardService interface {
	GetStats(params models.DashboardParams) (*models.DashboardStats, error)
}

type dashboardService struct {
	dashboardRepo repositories.DashboardRepository
}

func NewDashboardService(dashboardRepo repositories.DashboardRepository) DashboardService {
	return &dashboardService{dashboardRepo: dashboardRepo}
}

// bucketWindow maps a period name onto a time range and a date_trunc unit.
// The unit is an allow-listed constant, never user input.
func bucketWindow(period string, now time.Time, startDate, endDate string) (start, end time.Time, truncUnit string, err error) {
	end = now
	switch period {
	case PeriodHour:
		return now.Add(-24 * time.Hour), end, "hour", nil
	case PeriodWeek:
		return now.AddDate(0, 0, -7), end, "day", nil
	case PeriodMonth, "":
		return now.AddDate(0, 0, -30), end, "day", nil
	case PeriodQuarter:
		return now.AddDate(0, 0, -90), end, "week", nil
	case PeriodYear:
		return now.AddDate(-1, 0, 0), end, "month", nil
	case PeriodCustom:
		if startDate == "" || endDate == "" {
			return start, end, "", fmt.Errorf("%w: custom period requires start_date and end_date", ErrValidation)
		}
		s, perr := time.Parse("2006-01-02", startDate)
		if perr != nil {
			return start, end, "", fmt.Errorf("%w: invalid start_date %q", ErrValidation, startDate)
		}
		e, perr := time.Parse("2006-01-02", endDate)
		if perr != nil {
			return start, end, "", fmt.Errorf("%w: invalid end_date %q", ErrValidation, endDate)
		}
		if e.Before(s) {
			return start, end, "", fmt.Errorf("%w: end_date is before start_date", ErrValidation)
		}
		// Inclusive day bounds.
		return s, e.AddDate(0, 0, 1).Add(-time.Nanosecond), "day", nil
	default:
		return start, end, "", fmt.Errorf("%w: invalid period %q", ErrValidation, period)
	}
}

func (s *dashboardService) GetStats(params models.DashboardParams) (*models.DashboardStats, error) {
	now := time.Now()
	start, end, truncUnit, err := bucketWindow(params.Period, now, params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}

	totalSales, err := s.dashboardRepo.SumSales(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to sum total sales: %w", err)
	}

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	salesToday, err := s.dashboardRepo.SumSales(&todayStart, &now)
	if err != nil {
		return nil, fmt.Errorf("failed to sum today's sales: %w", err)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	salesThisMonth, err := s.dashboardRepo.SumSales(&monthStart, &now)
	if err != nil {
		return nil, fmt.Errorf("failed to sum this month's sales: %w", err)
	}

	billCount, invoiceCount, err := s.dashboardRepo.CountDocuments()
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	lowStockCount, err := s.dashboardRepo.CountLowStock()
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock products: %w", err)
	}

	pendingCount, err := s.dashboardRepo.CountPendingPayments()
	if err != nil {
		return nil, fmt.Errorf("failed to count pending payments: %w", err)
	}

	buckets, err := s.dashboardRepo.SalesBuckets(truncUnit, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales buckets: %w", err)
	}

	categoryMix, err := s.dashboardRepo.CategoryMix()
	if err != nil {
		return nil, fmt.Errorf("failed to get category mix: %w", err)
	}

	return &models.DashboardStats{
		TotalSales:           totalSales,
		SalesToday:           salesToday,
		SalesThisMonth:       salesThisMonth,
		BillCount:            billCount,
		InvoiceCount:         invoiceCount,
		LowStockCount:        lowStockCount,
		PendingPaymentsCount: pendingCount,
		SalesByPeriod:        buckets,
		CategoryMix:          categoryMix,
	}, nil
}
