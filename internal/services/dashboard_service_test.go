package services

import (
	"errors"
	"testing"
	"time"

	"gold_billing_backend/internal/models"
)

type fakeDashboardRepo struct {
	truncUnit string
	start     time.Time
	end       time.Time
}

func (f *fakeDashboardRepo) SumSales(_, _ *time.Time) (float64, error)  { return 1000, nil }
func (f *fakeDashboardRepo) CountDocuments() (int, int, error)          { return 4, 2, nil }
func (f *fakeDashboardRepo) CountLowStock() (int, error)                { return 3, nil }
func (f *fakeDashboardRepo) CountPendingPayments() (int, error)         { return 1, nil }
func (f *fakeDashboardRepo) CategoryMix() ([]models.CategoryShare, error) {
	return []models.CategoryShare{{Category: "Chains", Count: 2, Percentage: 100}}, nil
}

func (f *fakeDashboardRepo) SalesBuckets(truncUnit string, start, end time.Time) ([]models.SalesBucket, error) {
	f.truncUnit = truncUnit
	f.start = start
	f.end = end
	return []models.SalesBucket{}, nil
}

func TestBucketWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period    string
		wantUnit  string
		wantStart time.Time
	}{
		{PeriodHour, "hour", now.Add(-24 * time.Hour)},
		{PeriodWeek, "day", now.AddDate(0, 0, -7)},
		{PeriodMonth, "day", now.AddDate(0, 0, -30)},
		{"", "day", now.AddDate(0, 0, -30)},
		{PeriodQuarter, "week", now.AddDate(0, 0, -90)},
		{PeriodYear, "month", now.AddDate(-1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run("period "+tt.period, func(t *testing.T) {
			start, end, unit, err := bucketWindow(tt.period, now, "", "")
			if err != nil {
				t.Fatalf("bucketWindow: %v", err)
			}
			if unit != tt.wantUnit {
				t.Errorf("unit = %q, want %q", unit, tt.wantUnit)
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(now) {
				t.Errorf("end = %v, want now", end)
			}
		})
	}
}

func TestBucketWindowCustom(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	start, end, unit, err := bucketWindow(PeriodCustom, now, "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("bucketWindow: %v", err)
	}
	if unit != "day" {
		t.Errorf("unit = %q, want day", unit)
	}
	if start.Format("2006-01-02") != "2026-01-01" {
		t.Errorf("start = %v", start)
	}
	// End bound covers the whole last day.
	if !end.After(time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("end = %v, want end of Jan 31", end)
	}

	for _, tc := range []struct {
		name       string
		start, end string
	}{
		{"missing dates", "", ""},
		{"bad start", "31-01-2026", "2026-01-31"},
		{"bad end", "2026-01-01", "soon"},
		{"reversed range", "2026-02-01", "2026-01-01"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, _, err := bucketWindow(PeriodCustom, now, tc.start, tc.end); !errors.Is(err, ErrValidation) {
				t.Errorf("bucketWindow error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestBucketWindowRejectsUnknownPeriod(t *testing.T) {
	if _, _, _, err := bucketWindow("decade", time.Now(), "", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("bucketWindow error = %v, want ErrValidation", err)
	}
}

func TestGetStatsAssemblesCounters(t *testing.T) {
	repo := &fakeDashboardRepo{}
	svc := NewDashboardService(repo)

	stats, err := svc.GetStats(models.DashboardParams{Period: PeriodWeek})
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.BillCount != 4 || stats.InvoiceCount != 2 {
		t.Errorf("document counts = %d/%d, want 4/2", stats.BillCount, stats.InvoiceCount)
	}
	if stats.LowStockCount != 3 || stats.PendingPaymentsCount != 1 {
		t.Errorf("stock/payment counts = %d/%d", stats.LowStockCount, stats.PendingPaymentsCount)
	}
	if repo.truncUnit != "day" {
		t.Errorf("trunc unit = %q, want day", repo.truncUnit)
	}
	if stats.SalesByPeriod == nil || stats.CategoryMix == nil {
		t.Error("expected non-nil chart slices")
	}
}
