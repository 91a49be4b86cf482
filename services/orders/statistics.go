package orders

import (
	"context"
	"time"

	"github.com/devahmid/27Degres-bis-sub001/database"
	"github.com/devahmid/27Degres-bis-sub001/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// statsMonths is the length of the monthly revenue series, current month included.
const statsMonths = 6

type MonthlyRevenue struct {
	Month   string          `json:"month"` // YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}

type Statistics struct {
	TotalOrders    int64                        `json:"total_orders"`
	TotalRevenue   decimal.Decimal              `json:"total_revenue"`
	PendingOrders  int64                        `json:"pending_orders"`
	TotalItemsSold int64                        `json:"total_items_sold"`
	OrdersByStatus map[models.OrderStatus]int64 `json:"orders_by_status"`
	MonthlyRevenue []MonthlyRevenue             `json:"monthly_revenue"`
}

// Statistics aggregates the order book from a single consistent snapshot. Revenue
// only counts paid orders; the monthly series covers the last six calendar months,
// oldest first, with empty months reported as zero.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month()-(statsMonths-1), 1, 0, 0, 0, 0, time.UTC)

	stats := &Statistics{
		TotalRevenue:   decimal.Zero,
		OrdersByStatus: make(map[models.OrderStatus]int64, len(models.OrderStatuses)),
		MonthlyRevenue: make([]MonthlyRevenue, statsMonths),
	}
	for _, st := range models.OrderStatuses {
		stats.OrdersByStatus[st] = 0
	}
	buckets := make(map[string]*MonthlyRevenue, statsMonths)
	for i := range stats.MonthlyRevenue {
		m := &stats.MonthlyRevenue[i]
		m.Month = start.AddDate(0, i, 0).Format("2006-01")
		m.Revenue = decimal.Zero
		buckets[m.Month] = m
	}

	err := database.Snapshot(ctx, s.db, func(tx *gorm.DB) error {
		var byStatus []struct {
			Status models.OrderStatus
			Count  int64
		}
		if err := tx.Model(&models.Order{}).
			Select("status, COUNT(*) AS count").
			Group("status").
			Scan(&byStatus).Error; err != nil {
			return err
		}
		for _, row := range byStatus {
			stats.OrdersByStatus[row.Status] = row.Count
			stats.TotalOrders += row.Count
		}
		stats.PendingOrders = stats.OrdersByStatus[models.OrderStatusPending]

		if err := tx.Model(&models.OrderItem{}).
			Select("COALESCE(SUM(quantity), 0)").
			Row().Scan(&stats.TotalItemsSold); err != nil {
			return err
		}

		var paid []models.Order
		if err := tx.Select("id", "total_amount", "created_at").
			Where("payment_status = ?", models.PaymentStatusPaid).
			Find(&paid).Error; err != nil {
			return err
		}
		for _, o := range paid {
			stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
			if m, ok := buckets[o.CreatedAt.UTC().Format("2006-01")]; ok {
				m.Revenue = m.Revenue.Add(o.TotalAmount)
				m.Orders++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
