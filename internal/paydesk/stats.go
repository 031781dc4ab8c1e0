package paydesk

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ei-sanu/someshprofile/internal/models"
)

const (
	defaultEarningsMonths = 6
	maxEarningsMonths     = 24
)

func (p *Paydesk) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	counts, err := p.repo.CountPaymentRequests(ctx)
	if err != nil {
		return nil, err
	}
	txCounts, err := p.repo.CountTransactionsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	successful, err := p.repo.ListSuccessfulTransactionsSince(ctx, time.Time{})
	if err != nil {
		return nil, err
	}

	var pending int64
	for _, status := range []models.PaymentStatus{models.StatusPendingClientReview, models.StatusClientSubmitted, models.StatusPaymentPending} {
		pending += counts.ByStatus[status]
	}

	monthStart := startOfMonth(p.now())
	stats := &models.DashboardStats{
		TotalPayments:          counts.Total,
		CompletedPayments:      counts.ByStatus[models.StatusCompleted],
		PendingPayments:        pending,
		ApprovedPayments:       counts.Approved,
		TotalEarnings:          decimal.Zero,
		MonthlyEarnings:        decimal.Zero,
		SuccessfulTransactions: txCounts[models.TransactionSuccess],
		FailedTransactions:     txCounts[models.TransactionFailed],
	}
	for _, txn := range successful {
		stats.TotalEarnings = stats.TotalEarnings.Add(txn.Amount)
		if !txn.UpdatedAt.Before(monthStart) {
			stats.MonthlyEarnings = stats.MonthlyEarnings.Add(txn.Amount)
		}
	}
	return stats, nil
}

// MonthlyEarnings returns one bucket per calendar month, oldest first,
// ending with the current month. Months without payments are zero.
func (p *Paydesk) MonthlyEarnings(ctx context.Context, months int) ([]models.MonthlyEarning, error) {
	if months <= 0 {
		months = defaultEarningsMonths
	}
	if months > maxEarningsMonths {
		months = maxEarningsMonths
	}

	since := startOfMonth(p.now()).AddDate(0, -(months - 1), 0)
	successful, err := p.repo.ListSuccessfulTransactionsSince(ctx, since)
	if err != nil {
		return nil, err
	}

	buckets := make([]models.MonthlyEarning, months)
	index := make(map[string]int, months)
	for i := range buckets {
		month := since.AddDate(0, i, 0).Format("2006-01")
		buckets[i] = models.MonthlyEarning{Month: month, Earnings: decimal.Zero}
		index[month] = i
	}
	for _, txn := range successful {
		i, ok := index[txn.UpdatedAt.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		buckets[i].Earnings = buckets[i].Earnings.Add(txn.Amount)
		buckets[i].TransactionCount++
	}
	return buckets, nil
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
