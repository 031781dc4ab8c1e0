package models

import "github.com/shopspring/decimal"

// DashboardStats summarises payment activity for the admin dashboard.
type DashboardStats struct {
	TotalPayments          int64           `json:"total_payments"`
	CompletedPayments      int64           `json:"completed_payments"`
	PendingPayments        int64           `json:"pending_payments"`
	ApprovedPayments       int64           `json:"approved_payments"`
	TotalEarnings          decimal.Decimal `json:"total_earnings"`
	MonthlyEarnings        decimal.Decimal `json:"monthly_earnings"`
	SuccessfulTransactions int64           `json:"successful_transactions"`
	FailedTransactions     int64           `json:"failed_transactions"`
}

// MonthlyEarning is the successful-payment total of one calendar month.
type MonthlyEarning struct {
	// Month is formatted YYYY-MM.
	Month            string          `json:"month"`
	Earnings         decimal.Decimal `json:"earnings"`
	TransactionCount int64           `json:"transaction_count"`
}

// PaymentRequestCounts are raw counters read from the store.
type PaymentRequestCounts struct {
	Total    int64
	ByStatus map[PaymentStatus]int64
	Approved int64
}
