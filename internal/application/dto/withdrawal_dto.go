package dto

import "time"

// WithdrawRequest body para POST /api/withdrawals.
type WithdrawRequest struct {
	SKU            string    `json:"sku"`
	ProductName    string    `json:"product_name"`
	Brand          string    `json:"brand"`
	Quantity       RawNumber `json:"quantity"`
	Responsible    string    `json:"responsible"`
	Location       string    `json:"location"`
	WithdrawalDate string    `json:"withdrawal_date"` // AAAA-MM-DD
}

// WithdrawalResponse registro del ledger.
type WithdrawalResponse struct {
	ID             string    `json:"id"`
	SKU            string    `json:"sku"`
	ProductName    string    `json:"product_name"`
	Brand          string    `json:"brand"`
	Quantity       int       `json:"quantity"`
	Responsible    string    `json:"responsible"`
	Location       string    `json:"location"`
	WithdrawalDate string    `json:"withdrawal_date"`
	CreatedAt      time.Time `json:"created_at"`
	CreatedBy      string    `json:"created_by,omitempty"`
}

// WithdrawalListResponse resultado de GET /api/withdrawals.
type WithdrawalListResponse struct {
	Count   int                  `json:"count"`
	Records []WithdrawalResponse `json:"records"`
}
