package reconciliation

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// CashStatus labels the sign of a cashier's net difference.
type CashStatus string

const (
	Surplus  CashStatus = "SURPLUS"  // counted >= expected
	Shortage CashStatus = "SHORTAGE" // counted < expected
)

// CashierRollup aggregates closures per (store, cashier).
type CashierRollup struct {
	Store      string          `json:"store"`
	Cashier    string          `json:"cashier"`
	Closures   int             `json:"closures"`
	NetSales   decimal.Decimal `json:"net_sales"`
	Difference decimal.Decimal `json:"difference"`
	Status     CashStatus      `json:"status"`
}

// Alert is a closure that needs a supervisor's attention.
type Alert struct {
	Date       civil.Date      `json:"date"`
	Time       string          `json:"time"`
	Store      string          `json:"store"`
	Register   string          `json:"register"`
	Cashier    string          `json:"cashier"`
	NetSales   decimal.Decimal `json:"net_sales"`
	Difference decimal.Decimal `json:"difference"`
	Modified   bool            `json:"modified"`
	ModifiedBy string          `json:"modified_by,omitempty"`
}

// Audit counts suspicious transaction lines.
type Audit struct {
	PriceModified   int `json:"price_modified"`
	HighDiscount    int `json:"high_discount"`
	ZeroAmountSales int `json:"zero_amount_sales"`
	ReturnTickets   int `json:"return_tickets"`
}

// CashierSales is line-level revenue attributed to a cashier.
type CashierSales struct {
	Store   string          `json:"store"`
	Cashier string          `json:"cashier"`
	Amount  decimal.Decimal `json:"amount"`
}

// ClientSales is line-level revenue attributed to a client.
type ClientSales struct {
	Client string          `json:"client"`
	Amount decimal.Decimal `json:"amount"`
}

// ReturnDetail is one returned line.
type ReturnDetail struct {
	Date     civil.Date      `json:"date"`
	Time     string          `json:"time"`
	Store    string          `json:"store"`
	Cashier  string          `json:"cashier"`
	Folio    string          `json:"folio"`
	Article  string          `json:"article"`
	Quantity decimal.Decimal `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// Report is the cash reconciliation view of a period.
type Report struct {
	Balance          decimal.Decimal `json:"balance"`
	Closures         int             `json:"closures"`
	Modified         int             `json:"modified"`
	Withdrawals      decimal.Decimal `json:"withdrawals"`
	ExcludedOutliers int             `json:"excluded_outliers"`

	Cashiers []CashierRollup `json:"cashiers"`
	Alerts   []Alert         `json:"alerts"`
	Audit    Audit           `json:"audit"`

	SalesByCashier []CashierSales `json:"sales_by_cashier"`
	TopClients     []ClientSales  `json:"top_clients"`
	Returns        []ReturnDetail `json:"returns"`
}
