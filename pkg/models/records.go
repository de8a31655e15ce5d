package models

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// MovementKind classifies a transaction line.
type MovementKind string

const (
	MovementSale   MovementKind = "SALE"
	MovementReturn MovementKind = "RETURN"
	MovementOther  MovementKind = "OTHER"
)

// TransactionLine is one normalized row of the sales export.
type TransactionLine struct {
	// Identity
	Folio string // Ticket folio, shared by all lines of a ticket
	Store string // SUCURSAL
	SKU   string // CLAVE

	// When
	Date civil.Date // Zero when the source date could not be parsed
	Time string     // Raw time-of-day as exported
	Hour int        // 0-23, 0 when unparsable

	// Product
	Article string
	Line    string

	// Quantities and prices
	Quantity        decimal.Decimal
	ListUnitPrice   decimal.Decimal // PRECIO_UNITARIO, zero when the column is absent
	FinalUnitPrice  decimal.Decimal
	DiscountPercent decimal.Decimal
	PriceModified   bool

	// Movement
	Kind    MovementKind
	Cashier string
	Client  string

	// Derived amounts
	LineAmount decimal.Decimal
	// SignedAmount is only valid when the export carries a movement-kind column.
	SignedAmount decimal.NullDecimal
}

// Signed returns the signed amount, falling back to the unsigned line amount
// for exports without a movement-kind column.
func (t *TransactionLine) Signed() decimal.Decimal {
	if t.SignedAmount.Valid {
		return t.SignedAmount.Decimal
	}
	return t.LineAmount
}

// IsReturn reports whether the line is a return movement.
func (t *TransactionLine) IsReturn() bool {
	return t.Kind == MovementReturn
}

// IsSale reports whether the line is a sale movement.
func (t *TransactionLine) IsSale() bool {
	return t.Kind == MovementSale
}

// Invoice is one normalized row of the invoice export.
type Invoice struct {
	Folio    string // FOLIO_INTERNO
	Date     civil.Date
	Store    string // Empty when the export has no store column
	Status   string // Raw, uppercased
	Total    decimal.Decimal
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
}

// IsCancelled reports whether the invoice status marks it as voided.
func (i *Invoice) IsCancelled() bool {
	switch strings.ToUpper(strings.TrimSpace(i.Status)) {
	case "CANCELADA", "CANCELADO", "CANCELLED", "CANCELED":
		return true
	}
	return false
}

// TillClosure is one normalized row of the till-closure export.
type TillClosure struct {
	Folio    string // FOLIO_CORTE
	Date     civil.Date
	Time     string
	Store    string
	Register string // CAJA
	Cashier  string

	OpeningFloat decimal.Decimal // FONDO_INICIAL
	CountedCash  decimal.Decimal // REAL_CONTADO, zero when absent
	ExpectedCash decimal.Decimal // SISTEMA_DE_EFECTIVO, zero when absent
	CashSales    decimal.Decimal // PAGO_EFECTIVO_CALC
	DebitSales   decimal.Decimal
	CreditSales  decimal.Decimal
	NetSales     decimal.Decimal // VENTAS_TOTALES_NETAS
	Withdrawals  decimal.Decimal // RETIROS
	Difference   decimal.Decimal // counted - expected

	Modified   bool
	ModifiedBy string
}

// CardSales returns debit plus credit card sales.
func (c *TillClosure) CardSales() decimal.Decimal {
	return c.DebitSales.Add(c.CreditSales)
}
