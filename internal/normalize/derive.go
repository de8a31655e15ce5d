package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"salesdash/pkg/models"
)

// DeriveLine turns one raw sales row into a TransactionLine. It never fails:
// malformed cells fall back to their zero value and the row is kept.
func DeriveLine(h Header, f SalesFeatures, row []string, layouts []string) models.TransactionLine {
	rawTime := h.Get(row, ColTime)
	line := models.TransactionLine{
		Folio:           h.Get(row, ColFolio),
		Store:           h.Get(row, ColStore),
		SKU:             h.Get(row, ColSKU),
		Date:            ParseDate(h.Get(row, ColDate), layouts),
		Time:            rawTime,
		Hour:            ParseHour(rawTime),
		Article:         h.Get(row, ColArticle),
		Line:            h.Get(row, ColLine),
		Quantity:        ParseQuantity(h.Get(row, ColQuantity)),
		ListUnitPrice:   ParseCurrency(h.Get(row, ColListPrice)),
		FinalUnitPrice:  ParseCurrency(h.Get(row, ColFinalPrice)),
		DiscountPercent: ParsePercent(h.Get(row, ColDiscountPercent)),
		PriceModified:   ParseFlag(h.Get(row, ColPriceModified)),
		Kind:            ParseMovementKind(h.Get(row, ColMovementKind)),
		Cashier:         h.Get(row, ColCashier),
		Client:          h.Get(row, ColClient),
	}

	switch {
	case f.ComputedAmount:
		line.LineAmount = ParseCurrency(h.Get(row, ColComputedAmount))
	case f.PriceTimesQty:
		line.LineAmount = line.FinalUnitPrice.Mul(line.Quantity)
	default:
		line.LineAmount = decimal.Zero
	}

	if f.MovementKind {
		line.SignedAmount = decimal.NewNullDecimal(SignedAmount(line.LineAmount, line.Kind))
	}

	return line
}

// SignedAmount applies the movement sign: returns are always negative
// regardless of how the export signed the amount.
func SignedAmount(amount decimal.Decimal, kind models.MovementKind) decimal.Decimal {
	if kind == models.MovementReturn {
		return amount.Abs().Neg()
	}
	return amount
}

// DeriveInvoice turns one raw invoice row into an Invoice.
func DeriveInvoice(h Header, row []string, layouts []string) models.Invoice {
	return models.Invoice{
		Folio:    h.Get(row, ColInvoiceFolio),
		Date:     ParseDate(h.Get(row, ColDate), layouts),
		Store:    h.Get(row, ColStore),
		Status:   strings.ToUpper(h.Get(row, ColInvoiceStatus)),
		Total:    ParseCurrency(h.Get(row, ColInvoiceTotal)),
		Subtotal: ParseCurrency(h.Get(row, ColInvoiceSubtotal)),
		Tax:      ParseCurrency(h.Get(row, ColInvoiceTax)),
	}
}

// DeriveClosure turns one raw till-closure row into a TillClosure. When the
// export has no DIFERENCIA column but carries counted and expected cash, the
// difference is derived as counted minus expected.
func DeriveClosure(h Header, f ClosureFeatures, row []string, layouts []string) models.TillClosure {
	closure := models.TillClosure{
		Folio:        h.Get(row, ColClosureFolio),
		Date:         ParseDate(h.Get(row, ColDate), layouts),
		Time:         h.Get(row, ColTime),
		Store:        h.Get(row, ColStore),
		Register:     h.Get(row, ColRegister),
		Cashier:      h.Get(row, ColCashier),
		OpeningFloat: ParseCurrency(h.Get(row, ColOpeningFloat)),
		CountedCash:  ParseCurrency(h.Get(row, ColCounted)),
		ExpectedCash: ParseCurrency(h.Get(row, ColExpected)),
		CashSales:    ParseCurrency(h.Get(row, ColCash)),
		DebitSales:   ParseCurrency(h.Get(row, ColDebit)),
		CreditSales:  ParseCurrency(h.Get(row, ColCredit)),
		NetSales:     ParseCurrency(h.Get(row, ColNetSales)),
		Withdrawals:  ParseCurrency(h.Get(row, ColWithdrawals)),
		Modified:     ParseFlag(h.Get(row, ColModified)),
		ModifiedBy:   h.Get(row, ColModifiedBy),
	}

	switch {
	case f.Difference:
		closure.Difference = ParseCurrency(h.Get(row, ColDifference))
	case f.CountedCash && f.Expected:
		closure.Difference = closure.CountedCash.Sub(closure.ExpectedCash)
	}

	return closure
}
