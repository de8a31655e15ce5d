package normalize

import "strings"

// Sales export columns
const (
	ColDate            = "FECHA"
	ColTime            = "HORA"
	ColStore           = "SUCURSAL"
	ColFolio           = "FOLIO"
	ColSKU             = "CLAVE"
	ColArticle         = "ARTICULO"
	ColLine            = "LINEA"
	ColQuantity        = "CANTIDAD"
	ColListPrice       = "PRECIO_UNITARIO"
	ColFinalPrice      = "PRECIO_UNITARIO_FINAL"
	ColComputedAmount  = "IMPORTE_RENGLON_CALC"
	ColMovementKind    = "TIPO_MOV"
	ColCashier         = "CAJERO"
	ColClient          = "CLIENTE"
	ColDiscountPercent = "%_DESCUENTO"
	ColPriceModified   = "MODIF_PRECIO"
)

// Invoice export columns
const (
	ColInvoiceFolio    = "FOLIO_INTERNO"
	ColInvoiceStatus   = "ESTATUS"
	ColInvoiceTotal    = "TOTAL_FACTURA"
	ColInvoiceSubtotal = "SUBTOTAL_FACTURA"
	ColInvoiceTax      = "IMPUESTOS_FACTURA"
)

// Till-closure export columns
const (
	ColClosureFolio = "FOLIO_CORTE"
	ColRegister     = "CAJA"
	ColNetSales     = "VENTAS_TOTALES_NETAS"
	ColDebit        = "PAGO_DEBITO"
	ColCredit       = "PAGO_CREDITO"
	ColCash         = "PAGO_EFECTIVO_CALC"
	ColWithdrawals  = "RETIROS"
	ColOpeningFloat = "FONDO_INICIAL"
	ColDifference   = "DIFERENCIA"
	ColCounted      = "REAL_CONTADO"
	ColExpected     = "SISTEMA_DE_EFECTIVO"
	ColModified     = "FUE_MODIFICADO"
	ColModifiedBy   = "USUARIO_MODIF"
)

// Header maps trimmed column names to their position in a row.
type Header struct {
	index map[string]int
}

// NewHeader indexes a header row. Names are trimmed and a leading UTF-8 BOM
// is dropped; the first occurrence of a duplicated name wins.
func NewHeader(row []string) Header {
	index := make(map[string]int, len(row))
	for i, name := range row {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	return Header{index: index}
}

// Has reports whether the column is present.
func (h Header) Has(name string) bool {
	_, ok := h.index[name]
	return ok
}

// Get returns the trimmed cell for the column, or "" when the column or the
// cell is missing.
func (h Header) Get(row []string, name string) string {
	i, ok := h.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// SalesFeatures describes which optional capabilities a sales export offers.
// It is computed once per load and drives every downstream branch.
type SalesFeatures struct {
	MovementKind   bool `json:"movement_kind"`
	ComputedAmount bool `json:"computed_amount"`
	PriceTimesQty  bool `json:"price_times_qty"`
	ListPrice      bool `json:"list_price"`
	Cashier        bool `json:"cashier"`
	Client         bool `json:"client"`
	Discount       bool `json:"discount"`
	PriceModified  bool `json:"price_modified"`
	Time           bool `json:"time"`
	Line           bool `json:"line"`
}

// DetectSalesFeatures builds the capability descriptor for a sales header.
func DetectSalesFeatures(h Header) SalesFeatures {
	return SalesFeatures{
		MovementKind:   h.Has(ColMovementKind),
		ComputedAmount: h.Has(ColComputedAmount),
		PriceTimesQty:  h.Has(ColFinalPrice) && h.Has(ColQuantity),
		ListPrice:      h.Has(ColListPrice),
		Cashier:        h.Has(ColCashier),
		Client:         h.Has(ColClient),
		Discount:       h.Has(ColDiscountPercent),
		PriceModified:  h.Has(ColPriceModified),
		Time:           h.Has(ColTime),
		Line:           h.Has(ColLine),
	}
}

// InvoiceFeatures describes the optional columns of an invoice export.
type InvoiceFeatures struct {
	Store  bool `json:"store"`
	Total  bool `json:"total"`
	Status bool `json:"status"`
}

// DetectInvoiceFeatures builds the capability descriptor for an invoice header.
func DetectInvoiceFeatures(h Header) InvoiceFeatures {
	return InvoiceFeatures{
		Store:  h.Has(ColStore),
		Total:  h.Has(ColInvoiceTotal),
		Status: h.Has(ColInvoiceStatus),
	}
}

// ClosureFeatures describes the optional columns of a till-closure export.
type ClosureFeatures struct {
	Difference  bool `json:"difference"`
	CountedCash bool `json:"counted_cash"`
	Expected    bool `json:"expected_cash"`
	Modified    bool `json:"modified"`
}

// DetectClosureFeatures builds the capability descriptor for a closure header.
func DetectClosureFeatures(h Header) ClosureFeatures {
	return ClosureFeatures{
		Difference:  h.Has(ColDifference),
		CountedCash: h.Has(ColCounted),
		Expected:    h.Has(ColExpected),
		Modified:    h.Has(ColModified),
	}
}
