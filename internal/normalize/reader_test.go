package normalize

import (
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/pkg/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestReadSalesDerivesAmounts(t *testing.T) {
	csvData := " FECHA , HORA ,SUCURSAL,FOLIO,CLAVE,ARTICULO,LINEA,CANTIDAD,PRECIO_UNITARIO_FINAL,TIPO_MOV,CAJERO,CLIENTE,%_DESCUENTO,MODIF_PRECIO\n" +
		"2024-03-01,2:30 PM,Centro,A1,SKU1,Martillo,Herramienta,2,\"$1,000.00\",VENTA,Ana,Publico,10%,NO\n" +
		"2024-03-01,15:10,Centro,A2,SKU1,Martillo,Herramienta,1,$100.00,DEVOLUCION,Ana,Publico,0%,SI\n" +
		"\n" +
		"bad-date,x,Centro,A3,SKU2,Clavo,Ferreteria,oops,$abc,VENTA,Ana,,,\n"

	sales, err := NewReader(nil).ReadSales(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, sales.Lines, 3)

	assert.True(t, sales.Features.MovementKind)
	assert.False(t, sales.Features.ComputedAmount)
	assert.True(t, sales.Features.PriceTimesQty)

	sale := sales.Lines[0]
	assert.Equal(t, civil.Date{Year: 2024, Month: 3, Day: 1}, sale.Date)
	assert.Equal(t, 14, sale.Hour)
	assert.True(t, sale.LineAmount.Equal(dec("2000")))
	require.True(t, sale.SignedAmount.Valid)
	assert.True(t, sale.SignedAmount.Decimal.Equal(dec("2000")))
	assert.True(t, sale.DiscountPercent.Equal(dec("10")))

	ret := sales.Lines[1]
	assert.Equal(t, models.MovementReturn, ret.Kind)
	assert.True(t, ret.PriceModified)
	assert.True(t, ret.SignedAmount.Decimal.Equal(dec("-100")))

	broken := sales.Lines[2]
	assert.True(t, broken.Date.IsZero())
	assert.Equal(t, 0, broken.Hour)
	assert.True(t, broken.LineAmount.IsZero())
}

func TestReadSalesPrefersComputedAmount(t *testing.T) {
	csvData := "FECHA,FOLIO,CANTIDAD,PRECIO_UNITARIO_FINAL,IMPORTE_RENGLON_CALC,TIPO_MOV\n" +
		"2024-03-01,A1,2,$10.00,$19.00,VENTA\n" +
		"2024-03-01,A2,1,$10.00,-$25.00,DEVOLUCION\n" +
		"2024-03-01,A3,1,$10.00,-$25.00,DEVOLUCION\n"

	sales, err := NewReader(nil).ReadSales(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.True(t, sales.Lines[0].LineAmount.Equal(dec("19")))
	// already-negative returns are not negated twice
	assert.True(t, sales.Lines[1].SignedAmount.Decimal.Equal(dec("-25")))
	assert.True(t, sales.Lines[2].Signed().Equal(dec("-25")))
}

func TestReadSalesWithoutMovementColumn(t *testing.T) {
	csvData := "FECHA,FOLIO,CANTIDAD\n2024-03-01,A1,2\n"

	sales, err := NewReader(nil).ReadSales(strings.NewReader(csvData))
	require.NoError(t, err)

	line := sales.Lines[0]
	assert.False(t, line.SignedAmount.Valid)
	assert.True(t, line.LineAmount.IsZero())
	assert.False(t, sales.Features.PriceTimesQty)
}

func TestReadInvoices(t *testing.T) {
	csvData := "FECHA,FOLIO_INTERNO,ESTATUS,TOTAL_FACTURA,SUBTOTAL_FACTURA,IMPUESTOS_FACTURA\n" +
		"2024-03-01,F1,vigente,$116.00,$100.00,$16.00\n" +
		"2024-03-02,F2,Cancelada,$50.00,,\n"

	invoices, err := NewReader(nil).ReadInvoices(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, invoices.Rows, 2)

	assert.False(t, invoices.Features.Store)
	assert.Equal(t, "VIGENTE", invoices.Rows[0].Status)
	assert.True(t, invoices.Rows[0].Tax.Equal(dec("16")))
	assert.True(t, invoices.Rows[1].IsCancelled())
}

func TestReadClosuresDerivesDifference(t *testing.T) {
	csvData := "FECHA,HORA,SUCURSAL,FOLIO_CORTE,CAJA,CAJERO,VENTAS_TOTALES_NETAS,REAL_CONTADO,SISTEMA_DE_EFECTIVO,FUE_MODIFICADO\n" +
		"2024-03-01,21:00,Centro,C1,1,Ana,\"$5,000.00\",$980.00,\"$1,000.00\",SI\n"

	closures, err := NewReader(nil).ReadClosures(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, closures.Rows, 1)

	c := closures.Rows[0]
	assert.False(t, closures.Features.Difference)
	assert.True(t, c.Difference.Equal(dec("-20")))
	assert.True(t, c.NetSales.Equal(dec("5000")))
	assert.True(t, c.Modified)
}

func TestReadEmptyExport(t *testing.T) {
	_, err := NewReader(nil).ReadSales(strings.NewReader(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyExport)

	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "sales", loadErr.Dataset)
}
