package normalize

import (
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"salesdash/pkg/models"
)

// DefaultDateLayouts are tried in order when a date cell is parsed. Slash
// dates are read month-first, matching the POS export.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"01/02/2006",
}

var clockLayouts = []string{
	"3:04 PM",
	"3:04:05 PM",
	"3:04PM",
	"3:04:05PM",
}

var timeOfDayLayouts = append(append([]string(nil), clockLayouts...), "15:04:05", "15:04")

// ParseCurrency reads an export money cell such as "$1,234.56". Anything that
// does not parse after stripping "$", "," and blanks is zero.
func ParseCurrency(raw string) decimal.Decimal {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// ParsePercent reads a percentage cell such as "15%". Unparsable is zero.
func ParsePercent(raw string) decimal.Decimal {
	cleaned := strings.NewReplacer("%", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero
	}
	pct, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return pct
}

// ParseQuantity reads a quantity cell; thousands separators are tolerated.
func ParseQuantity(raw string) decimal.Decimal {
	return ParseCurrency(raw)
}

// ParseHour extracts the hour of day from a time cell. 12-hour clock strings
// are tried first, then the integer before the first colon. The result is
// always in 0-23; anything else yields 0.
func ParseHour(raw string) int {
	hour, _ := ParseClock(raw)
	return hour
}

// ParseClock is ParseHour returning minutes as well.
func ParseClock(raw string) (hour, minute int) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return 0, 0
	}

	// "2:30 p. m." as produced by Spanish locales
	s = strings.NewReplacer("P. M.", "PM", "A. M.", "AM", "P.M.", "PM", "A.M.", "AM").Replace(s)

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour(), t.Minute()
		}
	}

	parts := strings.Split(s, ":")
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 23 {
		return 0, 0
	}
	if len(parts) > 1 {
		if m, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil && m >= 0 && m < 60 {
			minute = m
		}
	}
	return h, minute
}

// ParseTimeOfDay returns the offset from midnight of a time cell with
// second precision. ok is false when the cell cannot be read as a clock.
func ParseTimeOfDay(raw string) (offset time.Duration, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	s = strings.NewReplacer("P. M.", "PM", "A. M.", "AM", "P.M.", "PM", "A.M.", "AM").Replace(s)

	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}

// ParseDate tries each layout in turn and returns the calendar date. The zero
// civil.Date is returned for empty or unparsable cells.
func ParseDate(raw string, layouts []string) civil.Date {
	s := strings.TrimSpace(raw)
	if s == "" {
		return civil.Date{}
	}
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t)
		}
	}
	return civil.Date{}
}

// ParseFlag reads the yes/no columns (MODIF_PRECIO, FUE_MODIFICADO).
func ParseFlag(raw string) bool {
	s := strings.ToUpper(strings.TrimSpace(raw))
	switch s {
	case "SI", "SÍ", "S", "YES", "Y", "TRUE", "1", "X":
		return true
	}
	return strings.HasPrefix(s, "SI ") || strings.HasPrefix(s, "SÍ ")
}

// ParseMovementKind maps TIPO_MOV values onto a MovementKind.
func ParseMovementKind(raw string) models.MovementKind {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "VENTA", "SALE":
		return models.MovementSale
	case "DEVOLUCION", "DEVOLUCIÓN", "RETURN":
		return models.MovementReturn
	}
	return models.MovementOther
}
