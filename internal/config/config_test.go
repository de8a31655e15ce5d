package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OUTLIER_THRESHOLD", "")
	t.Setenv("DATE_LAYOUTS", "")
	t.Setenv("TIMEZONE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30000.0, cfg.OutlierThreshold)
	assert.Equal(t, 50.0, cfg.AlertThreshold)
	assert.Equal(t, 15.0, cfg.DiscountAuditPct)
	assert.Equal(t, "Reporte_Ventas_Historico.csv", cfg.SalesFile)
	assert.Nil(t, cfg.DateLayouts)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OUTLIER_THRESHOLD", "1000")
	t.Setenv("DATE_LAYOUTS", "02/01/2006, 2006.01.02")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1000.0, cfg.OutlierThreshold)
	assert.Equal(t, []string{"02/01/2006", "2006.01.02"}, cfg.DateLayouts)
	assert.Len(t, cfg.AllowedOrigins, 2)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"negative outlier threshold", "OUTLIER_THRESHOLD", "-1"},
		{"zero alert threshold", "ALERT_THRESHOLD", "0"},
		{"unknown timezone", "TIMEZONE", "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
