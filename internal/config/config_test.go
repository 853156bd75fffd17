package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "data/raw", cfg.Paths.RawDir)
	assert.Equal(t, "data/processed", cfg.Paths.OutDir)
	assert.Equal(t, "standard", cfg.Scaler.Type)
	assert.Equal(t, 0.10, cfg.Bounds.MaxIDR)
	assert.Equal(t, 5.0, cfg.Bounds.MaxPGA)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, []string{"idr", "drift"}, cfg.Bounds.DriftPatterns)
}

func TestValidate_SplitRatios(t *testing.T) {
	tests := []struct {
		name    string
		train   float64
		val     float64
		test    float64
		wantErr bool
	}{
		{name: "default 70/15/15", train: 0.70, val: 0.15, test: 0.15, wantErr: false},
		{name: "80/10/10", train: 0.80, val: 0.10, test: 0.10, wantErr: false},
		{name: "sums above one", train: 0.80, val: 0.15, test: 0.15, wantErr: true},
		{name: "sums below one", train: 0.50, val: 0.10, test: 0.10, wantErr: true},
		{name: "within tolerance", train: 0.7000000001, val: 0.15, test: 0.15, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Split = SplitConfig{TrainRatio: tt.train, ValRatio: tt.val, TestRatio: tt.test}

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "sum to 1.0")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_ScalerType(t *testing.T) {
	cfg := Default()
	cfg.Scaler.Type = "robust"
	assert.Error(t, cfg.Validate())

	cfg.Scaler.Type = "minmax"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_DriftPatterns(t *testing.T) {
	cfg := Default()
	cfg.Bounds.DriftPatterns = nil
	assert.Error(t, cfg.Validate())
}
