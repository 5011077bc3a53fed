package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		unit    *Unit
		wantErr bool
	}{
		{
			name:    "valid registration",
			unit:    DefaultXYM,
			wantErr: false,
		},
		{
			name: "empty name",
			unit: &Unit{
				Name:   "",
				Symbol: "TEST",
			},
			wantErr: true,
		},
		{
			name:    "duplicate registration",
			unit:    DefaultXYM,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Register(tt.unit)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	r := NewDefaultRegistry()

	unit, err := r.Get("xym")
	require.NoError(t, err)
	assert.Equal(t, "XYM", unit.Name)
	assert.Equal(t, 6, unit.Divisibility)

	_, err = r.Get("ETH")
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		name    string
		amount  float64
		from    string
		to      string
		want    float64
		wantErr bool
	}{
		{"absolute to relative", 1500000, "MICROXYM", "XYM", 1.5, false},
		{"relative to absolute", 2, "XYM", "MICROXYM", 2000000, false},
		{"same unit", 42, "xym", "XYM", 42, false},
		{"unknown source", 1, "FOO", "XYM", 0, true},
		{"no rate", 1, "XYM", "FOO", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Convert(tt.amount, tt.from, tt.to)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestConvertAbsolute(t *testing.T) {
	r := NewDefaultRegistry()

	got, err := r.ConvertAbsolute("123456789", "XYM")
	require.NoError(t, err)
	assert.InDelta(t, 123.456789, got, 1e-9)

	_, err = r.ConvertAbsolute("-5", "XYM")
	assert.Error(t, err)
}

func TestEnsureMosaicUnits(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.EnsureMosaicUnits("tst", 3))
	require.NoError(t, r.EnsureMosaicUnits("TST", 3), "second call is a no-op")

	got, err := r.ConvertAbsolute("2500", "TST")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, got, 1e-9)

	assert.Error(t, r.EnsureMosaicUnits("", 6))
	assert.Error(t, r.EnsureMosaicUnits("BAD", -1))
	assert.Error(t, r.EnsureMosaicUnits("BAD", 7))
}

func TestEnsureMosaicUnits_ReplacesDivisibility(t *testing.T) {
	r := NewDefaultRegistry()

	require.NoError(t, r.EnsureMosaicUnits("xym", 6))
	unit, err := r.Get("XYM")
	require.NoError(t, err)
	assert.Same(t, DefaultXYM, unit, "same divisibility keeps the registered unit")

	require.NoError(t, r.EnsureMosaicUnits("XYM", 3))
	got, err := r.ConvertAbsolute("2500", "XYM")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, got, 1e-9)

	unit, err = r.Get("XYM")
	require.NoError(t, err)
	assert.Equal(t, 3, unit.Divisibility)
	assert.Equal(t, "XYM", unit.Symbol)
	assert.Equal(t, 6, DefaultXYM.Divisibility)
}
