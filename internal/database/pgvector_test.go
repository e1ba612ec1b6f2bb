package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgVector_RoundTrip(t *testing.T) {
	v := NewPgVector([]float64{0.5, -1.25, 3})

	value, err := v.Value()
	require.NoError(t, err)

	var scanned PgVector
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, []float64{0.5, -1.25, 3}, scanned.Floats())
	assert.Equal(t, 3, scanned.Dimension())
}

func TestPgVector_ScanString(t *testing.T) {
	var v PgVector
	require.NoError(t, v.Scan("[1,2.5,-3]"))
	assert.Equal(t, []float64{1, 2.5, -3}, v.Floats())
}

func TestPgVector_ScanNil(t *testing.T) {
	var v PgVector
	require.NoError(t, v.Scan(nil))
	assert.Empty(t, v.Floats())
}

func TestPgVector_ScanInvalid(t *testing.T) {
	var v PgVector
	assert.Error(t, v.Scan(42))
}
