package v1

import (
	"testing"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestToValues(t *testing.T) {
	in := measurementsInput{
		Sex:     domain.SexFemale,
		Age:     40,
		System:  domain.SystemImperial,
		Feet:    ptr(5),
		Inches:  ptr(0),
		Lbs:     ptr(140),
		EstBMR:  1400,
		EstTDEE: 1900,
	}

	values, err := in.toValues()
	require.NoError(t, err)
	assert.Equal(t, 60.0, values.Height)
	assert.Equal(t, 140.0, values.Weight)

	in.Inches = nil
	_, err = in.toValues()
	assert.ErrorIs(t, err, errIncompleteMeasurements)

	metric := measurementsInput{System: domain.SystemMetric, Cm: ptr(170), Kg: ptr(65)}
	values, err = metric.toValues()
	require.NoError(t, err)
	assert.Equal(t, 170.0, values.Height)
	assert.Equal(t, 65.0, values.Weight)

	metric.Kg = nil
	_, err = metric.toValues()
	assert.ErrorIs(t, err, errIncompleteMeasurements)
}

func TestNewMeasurementsResponse(t *testing.T) {
	out := newMeasurementsResponse(domain.MeasurementValues{System: domain.SystemImperial, Height: 71, Weight: 190})
	require.NotNil(t, out.Feet)
	assert.Equal(t, 5.0, *out.Feet)
	assert.Equal(t, 11.0, *out.Inches)
	assert.Equal(t, 190.0, *out.Lbs)
	assert.Nil(t, out.Cm)

	out = newMeasurementsResponse(domain.MeasurementValues{System: domain.SystemMetric, Height: 180, Weight: 75})
	assert.Equal(t, 180.0, *out.Cm)
	assert.Equal(t, 75.0, *out.Kg)
	assert.Nil(t, out.Feet)
}
