package v1

import (
	"errors"
	"math"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"
)

const inchesPerFoot = 12

var errIncompleteMeasurements = errors.New("height and weight are incomplete for the measurement system")

// measurementsInput is what the calculator page submits: height and weight
// in the units of the chosen system.
type measurementsInput struct {
	Sex     domain.Sex               `json:"sex" binding:"required,oneof=male female"`
	Age     int                      `json:"age" binding:"required,gt=0,lt=150"`
	System  domain.MeasurementSystem `json:"measurement_sys" binding:"required,oneof=imperial metric"`
	Feet    *float64                 `json:"feet,omitempty" binding:"omitempty,gt=0"`
	Inches  *float64                 `json:"inches,omitempty" binding:"omitempty,gte=0,lt=12"`
	Lbs     *float64                 `json:"lbs,omitempty" binding:"omitempty,gt=0"`
	Cm      *float64                 `json:"cm,omitempty" binding:"omitempty,gt=0"`
	Kg      *float64                 `json:"kg,omitempty" binding:"omitempty,gt=0"`
	EstBMR  int                      `json:"est_bmr" binding:"required,gt=0"`
	EstTDEE int                      `json:"est_tdee" binding:"required,gt=0"`
}

// toValues folds feet and inches into a single height in inches for the
// imperial system and takes cm and kg as they are for metric.
func (in measurementsInput) toValues() (domain.MeasurementValues, error) {
	values := domain.MeasurementValues{
		Sex:     in.Sex,
		Age:     in.Age,
		System:  in.System,
		EstBMR:  in.EstBMR,
		EstTDEE: in.EstTDEE,
	}

	switch in.System {
	case domain.SystemImperial:
		if in.Feet == nil || in.Inches == nil || in.Lbs == nil {
			return values, errIncompleteMeasurements
		}
		values.Height = *in.Feet*inchesPerFoot + *in.Inches
		values.Weight = *in.Lbs
	case domain.SystemMetric:
		if in.Cm == nil || in.Kg == nil {
			return values, errIncompleteMeasurements
		}
		values.Height = *in.Cm
		values.Weight = *in.Kg
	default:
		return values, errIncompleteMeasurements
	}

	return values, nil
}

type measurementsResponse struct {
	Sex             domain.Sex               `json:"sex"`
	Age             int                      `json:"age"`
	System          domain.MeasurementSystem `json:"measurement_sys"`
	Feet            *float64                 `json:"feet,omitempty"`
	Inches          *float64                 `json:"inches,omitempty"`
	Lbs             *float64                 `json:"lbs,omitempty"`
	Cm              *float64                 `json:"cm,omitempty"`
	Kg              *float64                 `json:"kg,omitempty"`
	EstBMR          int                      `json:"est_bmr"`
	EstTDEE         int                      `json:"est_tdee"`
	DateLastUpdated *time.Time               `json:"date_last_updated,omitempty"`
}

func newMeasurementsResponse(v domain.MeasurementValues) measurementsResponse {
	out := measurementsResponse{
		Sex:     v.Sex,
		Age:     v.Age,
		System:  v.System,
		EstBMR:  v.EstBMR,
		EstTDEE: v.EstTDEE,
	}

	switch v.System {
	case domain.SystemImperial:
		feet := math.Floor(v.Height / inchesPerFoot)
		inches := math.Mod(v.Height, inchesPerFoot)
		lbs := v.Weight
		out.Feet, out.Inches, out.Lbs = &feet, &inches, &lbs
	case domain.SystemMetric:
		cm, kg := v.Height, v.Weight
		out.Cm, out.Kg = &cm, &kg
	}

	return out
}

// patchFromValues turns a full submission into a patch; the service skips
// the fields that did not change.
func patchFromValues(v domain.MeasurementValues) domain.MeasurementsPatch {
	return domain.MeasurementsPatch{
		Sex:     &v.Sex,
		Age:     &v.Age,
		System:  &v.System,
		Weight:  &v.Weight,
		Height:  &v.Height,
		EstBMR:  &v.EstBMR,
		EstTDEE: &v.EstTDEE,
	}
}
