package domain

import "time"

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type MeasurementSystem string

const (
	SystemImperial MeasurementSystem = "imperial"
	SystemMetric   MeasurementSystem = "metric"
)

// MeasurementValues holds the user-editable part of a measurements record.
// Weight and height are stored in the unit of System: lbs and inches for
// imperial, kg and cm for metric.
type MeasurementValues struct {
	Sex     Sex               `db:"sex" json:"sex" validate:"required,oneof=male female"`
	Age     int               `db:"age" json:"age" validate:"required,gt=0,lt=150"`
	System  MeasurementSystem `db:"measurement_sys" json:"measurement_sys" validate:"required,oneof=imperial metric"`
	Weight  float64           `db:"weight_value" json:"weight_value" validate:"required,gt=0"`
	Height  float64           `db:"height_value" json:"height_value" validate:"required,gt=0"`
	EstBMR  int               `db:"est_bmr" json:"est_bmr" validate:"required,gt=0"`
	EstTDEE int               `db:"est_tdee" json:"est_tdee" validate:"required,gt=0"`
}

type Measurements struct {
	SubID int64 `db:"sub_id" json:"sub_id"`
	MeasurementValues
	DateLastUpdated time.Time `db:"date_last_updated" json:"date_last_updated"`
}

type MeasurementField int

const (
	FieldSex MeasurementField = iota + 1
	FieldAge
	FieldSystem
	FieldWeight
	FieldHeight
	FieldEstBMR
	FieldEstTDEE
)

func (f MeasurementField) String() string {
	switch f {
	case FieldSex:
		return "sex"
	case FieldAge:
		return "age"
	case FieldSystem:
		return "measurement_sys"
	case FieldWeight:
		return "weight_value"
	case FieldHeight:
		return "height_value"
	case FieldEstBMR:
		return "est_bmr"
	case FieldEstTDEE:
		return "est_tdee"
	}
	return "unknown"
}

type FieldChange struct {
	Field MeasurementField
	Value any
}

// MeasurementsPatch carries a partial update. Nil fields are left untouched.
type MeasurementsPatch struct {
	Sex     *Sex               `json:"sex,omitempty" validate:"omitempty,oneof=male female"`
	Age     *int               `json:"age,omitempty" validate:"omitempty,gt=0,lt=150"`
	System  *MeasurementSystem `json:"measurement_sys,omitempty" validate:"omitempty,oneof=imperial metric"`
	Weight  *float64           `json:"weight_value,omitempty" validate:"omitempty,gt=0"`
	Height  *float64           `json:"height_value,omitempty" validate:"omitempty,gt=0"`
	EstBMR  *int               `json:"est_bmr,omitempty" validate:"omitempty,gt=0"`
	EstTDEE *int               `json:"est_tdee,omitempty" validate:"omitempty,gt=0"`
}

// Changes lists the fields of p that are present and differ from current,
// in column order.
func (p MeasurementsPatch) Changes(current MeasurementValues) []FieldChange {
	var changes []FieldChange
	if p.Sex != nil && *p.Sex != current.Sex {
		changes = append(changes, FieldChange{FieldSex, *p.Sex})
	}
	if p.Age != nil && *p.Age != current.Age {
		changes = append(changes, FieldChange{FieldAge, *p.Age})
	}
	if p.System != nil && *p.System != current.System {
		changes = append(changes, FieldChange{FieldSystem, *p.System})
	}
	if p.Weight != nil && *p.Weight != current.Weight {
		changes = append(changes, FieldChange{FieldWeight, *p.Weight})
	}
	if p.Height != nil && *p.Height != current.Height {
		changes = append(changes, FieldChange{FieldHeight, *p.Height})
	}
	if p.EstBMR != nil && *p.EstBMR != current.EstBMR {
		changes = append(changes, FieldChange{FieldEstBMR, *p.EstBMR})
	}
	if p.EstTDEE != nil && *p.EstTDEE != current.EstTDEE {
		changes = append(changes, FieldChange{FieldEstTDEE, *p.EstTDEE})
	}
	return changes
}

// Apply writes a single change onto v.
func (v *MeasurementValues) Apply(c FieldChange) error {
	switch c.Field {
	case FieldSex:
		v.Sex = c.Value.(Sex)
	case FieldAge:
		v.Age = c.Value.(int)
	case FieldSystem:
		v.System = c.Value.(MeasurementSystem)
	case FieldWeight:
		v.Weight = c.Value.(float64)
	case FieldHeight:
		v.Height = c.Value.(float64)
	case FieldEstBMR:
		v.EstBMR = c.Value.(int)
	case FieldEstTDEE:
		v.EstTDEE = c.Value.(int)
	default:
		return ErrUnknownMeasurement
	}
	return nil
}
