// Package footprint turns household usage figures into a CO2-equivalent score
// and an ordered list of recommendations.
package footprint

import (
	"errors"
	"fmt"
	"math"
)

const (
	// PolicyStandard is the canonical policy name.
	PolicyStandard = "standard"

	// EnergyWeight converts one kWh of household energy into kg CO2e.
	EnergyWeight = 0.5

	// WaterWeight converts one litre of water into kg CO2e.
	WaterWeight = 0.0003

	// TransportWeight converts one km travelled into kg CO2e.
	TransportWeight = 0.2

	// TreeOffsetDivisor is the kg CO2e one planted tree is credited with.
	TreeOffsetDivisor = 50.0

	// MaxFigure bounds every usage figure.
	MaxFigure = 1e9

	// MaxCO2Total bounds the weighted total a policy may produce.
	MaxCO2Total = 1e12
)

// Policy holds the weights and thresholds used by Compute.
type Policy struct {
	Name string `mapstructure:"name" json:"name"`

	EnergyWeight    float64 `mapstructure:"energyWeight" json:"energy_weight"`
	WaterWeight     float64 `mapstructure:"waterWeight" json:"water_weight"`
	TransportWeight float64 `mapstructure:"transportWeight" json:"transport_weight"`

	// Tier boundaries on co2_total, inclusive lower bounds.
	HighTotal     float64 `mapstructure:"highTotal" json:"high_total"`
	ModerateTotal float64 `mapstructure:"moderateTotal" json:"moderate_total"`

	// Per-figure thresholds; a figure strictly above its threshold gets a targeted message.
	EnergyThreshold    float64 `mapstructure:"energyThreshold" json:"energy_threshold"`
	WaterThreshold     float64 `mapstructure:"waterThreshold" json:"water_threshold"`
	TransportThreshold float64 `mapstructure:"transportThreshold" json:"transport_threshold"`

	TreeOffsetDivisor float64 `mapstructure:"treeOffsetDivisor" json:"tree_offset_divisor"`
}

// DefaultPolicy returns the standard policy.
func DefaultPolicy() Policy {
	return Policy{
		Name:               PolicyStandard,
		EnergyWeight:       EnergyWeight,
		WaterWeight:        WaterWeight,
		TransportWeight:    TransportWeight,
		HighTotal:          300,
		ModerateTotal:      100,
		EnergyThreshold:    300,
		WaterThreshold:     10000,
		TransportThreshold: 200,
		TreeOffsetDivisor:  TreeOffsetDivisor,
	}
}

var (
	ErrInvalidPolicyName    = errors.New("footprint policy name is required")
	ErrInvalidPolicyWeight  = errors.New("footprint policy weights must be finite and non-negative")
	ErrInvalidPolicyTiers   = errors.New("footprint policy tiers must satisfy 0 <= moderateTotal <= highTotal")
	ErrInvalidPolicyDivisor = errors.New("footprint policy treeOffsetDivisor must be positive")
)

// Validate reports whether the policy can be used by Compute.
func (p Policy) Validate() error {
	if p.Name == "" {
		return ErrInvalidPolicyName
	}
	for _, w := range []float64{
		p.EnergyWeight, p.WaterWeight, p.TransportWeight,
		p.EnergyThreshold, p.WaterThreshold, p.TransportThreshold,
	} {
		if !isNonNegative(w) {
			return ErrInvalidPolicyWeight
		}
	}
	if !isNonNegative(p.ModerateTotal) || !isNonNegative(p.HighTotal) || p.ModerateTotal > p.HighTotal {
		return ErrInvalidPolicyTiers
	}
	if !isNonNegative(p.TreeOffsetDivisor) || p.TreeOffsetDivisor == 0 {
		return ErrInvalidPolicyDivisor
	}
	return nil
}

// Usage is one household's reported consumption.
type Usage struct {
	Energy    float64
	Water     float64
	Transport float64
}

// UsageError names the first usage figure that is not a finite, non-negative number.
type UsageError struct {
	Field string
	Value float64
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s must be a non-negative number no greater than %g, got %v", e.Field, MaxFigure, e.Value)
}

const (
	FieldEnergy    = "energy_usage"
	FieldWater     = "water_usage"
	FieldTransport = "transport_distance"
)

// Validate rejects negative, NaN and infinite figures, and figures above MaxFigure.
func (u Usage) Validate() error {
	switch {
	case !isFigure(u.Energy):
		return &UsageError{Field: FieldEnergy, Value: u.Energy}
	case !isFigure(u.Water):
		return &UsageError{Field: FieldWater, Value: u.Water}
	case !isFigure(u.Transport):
		return &UsageError{Field: FieldTransport, Value: u.Transport}
	}
	return nil
}

// Invalid lists every field that Validate would reject, in field order.
func (u Usage) Invalid() []string {
	var fields []string
	if !isFigure(u.Energy) {
		fields = append(fields, FieldEnergy)
	}
	if !isFigure(u.Water) {
		fields = append(fields, FieldWater)
	}
	if !isFigure(u.Transport) {
		fields = append(fields, FieldTransport)
	}
	return fields
}

func isNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func isFigure(v float64) bool {
	return isNonNegative(v) && v <= MaxFigure
}
