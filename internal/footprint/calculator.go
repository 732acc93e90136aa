package footprint

import (
	"fmt"
	"math"
)

// Tier classifies a co2_total against the policy boundaries.
type Tier string

const (
	TierLow      Tier = "low"
	TierModerate Tier = "moderate"
	TierHigh     Tier = "high"
)

const (
	msgTierHigh     = "Your footprint is high. Aim to cut overall consumption by at least 20% this month."
	msgTierModerate = "Your footprint is moderate. Reducing consumption by 10-15% would bring it into the low range."
	msgTierLow      = "Your footprint is low. Keep up the good habits!"

	msgEnergy    = "Energy use is above average: switch to LED lighting and unplug idle appliances."
	msgWater     = "Water use is above average: fix leaks and consider low-flow fixtures."
	msgTransport = "Travel distance is above average: try public transport, cycling or car-pooling."

	msgTreesFormat = "Plant %d tree(s) to offset your emissions."
)

// Result is the derived part of a submission.
type Result struct {
	CO2Total        float64
	Tier            Tier
	TreeCount       int
	Recommendations []string
}

// Compute applies the policy to the usage figures. It assumes u has been
// validated against p (see Calculator.Compute); it performs no I/O and
// always returns the same result for the same inputs.
func Compute(p Policy, u Usage) Result {
	total := Round2(weightedTotal(p, u))

	tier := p.TierOf(total)
	trees := TreeCount(total, p.TreeOffsetDivisor)

	recs := make([]string, 0, 5)
	switch tier {
	case TierHigh:
		recs = append(recs, msgTierHigh)
	case TierModerate:
		recs = append(recs, msgTierModerate)
	default:
		recs = append(recs, msgTierLow)
	}
	if u.Energy > p.EnergyThreshold {
		recs = append(recs, msgEnergy)
	}
	if u.Water > p.WaterThreshold {
		recs = append(recs, msgWater)
	}
	if u.Transport > p.TransportThreshold {
		recs = append(recs, msgTransport)
	}
	recs = append(recs, fmt.Sprintf(msgTreesFormat, trees))

	return Result{
		CO2Total:        total,
		Tier:            tier,
		TreeCount:       trees,
		Recommendations: recs,
	}
}

// TierOf returns the severity tier for a co2_total.
func (p Policy) TierOf(total float64) Tier {
	switch {
	case total >= p.HighTotal:
		return TierHigh
	case total >= p.ModerateTotal:
		return TierModerate
	default:
		return TierLow
	}
}

func weightedTotal(p Policy, u Usage) float64 {
	// Explicit conversions keep each product rounded on its own, so the sum
	// does not depend on whether the platform fuses multiply-add.
	return float64(u.Energy*p.EnergyWeight) +
		float64(u.Water*p.WaterWeight) +
		float64(u.Transport*p.TransportWeight)
}

// MaxTreeCount caps TreeCount so the conversion to int is safe on every platform.
const MaxTreeCount = math.MaxInt32

// TreeCount returns max(1, floor(total/divisor)), capped at MaxTreeCount.
func TreeCount(total, divisor float64) int {
	if divisor <= 0 {
		return 1
	}
	q := math.Floor(total / divisor)
	switch {
	case math.IsNaN(q) || q < 1:
		return 1
	case q >= MaxTreeCount:
		return MaxTreeCount
	}
	return int(q)
}

// Round2 rounds half away from zero to two decimal places. Values too large
// to carry a fractional part are returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.Abs(v) >= 1e15 {
		return v
	}
	return math.Round(v*100) / 100
}

// Calculator computes results against the currently active policy.
type Calculator struct {
	policies PolicySource
}

// PolicySource yields the policy in force.
type PolicySource interface {
	Current() Policy
}

// StaticPolicy is a PolicySource that never changes.
type StaticPolicy Policy

func (s StaticPolicy) Current() Policy { return Policy(s) }

// NewCalculator returns a Calculator reading from src; a nil src means DefaultPolicy.
func NewCalculator(src PolicySource) *Calculator {
	if src == nil {
		src = StaticPolicy(DefaultPolicy())
	}
	return &Calculator{policies: src}
}

// Compute validates the figures and applies the current policy. A weighted
// total above MaxCO2Total is reported against the figure contributing most.
func (c *Calculator) Compute(energy, water, transport float64) (Result, Policy, error) {
	u := Usage{Energy: energy, Water: water, Transport: transport}
	if err := u.Validate(); err != nil {
		return Result{}, Policy{}, err
	}
	p := c.policies.Current()
	if total := weightedTotal(p, u); math.IsNaN(total) || total > MaxCO2Total {
		return Result{}, Policy{}, dominantFigure(p, u)
	}
	return Compute(p, u), p, nil
}

func dominantFigure(p Policy, u Usage) *UsageError {
	err := &UsageError{Field: FieldEnergy, Value: u.Energy}
	largest := u.Energy * p.EnergyWeight
	if w := u.Water * p.WaterWeight; w > largest {
		err, largest = &UsageError{Field: FieldWater, Value: u.Water}, w
	}
	if t := u.Transport * p.TransportWeight; t > largest {
		err = &UsageError{Field: FieldTransport, Value: u.Transport}
	}
	return err
}
