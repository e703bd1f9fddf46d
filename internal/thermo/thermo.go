// Package thermo defines the fixed-point temperature type shared by the oven
// core. All internal computation is done in Celsius; Unit conversion exists
// only for presentation.
package thermo

import (
	"fmt"
	"math"
)

// Temperature is expressed in tenths of a degree Celsius (1234 = 123.4°C).
type Temperature int16

// Representable limits.
const (
	MinTemperature Temperature = math.MinInt16
	MaxTemperature Temperature = math.MaxInt16
)

// FromCelsius converts degrees Celsius to Temperature, rounding to the nearest
// tenth. Values outside the representable range saturate at MinTemperature or
// MaxTemperature; NaN maps to MinTemperature.
func FromCelsius(c float64) Temperature {
	v := math.Round(c * 10)
	switch {
	case math.IsNaN(v) || v <= math.MinInt16:
		return MinTemperature
	case v >= math.MaxInt16:
		return MaxTemperature
	}
	return Temperature(v)
}

// Celsius returns the temperature in degrees Celsius.
func (t Temperature) Celsius() float64 {
	return float64(t) / 10
}

func (t Temperature) String() string {
	return fmt.Sprintf("%.1f°C", t.Celsius())
}

// Unit is a display unit.
type Unit string

const (
	Celsius    Unit = "celsius"
	Fahrenheit Unit = "fahrenheit"
)

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	return u == Celsius || u == Fahrenheit
}

// Symbol returns the unit's display suffix.
func (u Unit) Symbol() string {
	if u == Fahrenheit {
		return "°F"
	}
	return "°C"
}

// Convert converts a tenths-of-a-degree value between units.
func Convert(v int, from, to Unit) int {
	if from == to {
		return v
	}
	if from == Celsius {
		return v*9/5 + 320
	}
	return (v - 320) * 5 / 9
}

// In returns the temperature in the given unit as a float (e.g. 212.0 for 100°C in Fahrenheit).
func (t Temperature) In(u Unit) float64 {
	return float64(Convert(int(t), Celsius, u)) / 10
}

// FormatIn renders t in unit u with one decimal place, e.g. "212.0°F".
func FormatIn(t Temperature, u Unit) string {
	return fmt.Sprintf("%.1f%s", t.In(u), u.Symbol())
}
