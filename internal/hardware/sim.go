// Package hardware provides oven actuators. SimOven is a first-order thermal
// model of a toaster oven used when no real hardware is attached.
package hardware

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"reflow_oven/internal/oven"
	"reflow_oven/internal/thermo"
)

// Thermal model coefficients, rates in tenths of a degree per second.
const (
	coolM       = -0.002115
	coolB       = 0.6675
	heatM       = -0.0015
	heatB       = 25.0
	maxHeatRate = 25.0
	powerM      = 0.002
	powerB      = 0.80

	// An open door doubles the cooling rate.
	doorCoolFactor = 2.0

	minStepMs     = 1000
	maxLagSamples = 200
)

// DefaultAmbient is room temperature, 27.0°C.
const DefaultAmbient thermo.Temperature = 270

// SimOven implements oven.Actuator. The temperature advances lazily when it
// is read, in steps of at least one second of clock time.
type SimOven struct {
	mu    sync.Mutex
	clock oven.Clock
	rng   *rand.Rand

	ambient float64
	temp    float64
	noise   float64

	power  uint8
	door   uint8
	lag    []float64
	lastMs uint64
}

// SimOption configures a SimOven.
type SimOption func(*SimOven)

// WithAmbient sets the ambient and starting temperature.
func WithAmbient(t thermo.Temperature) SimOption {
	return func(s *SimOven) {
		s.ambient = float64(t)
		s.temp = float64(t)
	}
}

// WithNoise adds Gaussian read noise with the given standard deviation in
// tenths of a degree.
func WithNoise(stdDev float64) SimOption {
	return func(s *SimOven) { s.noise = stdDev }
}

// NewSimOven returns a cold simulated oven with the door closed.
func NewSimOven(clock oven.Clock, opts ...SimOption) *SimOven {
	s := &SimOven{
		clock:   clock,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		ambient: float64(DefaultAmbient),
		temp:    float64(DefaultAmbient),
		lag:     make([]float64, 0, maxLagSamples),
		lastMs:  clock.NowMs(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SimOven) SetPowerLevel(percent uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.power = min(percent, 100)
}

func (s *SimOven) SetDoorOpening(percent uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.door = min(percent, 100)
}

func (s *SimOven) PowerLevel() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.power
}

func (s *SimOven) DoorOpening() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.door
}

// Temperature returns the current simulated thermocouple reading.
func (s *SimOven) Temperature() thermo.Temperature {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()

	t := s.temp
	if s.noise > 0 {
		t += s.rng.NormFloat64() * s.noise
	}
	return thermo.Temperature(math.Round(t))
}

func (s *SimOven) advance() {
	now := s.clock.NowMs()
	elapsed := now - s.lastMs
	if elapsed < minStepMs {
		return
	}
	s.lastMs = now

	// The element lags the commanded power; the lag shortens as the oven heats.
	n := int(math.Max(15, (1700-s.temp)/20))
	power := s.laggedPower(float64(s.power), n)
	s.temp += s.rate(power) * float64(elapsed) / 1000
}

func (s *SimOven) laggedPower(p float64, n int) float64 {
	if len(s.lag) == maxLagSamples {
		copy(s.lag[1:], s.lag[:maxLagSamples-1])
		s.lag[0] = p
	} else {
		s.lag = append([]float64{p}, s.lag...)
	}
	n = min(n, maxLagSamples)

	var sum float64
	for i := 0; i < n && i < len(s.lag); i++ {
		sum += s.lag[i]
	}
	return sum / float64(n)
}

// rate returns dT/ds for the given effective power.
func (s *SimOven) rate(power float64) float64 {
	diff := s.temp - s.ambient
	cool := coolM*diff + coolB
	if s.door > 0 {
		cool *= 1 + (doorCoolFactor-1)*float64(s.door)/100
	}
	heat := (heatM*diff + heatB) * power / 100 * (power*powerM + powerB)
	heat = math.Min(heat, maxHeatRate)
	return cool + heat
}
