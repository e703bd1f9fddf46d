package oven

import "errors"

// Start precondition failures.
var (
	ErrBusy       = errors.New("an oven operation is already running")
	ErrTooHot     = errors.New("oven is too hot to start")
	ErrOutOfRange = errors.New("parameter out of range")
)

// Runtime faults detected by the safety interlock.
var (
	ErrSensorFault       = errors.New("temperature below plausible minimum, probable sensor fault")
	ErrOverTemperature   = errors.New("oven over temperature")
	ErrOverrun           = errors.New("operation exceeded its maximum duration")
	ErrClockRegression   = errors.New("clock moved backwards")
	ErrInconsistentState = errors.New("regulation requested in an unregulated state")
)
