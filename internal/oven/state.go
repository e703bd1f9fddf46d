package oven

// State is the controller's operating state.
type State uint8

const (
	StateStopped State = iota
	StateBaking
	StateManualPower
	StateManualTemp
	StateReflowWarming
	StateReflowTracking
	StateReflowCooling
)

var stateNames = [...]string{
	StateStopped:        "stopped",
	StateBaking:         "baking",
	StateManualPower:    "manual_power",
	StateManualTemp:     "manual_temp",
	StateReflowWarming:  "reflow_warming",
	StateReflowTracking: "reflow_tracking",
	StateReflowCooling:  "reflow_cooling",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Running reports whether s is anything other than stopped.
func (s State) Running() bool { return s != StateStopped }

// Result is the outcome of one Process tick.
type Result uint8

const (
	// ResultIdle means nothing is running.
	ResultIdle Result = iota
	// ResultRunning means the operation continues.
	ResultRunning
	// ResultCompleted means the operation finished normally this tick.
	ResultCompleted
	// ResultFault means the interlock stopped the oven this tick.
	ResultFault
)

func (r Result) String() string {
	switch r {
	case ResultRunning:
		return "running"
	case ResultCompleted:
		return "completed"
	case ResultFault:
		return "fault"
	default:
		return "idle"
	}
}
