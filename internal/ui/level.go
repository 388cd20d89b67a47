package ui

// Level is the severity of a metric reading.
type Level int

const (
	LevelNormal Level = iota
	LevelWarning
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Default thresholds for percentage metrics.
const (
	DefaultWarning  = 70.0
	DefaultCritical = 90.0
)

// Thresholds holds the warning and critical boundaries for a metric.
type Thresholds struct {
	Warning  float64
	Critical float64
}

// DefaultThresholds returns the 70/90 thresholds used for CPU and memory.
func DefaultThresholds() Thresholds {
	return Thresholds{Warning: DefaultWarning, Critical: DefaultCritical}
}

// Level classifies percent against t.
func (t Thresholds) Level(percent float64) Level {
	switch {
	case percent >= t.Critical:
		return LevelCritical
	case percent >= t.Warning:
		return LevelWarning
	default:
		return LevelNormal
	}
}

// DiskCategory names a disk usage percentage.
func DiskCategory(percent float64) string {
	switch {
	case percent >= 95:
		return "Full"
	case percent >= 85:
		return "Critical"
	case percent >= 70:
		return "Warning"
	default:
		return "Normal"
	}
}

// TempCategory names a temperature in degrees Celsius.
func TempCategory(celsius float64) string {
	switch {
	case celsius >= 85:
		return "Critical"
	case celsius >= 75:
		return "Hot"
	case celsius >= 60:
		return "Warm"
	case celsius >= 40:
		return "Normal"
	default:
		return "Cool"
	}
}

// TempLevel maps a temperature to a severity level.
func TempLevel(celsius float64) Level {
	switch {
	case celsius >= 85:
		return LevelCritical
	case celsius >= 75:
		return LevelWarning
	default:
		return LevelNormal
	}
}
