package domain

import (
	"fmt"
	"strings"
)

// Metric identifies one of the three measured quantities.
type Metric int

const (
	EF Metric = iota
	HeartRate
	SystolicBP
)

// Metrics lists every metric in panel order.
var Metrics = []Metric{EF, HeartRate, SystolicBP}

func (m Metric) String() string {
	switch m {
	case EF:
		return "ef"
	case HeartRate:
		return "heart_rate"
	case SystolicBP:
		return "systolic_bp"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// Title is the human-readable panel title.
func (m Metric) Title() string {
	switch m {
	case EF:
		return "Ejection Fraction (EF)"
	case HeartRate:
		return "Heart Rate (HR)"
	case SystolicBP:
		return "Systolic Blood Pressure (SBP)"
	default:
		return m.String()
	}
}

// Column returns the tabular column name for the metric in the given phase,
// e.g. "Rest EF" or "Stress Systolic BP".
func (m Metric) Column(p Phase) string {
	var name string
	switch m {
	case EF:
		name = "EF"
	case HeartRate:
		name = "Heart Rate"
	case SystolicBP:
		name = "Systolic BP"
	default:
		name = m.String()
	}
	return p.Label() + " " + name
}

// ParseMetric accepts the String form of a metric, case-insensitively.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", s)
}

// Phase is the measurement condition: baseline or induced stress.
type Phase int

const (
	Rest Phase = iota
	Stress
)

// Phases lists both phases in x-axis order.
var Phases = []Phase{Rest, Stress}

func (p Phase) String() string {
	if p == Stress {
		return "stress"
	}
	return "rest"
}

// ParsePhase accepts the String form of a phase, case-insensitively.
func ParsePhase(s string) (Phase, error) {
	for _, p := range Phases {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

// Label is the category label used on chart axes.
func (p Phase) Label() string {
	if p == Stress {
		return "Stress"
	}
	return "Rest"
}
