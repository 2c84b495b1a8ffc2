// Package cognitive labels attention/engagement/stress readings.
// All readings in this service are mock data; nothing is ingested from devices.
package cognitive

type State string

const (
	StateOptimal    State = "green"
	StateModerate   State = "yellow"
	StateHighStress State = "red"
)

func (s State) Label() string {
	switch s {
	case StateOptimal:
		return "Optimal"
	case StateModerate:
		return "Moderate Load"
	case StateHighStress:
		return "High Stress"
	default:
		return "Unknown"
	}
}

func (s State) Valid() bool {
	return s == StateOptimal || s == StateModerate || s == StateHighStress
}

// Metrics are fractions in [0,1].
type Metrics struct {
	Attention  float64 `json:"attention"`
	Engagement float64 `json:"engagement"`
	Stress     float64 `json:"stress"`
}

const (
	redStress      = 0.70
	redAttention   = 0.45
	amberStress    = 0.45
	amberAttention = 0.70
)

// Classify maps a reading to a state; stress and attention are checked
// against the red thresholds first, then the amber ones.
func Classify(m Metrics) State {
	switch {
	case m.Stress >= redStress || m.Attention < redAttention:
		return StateHighStress
	case m.Stress >= amberStress || m.Attention < amberAttention:
		return StateModerate
	default:
		return StateOptimal
	}
}

type Cell struct {
	StudentID string  `json:"studentId"`
	Name      string  `json:"name"`
	State     State   `json:"cognitiveState"`
	Label     string  `json:"label"`
	Metrics   Metrics `json:"metrics"`
}

type Heatmap struct {
	Cells  []Cell        `json:"cells"`
	Counts map[State]int `json:"counts"`
}

type Reading struct {
	StudentID string
	Name      string
	Metrics   Metrics
}

// BuildHeatmap classifies each reading and tallies the states.
func BuildHeatmap(readings []Reading) Heatmap {
	h := Heatmap{
		Cells:  make([]Cell, 0, len(readings)),
		Counts: map[State]int{StateOptimal: 0, StateModerate: 0, StateHighStress: 0},
	}
	for _, r := range readings {
		st := Classify(r.Metrics)
		h.Cells = append(h.Cells, Cell{
			StudentID: r.StudentID,
			Name:      r.Name,
			State:     st,
			Label:     st.Label(),
			Metrics:   r.Metrics,
		})
		h.Counts[st]++
	}
	return h
}

// DemoClassroom is the fixed snapshot shown on the live heatmap.
func DemoClassroom() []Reading {
	return []Reading{
		{StudentID: "stu-001", Name: "Alice Johnson", Metrics: Metrics{Attention: 0.85, Engagement: 0.78, Stress: 0.22}},
		{StudentID: "stu-002", Name: "Bob Smith", Metrics: Metrics{Attention: 0.62, Engagement: 0.58, Stress: 0.48}},
		{StudentID: "stu-003", Name: "Carol Davis", Metrics: Metrics{Attention: 0.38, Engagement: 0.42, Stress: 0.82}},
		{StudentID: "stu-004", Name: "David Lee", Metrics: Metrics{Attention: 0.91, Engagement: 0.88, Stress: 0.18}},
		{StudentID: "stu-005", Name: "Emma Wilson", Metrics: Metrics{Attention: 0.88, Engagement: 0.82, Stress: 0.25}},
		{StudentID: "stu-006", Name: "Frank Moore", Metrics: Metrics{Attention: 0.68, Engagement: 0.65, Stress: 0.52}},
		{StudentID: "stu-007", Name: "Grace Taylor", Metrics: Metrics{Attention: 0.82, Engagement: 0.79, Stress: 0.28}},
		{StudentID: "stu-008", Name: "Henry Brown", Metrics: Metrics{Attention: 0.58, Engagement: 0.62, Stress: 0.55}},
	}
}
