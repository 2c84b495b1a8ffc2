package cognitive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		m    Metrics
		want State
	}{
		{"calm and focused", Metrics{Attention: 0.9, Stress: 0.2}, StateOptimal},
		{"stress at amber threshold", Metrics{Attention: 0.9, Stress: 0.45}, StateModerate},
		{"attention just below amber", Metrics{Attention: 0.69, Stress: 0.1}, StateModerate},
		{"attention at amber threshold", Metrics{Attention: 0.70, Stress: 0.1}, StateOptimal},
		{"stress at red threshold", Metrics{Attention: 0.9, Stress: 0.70}, StateHighStress},
		{"attention below red", Metrics{Attention: 0.44, Stress: 0.1}, StateHighStress},
		{"attention at red threshold", Metrics{Attention: 0.45, Stress: 0.1}, StateModerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.m))
		})
	}
}

func TestState_Label(t *testing.T) {
	assert.Equal(t, "Optimal", StateOptimal.Label())
	assert.Equal(t, "Moderate Load", StateModerate.Label())
	assert.Equal(t, "High Stress", StateHighStress.Label())
	assert.Equal(t, "Unknown", State("blue").Label())
	assert.False(t, State("blue").Valid())
	assert.True(t, StateModerate.Valid())
}

func TestBuildHeatmap_DemoClassroom(t *testing.T) {
	h := BuildHeatmap(DemoClassroom())

	assert.Len(t, h.Cells, 8)
	assert.Equal(t, 4, h.Counts[StateOptimal])
	assert.Equal(t, 3, h.Counts[StateModerate])
	assert.Equal(t, 1, h.Counts[StateHighStress])

	assert.Equal(t, "stu-003", h.Cells[2].StudentID)
	assert.Equal(t, StateHighStress, h.Cells[2].State)
	assert.Equal(t, "High Stress", h.Cells[2].Label)
}

func TestBuildHeatmap_Empty(t *testing.T) {
	h := BuildHeatmap(nil)
	assert.Empty(t, h.Cells)
	assert.Equal(t, 0, h.Counts[StateOptimal])
	assert.Len(t, h.Counts, 3)
}

func TestSummarizeDevices(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	hub := SummarizeDevices(DemoDevices(now))
	assert.Equal(t, 3, hub.Total)
	assert.Equal(t, 2, hub.Online)
	assert.Equal(t, []string{"Low battery on dev-003 (15%)", "Device dev-003 lost connection"}, hub.Alerts)
	assert.Equal(t, now.Add(-2*time.Hour), hub.Devices[2].LastSeen)

	empty := SummarizeDevices(nil)
	assert.Zero(t, empty.Total)
	assert.NotNil(t, empty.Devices)
	assert.Empty(t, empty.Alerts)
}
