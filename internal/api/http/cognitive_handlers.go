package http

import (
	"net/http"

	"github.com/mind-engage/cognitrack/internal/cognitive"
)

// GET /api/cognitive/heatmap
func HeatmapHandler(readings func() []cognitive.Reading) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cognitive.BuildHeatmap(readings()))
	}
}

// GET /api/devices
func DevicesHandler(devices func() []cognitive.Device) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cognitive.SummarizeDevices(devices()))
	}
}
