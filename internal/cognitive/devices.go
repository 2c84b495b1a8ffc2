package cognitive

import (
	"fmt"
	"time"
)

type DeviceStatus string

const (
	DeviceOnline  DeviceStatus = "online"
	DeviceOffline DeviceStatus = "offline"
)

// Device is a classroom sensor headset. Battery and Signal are percentages.
type Device struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Battery         int          `json:"battery"`
	Signal          int          `json:"signal"`
	FirmwareVersion string       `json:"firmwareVersion"`
	LastSeen        time.Time    `json:"lastSeen"`
	Status          DeviceStatus `json:"status"`
}

const lowBattery = 20

type DeviceHub struct {
	Devices []Device `json:"devices"`
	Online  int      `json:"online"`
	Total   int      `json:"total"`
	Alerts  []string `json:"alerts"`
}

// SummarizeDevices counts online devices and lists low battery and offline alerts.
func SummarizeDevices(devices []Device) DeviceHub {
	h := DeviceHub{Devices: devices, Total: len(devices), Alerts: []string{}}
	if h.Devices == nil {
		h.Devices = []Device{}
	}
	for _, d := range devices {
		if d.Status == DeviceOnline {
			h.Online++
		}
		if d.Battery < lowBattery {
			h.Alerts = append(h.Alerts, fmt.Sprintf("Low battery on %s (%d%%)", d.ID, d.Battery))
		}
		if d.Status == DeviceOffline {
			h.Alerts = append(h.Alerts, fmt.Sprintf("Device %s lost connection", d.ID))
		}
	}
	return h
}

// DemoDevices is the fixed device snapshot, with lastSeen relative to now.
func DemoDevices(now time.Time) []Device {
	now = now.UTC().Truncate(time.Second)
	return []Device{
		{ID: "dev-001", Name: "Cognitive Sensor Alpha", Battery: 85, Signal: 92, FirmwareVersion: "2.4.1",
			LastSeen: now.Add(-5 * time.Minute), Status: DeviceOnline},
		{ID: "dev-002", Name: "Cognitive Sensor Beta", Battery: 42, Signal: 68, FirmwareVersion: "2.4.0",
			LastSeen: now.Add(-15 * time.Minute), Status: DeviceOnline},
		{ID: "dev-003", Name: "Cognitive Sensor Gamma", Battery: 15, Signal: 28, FirmwareVersion: "2.3.8",
			LastSeen: now.Add(-2 * time.Hour), Status: DeviceOffline},
	}
}
