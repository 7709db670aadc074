package telemetry

import (
	"strings"
	"testing"
	"time"

	"github.com/yash/sensor-snmp/pkg/collector"
)

func sampleData() *collector.SensorData {
	return &collector.SensorData{
		IP:                 "192.168.4.20",
		Platform:           "ESP8266",
		PlatformConfidence: 0.98,
		SysDescr:           "WiFi sensor ESP8266",
		Readings: []collector.Reading{
			{OID: ".1.3.6.1.2.1.1.3.0", Name: "sysUpTime", Type: "timeticks", Value: "360000"},
			{OID: ".1.3.6.1.2.1.1.5.0", Name: "sysName", Type: "string", Value: "Living Room"},
			{OID: ".1.3.6.1.2.1.1.6.0", Name: "sysLocation", Type: "string", Value: "  "},
			{OID: ".1.3.6.1.4.1.54321.1.1.0", Name: "temperature", Type: "integer", Value: "215"},
			{OID: ".1.3.6.1.4.1.54321.1.3.0", Name: "rssi", Type: "integer", Value: "-67"},
		},
		Storage:       collector.StorageUsage{Mode: "vector", Capacity: -1, Used: 5},
		Errors:        []string{},
		Timestamp:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CLT", -3*3600)),
		ResponseTime:  120 * time.Millisecond,
		OIDsRequested: 7,
	}
}

func TestBuild(t *testing.T) {
	b := NewBuilder(AgentSource{AgentID: "AGT-TEST"})
	telem, err := b.Build(sampleData(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if telem.Sensor.ID != "living-room" {
		t.Errorf("Sensor.ID = %q, want living-room", telem.Sensor.ID)
	}
	if telem.Sensor.Location != nil {
		t.Errorf("blank location should be nil, got %q", *telem.Sensor.Location)
	}
	if telem.Sensor.Description == nil || *telem.Sensor.Description != "WiFi sensor ESP8266" {
		t.Errorf("Description = %v", telem.Sensor.Description)
	}
	if telem.Sensor.UptimeSeconds != 3600 {
		t.Errorf("UptimeSeconds = %d, want 3600", telem.Sensor.UptimeSeconds)
	}
	if telem.CollectedAt.Location() != time.UTC || telem.CollectedAt.Hour() != 15 {
		t.Errorf("CollectedAt = %v, want 15:00 UTC", telem.CollectedAt)
	}
	if telem.EventID != "AGT-TEST::living-room::1772377200" {
		t.Errorf("EventID = %q", telem.EventID)
	}

	env := telem.Environment
	if env == nil || env.TemperatureC == nil || *env.TemperatureC != 21.5 {
		t.Fatalf("Environment = %+v, want 21.5 °C", env)
	}
	if env.HumidityPct != nil {
		t.Errorf("HumidityPct = %v, want nil", *env.HumidityPct)
	}
	if env.RSSIdBm == nil || *env.RSSIdBm != -67 {
		t.Errorf("RSSIdBm = %v", env.RSSIdBm)
	}
	if telem.Metrics.Polling.OidsRequested != 7 || telem.Metrics.Polling.ValuesReceived != 5 {
		t.Errorf("Polling = %+v", telem.Metrics.Polling)
	}
}

func TestBuildSensorIDPrefersMAC(t *testing.T) {
	data := sampleData()
	data.Readings = append(data.Readings, collector.Reading{Name: "ifPhysAddress", Value: "5C:CF:7F:01:02:03"})

	telem, _ := NewBuilder(AgentSource{}).Build(data, nil)
	if telem.Sensor.ID != "5ccf7f010203" {
		t.Errorf("Sensor.ID = %q, want 5ccf7f010203", telem.Sensor.ID)
	}
}

func TestBuildSensorIDFallsBackToIP(t *testing.T) {
	data := &collector.SensorData{IP: "10.1.1.1", Timestamp: time.Now()}

	telem, _ := NewBuilder(AgentSource{}).Build(data, &collector.Delta{RestartDetected: true})
	if telem.Sensor.ID != "10.1.1.1" {
		t.Errorf("Sensor.ID = %q, want IP", telem.Sensor.ID)
	}
	if telem.Environment != nil {
		t.Errorf("Environment = %+v, want nil without sensor readings", telem.Environment)
	}
	if telem.Changes == nil || !telem.Changes.RestartDetected {
		t.Error("Changes must carry the delta")
	}
}

func TestBuildNil(t *testing.T) {
	if _, err := NewBuilder(AgentSource{}).Build(nil, nil); err == nil {
		t.Fatal("expected error for nil data")
	}
}

func TestSensorIDIsFilenameSafe(t *testing.T) {
	tests := []struct {
		sysName string
		want    string
	}{
		{"attic/rack", "attic-rack"},
		{"x/../../escaped", "x-..-..-escaped"},
		{`C:\sensors\node`, "c--sensors-node"},
		{"Sala Ñandú #2", "sala--and---2"},
		{"..", "192.168.4.20"},
		{"/", "-"},
	}

	for _, tt := range tests {
		data := &collector.SensorData{
			IP:        "192.168.4.20",
			Timestamp: time.Now(),
			Readings:  []collector.Reading{{Name: "sysName", Value: tt.sysName}},
		}

		telem, err := NewBuilder(AgentSource{}).Build(data, nil)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if telem.Sensor.ID != tt.want {
			t.Errorf("sysName %q: Sensor.ID = %q, want %q", tt.sysName, telem.Sensor.ID, tt.want)
		}
		if strings.ContainsAny(telem.Sensor.ID, `/\`) {
			t.Errorf("sysName %q: Sensor.ID %q contains a path separator", tt.sysName, telem.Sensor.ID)
		}
	}
}

func TestSensorIDIgnoresMalformedMAC(t *testing.T) {
	data := &collector.SensorData{
		IP: "10.0.0.1",
		Readings: []collector.Reading{
			{Name: "ifPhysAddress", Value: "../../../etc"},
			{Name: "sysName", Value: "node-1"},
		},
	}

	if got := SensorID(data); got != "node-1" {
		t.Errorf("SensorID = %q, want node-1", got)
	}
}

func TestSensorIDIPv6Fallback(t *testing.T) {
	if got := SensorID(&collector.SensorData{IP: "fe80::1"}); got != "fe80--1" {
		t.Errorf("SensorID = %q, want fe80--1", got)
	}
}
