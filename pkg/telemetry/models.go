package telemetry

import (
	"time"

	"github.com/yash/sensor-snmp/pkg/collector"
)

// Telemetry es el payload atómico que representa el estado de UN sensor
// en un momento específico, junto con métricas de cómo se obtuvo ese snapshot
type Telemetry struct {
	SchemaVersion string      `json:"schema_version"`
	EventID       string      `json:"event_id"`
	CollectedAt   time.Time   `json:"collected_at"`
	Source        AgentSource `json:"source"`
	Sensor        SensorInfo  `json:"sensor"`

	Readings    []collector.Reading    `json:"readings"`
	Environment *EnvironmentInfo       `json:"environment,omitempty"`
	Storage     collector.StorageUsage `json:"storage"`
	Changes     *collector.Delta       `json:"changes,omitempty"` // nil en el primer poll
	Metrics     *MetricsInfo           `json:"metrics,omitempty"`
}

// AgentSource describe quién envía el telemetry
type AgentSource struct {
	AgentID  string `json:"agent_id"` // "AGT-LOCAL-001"
	Hostname string `json:"hostname"` // detectado del SO
	OS       string `json:"os"`       // "linux", "windows", "darwin"
	Version  string `json:"version"`  // versión del agente
}

// SensorInfo es la identidad del dispositivo
type SensorInfo struct {
	ID                 string  `json:"id"`
	IP                 string  `json:"ip"`
	Platform           string  `json:"platform"`
	PlatformConfidence float64 `json:"platform_confidence"`
	Name               *string `json:"name"`        // sysName (nil → null en JSON)
	Location           *string `json:"location"`    // sysLocation
	Description        *string `json:"description"` // sysDescr
	MacAddress         *string `json:"mac_address"`
	UptimeSeconds      int64   `json:"uptime_seconds"`
}

// EnvironmentInfo agrupa las lecturas del sensor ya escaladas
type EnvironmentInfo struct {
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	HumidityPct  *float64 `json:"humidity_pct,omitempty"`
	RSSIdBm      *int64   `json:"rssi_dbm,omitempty"`
	FreeHeap     *int64   `json:"free_heap,omitempty"`
}

// MetricsInfo agrupa las métricas del poll SNMP
type MetricsInfo struct {
	Polling *PollingMetrics `json:"polling,omitempty"`
}

// PollingMetrics describe cómo fue obtener el snapshot
type PollingMetrics struct {
	ResponseTimeMs int      `json:"response_time_ms"`
	OidsRequested  int      `json:"oids_requested"`
	ValuesReceived int      `json:"values_received"`
	ErrorCount     int      `json:"error_count"`
	Errors         []string `json:"errors,omitempty"`
}
