package telemetry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yash/sensor-snmp/pkg/collector"
)

// SchemaVersion del payload; cambiarla rompe a los consumidores
const SchemaVersion = "1.0.0"

// Builder transforma SensorData → Telemetry
// Responsabilidad ÚNICA: mapear campos sin lógica SNMP
type Builder struct {
	source AgentSource // quién envía (agent_id, hostname, os, version)
}

// NewBuilder crea un nuevo builder
func NewBuilder(source AgentSource) *Builder {
	return &Builder{
		source: source,
	}
}

// Build convierte un SensorData a Telemetry.
// delta viene del StateManager y puede ser nil (primer poll).
func (b *Builder) Build(data *collector.SensorData, delta *collector.Delta) (*Telemetry, error) {
	if data == nil {
		return nil, fmt.Errorf("sensor data cannot be nil")
	}

	sensor := SensorInfo{
		IP:                 data.IP,
		Platform:           strings.TrimSpace(data.Platform),
		PlatformConfidence: data.PlatformConfidence,
		Name:               b.optional(data, "sysName"),
		Location:           b.optional(data, "sysLocation"),
		Description:        b.optional(data, "sysDescr"),
		MacAddress:         b.optional(data, "ifPhysAddress"),
		UptimeSeconds:      b.uptimeSeconds(data),
	}
	if sensor.Description == nil {
		sensor.Description = sanitizeEmptyString(data.SysDescr)
	}
	sensor.ID = SensorID(data)

	// IMPORTANTE: SIEMPRE usar UTC para timestamps
	return &Telemetry{
		SchemaVersion: SchemaVersion,
		EventID:       fmt.Sprintf("%s::%s::%d", b.source.AgentID, sensor.ID, data.Timestamp.Unix()),
		CollectedAt:   data.Timestamp.UTC(),
		Source:        b.source,
		Sensor:        sensor,
		Readings:      data.Readings,
		Environment:   b.buildEnvironment(data),
		Storage:       data.Storage,
		Changes:       delta,
		Metrics:       b.buildMetrics(data),
	}, nil
}

// SensorID retorna el ID estable del sensor: MAC → sysName → IP.
// Lo usan también el StateManager y los sinks como nombre de archivo.
func SensorID(data *collector.SensorData) string {
	mac, _ := data.Value("ifPhysAddress")
	name, _ := data.Value("sysName")
	return buildSensorID(sanitizeEmptyString(mac), sanitizeEmptyString(name), data.IP)
}

func buildSensorID(macAddress, name *string, ip string) string {
	if macAddress != nil {
		mac := strings.ToLower(strings.ReplaceAll(*macAddress, ":", ""))
		if len(mac) == 12 && strings.Trim(mac, "0123456789abcdef") == "" {
			return mac
		}
	}

	if name != nil {
		if id := sanitizeID(*name); id != "" {
			return id
		}
	}

	return sanitizeID(ip)
}

// sanitizeID deja solo [a-z0-9._-]; el resto pasa a "-".
// Un ID hecho solo de puntos no sirve como nombre de archivo.
func sanitizeID(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}

	id := sb.String()
	if strings.Trim(id, ".") == "" {
		return ""
	}
	return id
}

// buildEnvironment escala las lecturas del sensor; nil si no hay ninguna
func (b *Builder) buildEnvironment(data *collector.SensorData) *EnvironmentInfo {
	env := &EnvironmentInfo{
		TemperatureC: tenths(data, "temperature"),
		HumidityPct:  tenths(data, "humidity"),
		RSSIdBm:      integer(data, "rssi"),
		FreeHeap:     integer(data, "freeHeap"),
	}

	if env.TemperatureC == nil && env.HumidityPct == nil && env.RSSIdBm == nil && env.FreeHeap == nil {
		return nil
	}
	return env
}

func (b *Builder) buildMetrics(data *collector.SensorData) *MetricsInfo {
	return &MetricsInfo{
		Polling: &PollingMetrics{
			ResponseTimeMs: int(data.ResponseTime.Milliseconds()),
			OidsRequested:  data.OIDsRequested,
			ValuesReceived: len(data.Readings),
			ErrorCount:     len(data.Errors),
			Errors:         data.Errors,
		},
	}
}

// uptimeSeconds convierte sysUpTime (centésimas de segundo) a segundos
func (b *Builder) uptimeSeconds(data *collector.SensorData) int64 {
	v, ok := data.Value("sysUpTime")
	if !ok {
		return 0
	}
	ticks, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return ticks / 100
}

func (b *Builder) optional(data *collector.SensorData, name string) *string {
	v, _ := data.Value(name)
	return sanitizeEmptyString(v)
}

// sanitizeEmptyString convierte strings vacíos a nil (que será null en JSON)
func sanitizeEmptyString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// tenths interpreta la lectura como décimas (215 → 21.5)
func tenths(data *collector.SensorData, name string) *float64 {
	n := integer(data, name)
	if n == nil {
		return nil
	}
	f := float64(*n) / 10
	return &f
}

func integer(data *collector.SensorData, name string) *int64 {
	v, ok := data.Value(name)
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
