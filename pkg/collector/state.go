package collector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SensorState es lo que se persiste entre polls de un sensor
type SensorState struct {
	LastPollAt time.Time         `json:"last_poll_at"`
	Values     map[string]string `json:"values"` // nombre u OID -> valor
}

// Delta describe qué cambió respecto del poll anterior
type Delta struct {
	Changed         []string  `json:"changed"`          // claves nuevas o cuyo valor cambió, ordenadas
	Removed         []string  `json:"removed"`          // claves que ya no responden, ordenadas
	PreviousPollAt  time.Time `json:"previous_poll_at"` // momento del poll anterior
	RestartDetected bool      `json:"restart_detected"` // sysUpTime retrocedió
}

// StateManager maneja la persistencia de estado por sensor.
// La clave es el ID del sensor (telemetry.SensorID), no la IP: sobrevive a cambios de DHCP.
type StateManager struct {
	stateDir string
}

// NewStateManager crea un nuevo gestor de estado
func NewStateManager(stateDir string) (*StateManager, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &StateManager{stateDir: stateDir}, nil
}

// LoadState carga el estado anterior de un sensor.
// Retorna nil, nil si es el primer poll.
func (sm *StateManager) LoadState(sensorID string) (*SensorState, error) {
	data, err := os.ReadFile(sm.getStateFilename(sensorID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var state SensorState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("estado corrupto para %s: %w", sensorID, err)
	}

	return &state, nil
}

// SaveState guarda el estado actual de un sensor (se sobrescribe)
func (sm *StateManager) SaveState(sensorID string, values map[string]string) error {
	state := SensorState{
		LastPollAt: time.Now().UTC(),
		Values:     values,
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(sm.getStateFilename(sensorID), data, 0644)
}

// CalculateDelta compara los valores actuales con el estado guardado.
// Retorna nil si no hay estado anterior.
func (sm *StateManager) CalculateDelta(sensorID string, current map[string]string) (*Delta, error) {
	previous, err := sm.LoadState(sensorID)
	if err != nil || previous == nil {
		return nil, err
	}

	delta := &Delta{
		Changed:        make([]string, 0),
		Removed:        make([]string, 0),
		PreviousPollAt: previous.LastPollAt,
	}

	for key, value := range current {
		if old, ok := previous.Values[key]; !ok || old != value {
			delta.Changed = append(delta.Changed, key)
		}
	}
	for key := range previous.Values {
		if _, ok := current[key]; !ok {
			delta.Removed = append(delta.Removed, key)
		}
	}
	sort.Strings(delta.Changed)
	sort.Strings(delta.Removed)

	// Si el uptime actual es menor que el anterior, el equipo se reinició
	if now, ok := parseUptime(current["sysUpTime"]); ok {
		if before, ok := parseUptime(previous.Values["sysUpTime"]); ok && now < before {
			delta.RestartDetected = true
		}
	}

	return delta, nil
}

// ValuesFromReadings arma el mapa a persistir, por nombre o por OID
func ValuesFromReadings(readings []Reading) map[string]string {
	values := make(map[string]string, len(readings))
	for _, r := range readings {
		key := r.Name
		if key == "" {
			key = r.OID
		}
		values[key] = r.Value
	}
	return values
}

func parseUptime(s string) (uint64, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	return n, err == nil
}

// getStateFilename retorna la ruta del archivo de estado para un sensor
func (sm *StateManager) getStateFilename(sensorID string) string {
	// Sanitizar separadores por si el ID no viene saneado
	sanitized := strings.NewReplacer(":", "_", "/", "_", `\`, "_").Replace(sensorID)
	return filepath.Join(sm.stateDir, fmt.Sprintf("sensor_%s.json", sanitized))
}
