package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yash/sensor-snmp/pkg/telemetry"
)

// Serializer convierte un Telemetry a JSON bytes.
// No escribe a disco ni decide el destino: eso es trabajo de los sinks.
type Serializer struct {
	compact bool
}

// NewSerializer crea un serializador con salida indentada
func NewSerializer() *Serializer {
	return &Serializer{}
}

// NewCompactSerializer crea un serializador sin indentación (para HTTP/DB)
func NewCompactSerializer() *Serializer {
	return &Serializer{compact: true}
}

// Serialize convierte un Telemetry a JSON listo para un Sink
func (s *Serializer) Serialize(t *telemetry.Telemetry) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("telemetry cannot be nil")
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)

	// No escapear HTML para que "&" se vea como "&" y no como "\u0026"
	encoder.SetEscapeHTML(false)

	// Indentación de 2 espacios para legibilidad
	if !s.compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(t); err != nil {
		return nil, fmt.Errorf("failed to serialize telemetry: %w", err)
	}

	// Encode agrega un newline final, lo removemos
	data := buf.Bytes()
	if len(data) > 0 && data[len(data)-1] == '\n' {
		data = data[:len(data)-1]
	}

	return data, nil
}
