package sink

import (
	"context"
	"errors"
	"fmt"
)

// Sink es la interfaz abstracta para "dónde va el JSON serializado"
// Implementaciones:
// - Disco local (buffer/queue), opcionalmente comprimido
// - HTTP (cloud)
// - Base de datos PostgreSQL
type Sink interface {
	// Write envía los bytes a su destino
	Write(ctx context.Context, data []byte, sensorID string) error

	// Close cierra recursos (conexiones, archivos, etc)
	Close() error
}

// SinkError es un error personalizado que incluye contexto
type SinkError struct {
	Sink      string // nombre del sink (http, file, db)
	Operation string // operación que falló (write, connect, etc)
	Err       error  // error subyacente
	SensorID  string // ID del sensor que causó el error
	Permanent bool   // reintentar no va a servir (ej: HTTP 4xx)
}

// Error implementa la interfaz error
func (se *SinkError) Error() string {
	return fmt.Sprintf("[%s] %s failed for sensor %s: %v", se.Sink, se.Operation, se.SensorID, se.Err)
}

// Unwrap permite usar errors.Is / errors.As sobre el error subyacente
func (se *SinkError) Unwrap() error {
	return se.Err
}

// IsRetryable indica si el error es recuperable (reintentos)
func (se *SinkError) IsRetryable() bool {
	return se.Err != nil && !se.Permanent
}

// MultiSink escribe el mismo payload en varios sinks
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink crea un fan-out sobre los sinks dados
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Write intenta todos los sinks aunque alguno falle; retorna los errores unidos
func (ms *MultiSink) Write(ctx context.Context, data []byte, sensorID string) error {
	var errs []error
	for _, s := range ms.sinks {
		if err := s.Write(ctx, data, sensorID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close cierra todos los sinks
func (ms *MultiSink) Close() error {
	var errs []error
	for _, s := range ms.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len retorna cuántos sinks hay configurados
func (ms *MultiSink) Len() int {
	return len(ms.sinks)
}
