package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPSink envía los JSON serializados a un endpoint HTTP
// Implementa reintentos con backoff exponencial
type HTTPSink struct {
	endpoint    string        // URL del endpoint (ej: https://cloud.example.com/api/v1/telemetry)
	authToken   string        // Bearer token para autenticación
	client      *http.Client  // cliente HTTP con timeout
	maxRetries  int           // máximo de reintentos
	initialWait time.Duration // espera inicial entre reintentos
	maxWait     time.Duration // tope del backoff
}

// HTTPSinkConfig configura un HTTPSink
type HTTPSinkConfig struct {
	Endpoint    string        // URL del endpoint
	AuthToken   string        // Bearer token (opcional)
	Timeout     time.Duration // timeout HTTP
	MaxRetries  int           // máximo de reintentos (default: 3)
	InitialWait time.Duration // espera inicial en reintentos (default: 1s)
	MaxWait     time.Duration // tope del backoff (default: 60s)
}

// NewHTTPSink crea un nuevo HTTP sink
func NewHTTPSink(config HTTPSinkConfig) *HTTPSink {
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}

	if config.InitialWait == 0 {
		config.InitialWait = 1 * time.Second
	}

	if config.MaxWait == 0 {
		config.MaxWait = 60 * time.Second
	}

	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	return &HTTPSink{
		endpoint:    config.Endpoint,
		authToken:   config.AuthToken,
		client:      &http.Client{Timeout: config.Timeout},
		maxRetries:  config.MaxRetries,
		initialWait: config.InitialWait,
		maxWait:     config.MaxWait,
	}
}

// Write envía el JSON al endpoint con reintentos exponenciales.
// Los 4xx no se reintentan.
func (hs *HTTPSink) Write(ctx context.Context, data []byte, sensorID string) error {
	if len(data) == 0 {
		return fmt.Errorf("empty data for sensor %s", sensorID)
	}

	var lastErr error
	waitDuration := hs.initialWait

	for attempt := 0; attempt <= hs.maxRetries; attempt++ {
		// Si no es el primer intento, esperar con backoff exponencial
		if attempt > 0 {
			select {
			case <-time.After(waitDuration):
			case <-ctx.Done():
				return &SinkError{
					Sink:      "http",
					Operation: "write",
					Err:       fmt.Errorf("context cancelled after %d attempts: %w", attempt, ctx.Err()),
					SensorID:  sensorID,
				}
			}

			waitDuration *= 2
			if waitDuration > hs.maxWait {
				waitDuration = hs.maxWait
			}
		}

		err := hs.sendRequest(ctx, data, sensorID)
		if err == nil {
			return nil
		}

		var sinkErr *SinkError
		if errors.As(err, &sinkErr) && !sinkErr.IsRetryable() {
			return sinkErr
		}

		lastErr = err
	}

	return &SinkError{
		Sink:      "http",
		Operation: "write",
		Err:       fmt.Errorf("failed after %d attempts: %w", hs.maxRetries+1, lastErr),
		SensorID:  sensorID,
	}
}

// sendRequest intenta enviar una solicitud HTTP POST
func (hs *HTTPSink) sendRequest(ctx context.Context, data []byte, sensorID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hs.endpoint, bytes.NewReader(data))
	if err != nil {
		return &SinkError{Sink: "http", Operation: "request", Err: err, SensorID: sensorID, Permanent: true}
	}

	// Headers estándar
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Sensor-ID", sensorID)

	// Autenticación si está configurada
	if hs.authToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", hs.authToken))
	}

	resp, err := hs.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	// 2xx = éxito, 4xx = no reintentar, 5xx = reintentar
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Leer body para debugging
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	bodyStr := string(bodyBytes)

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &SinkError{
			Sink:      "http",
			Operation: "write",
			Err:       fmt.Errorf("client error (HTTP %d): %s", resp.StatusCode, bodyStr),
			SensorID:  sensorID,
			Permanent: true,
		}
	}

	return fmt.Errorf("server error (HTTP %d): %s", resp.StatusCode, bodyStr)
}

// Close cierra el HTTPSink
func (hs *HTTPSink) Close() error {
	hs.client.CloseIdleConnections()
	return nil
}
