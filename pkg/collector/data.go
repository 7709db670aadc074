package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/yash/sensor-snmp/pkg/oids"
	"github.com/yash/sensor-snmp/pkg/snmp"
	"github.com/yash/sensor-snmp/pkg/storage"
)

// Reading es un varbind ya convertido a texto
type Reading struct {
	OID   string `json:"oid"`
	Name  string `json:"name,omitempty"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// StorageUsage describe cómo se usó el store durante el poll
type StorageUsage struct {
	Mode     string `json:"mode"`     // "stream" | "vector"
	Capacity int    `json:"capacity"` // -1 en modo vector
	Used     int    `json:"used"`
	Overflow bool   `json:"overflow"`
}

// SensorData contiene toda la información recolectada de un sensor
type SensorData struct {
	IP                 string        `json:"ip"`
	Platform           string        `json:"platform"`
	PlatformConfidence float64       `json:"platformConfidence"`
	SysDescr           string        `json:"sysDescr"`
	Readings           []Reading     `json:"readings"`
	Storage            StorageUsage  `json:"storage"`
	Errors             []string      `json:"errors"`
	Timestamp          time.Time     `json:"timestamp"`
	ResponseTime       time.Duration `json:"responseTime"`
	OIDsRequested      int           `json:"oidsRequested"`
}

// Value retorna el valor de la lectura con ese nombre
func (sd *SensorData) Value(name string) (string, bool) {
	for _, r := range sd.Readings {
		if r.Name == name {
			return r.Value, true
		}
	}
	return "", false
}

// DeviceInfo contiene información sobre un dispositivo a procesar
type DeviceInfo struct {
	IP                 string
	Platform           string
	PlatformConfidence float64
	SysDescr           string
	Community          string
	SNMPVersion        string
}

// Poller es lo que el colector necesita de un cliente SNMP
type Poller interface {
	GetPDUs(ctx context.Context, oids []string) ([]gosnmp.SnmpPDU, error)
	WalkPDUs(ctx context.Context, baseOID string, fn gosnmp.WalkFunc) error
}

// PollerFactory crea un Poller para un dispositivo
type PollerFactory func(device DeviceInfo, config Config) Poller

// SNMPPoller es el PollerFactory por defecto, basado en snmp.SNMPClient
func SNMPPoller(device DeviceInfo, config Config) Poller {
	return snmp.NewSNMPClient(
		device.IP,
		config.SNMPPort,
		device.Community,
		device.SNMPVersion,
		config.Timeout,
		config.Retries,
	)
}

// Config contiene configuración del colector
type Config struct {
	Timeout                  time.Duration
	Retries                  int
	MaxConcurrentConnections int
	MinDelayBetweenQueries   time.Duration
	SNMPPort                 uint16
	WalkSensors              bool
}

// DataCollector recolecta datos de sensores
type DataCollector struct {
	config      Config
	rateLimiter *RateLimiter
	newPoller   PollerFactory
	newStore    func() storage.Store
}

// NewDataCollector crea un nuevo colector de datos
func NewDataCollector(config Config) *DataCollector {
	return NewDataCollectorWithPoller(config, SNMPPoller)
}

// NewDataCollectorWithPoller crea un colector con un PollerFactory propio
func NewDataCollectorWithPoller(config Config, factory PollerFactory) *DataCollector {
	if config.MaxConcurrentConnections <= 0 {
		config.MaxConcurrentConnections = 1
	}
	return &DataCollector{
		config:      config,
		rateLimiter: NewRateLimiter(config.MaxConcurrentConnections),
		newPoller:   factory,
		newStore:    storage.New,
	}
}

// CollectData recolecta datos de múltiples dispositivos
func (dc *DataCollector) CollectData(ctx context.Context, devices []DeviceInfo) ([]SensorData, error) {
	results := make([]SensorData, 0, len(devices))
	resultsChan := make(chan SensorData, len(devices))
	var wg sync.WaitGroup

	fmt.Printf("Iniciando recolección de datos de %d dispositivos...\n", len(devices))
	startTime := time.Now()

	for _, device := range devices {
		wg.Add(1)

		go func(devInfo DeviceInfo) {
			defer wg.Done()

			// Usar rate limiter
			if err := dc.rateLimiter.Acquire(ctx); err != nil {
				return
			}
			defer dc.rateLimiter.Release()

			resultsChan <- dc.collectFromDevice(ctx, devInfo)
		}(device)
	}

	// Esperar a que todos terminen
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Recolectar resultados
	for data := range resultsChan {
		results = append(results, data)
	}

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("recolección interrumpida: %w", err)
	}

	fmt.Printf("Recolección completada en %.2f segundos.\n", time.Since(startTime).Seconds())

	return results, nil
}

// collectFromDevice recolecta datos de un dispositivo específico
func (dc *DataCollector) collectFromDevice(ctx context.Context, device DeviceInfo) SensorData {
	startTime := time.Now()

	data := SensorData{
		IP:                 device.IP,
		Platform:           device.Platform,
		PlatformConfidence: device.PlatformConfidence,
		SysDescr:           device.SysDescr,
		Errors:             make([]string, 0),
		Timestamp:          time.Now(),
	}

	store := dc.newStore()
	client := dc.newPoller(device, dc.config)

	// Grupo system: un solo GET
	systemOIDs := oids.ExtractOIDs(oids.SystemQueries)
	data.OIDsRequested += len(systemOIDs)
	pdus, err := client.GetPDUs(ctx, systemOIDs)
	if err != nil {
		data.Errors = append(data.Errors, fmt.Sprintf("system_error: %v", err))
	}
	overflow := appendAll(store, pdus)

	// Identidad (MAC): GET aparte para que un error en v1 no tumbe el grupo system.
	// En modo stream el grupo system ya llena Capacity y la MAC queda fuera.
	if !overflow {
		identityOIDs := oids.ExtractOIDs(oids.IdentityQueries)
		data.OIDsRequested += len(identityOIDs)
		pdus, err := client.GetPDUs(ctx, identityOIDs)
		if err != nil {
			data.Errors = append(data.Errors, fmt.Sprintf("identity_error: %v", err))
		}
		overflow = appendAll(store, pdus)
	}

	// Lecturas del sensor vía WALK
	if dc.config.WalkSensors && !overflow {
		dc.pause(ctx)
		data.OIDsRequested++
		overflow = dc.walkInto(ctx, client, oids.SensorBase, store, &data)
	}

	for _, base := range oids.PlatformWalks[device.Platform] {
		if overflow {
			break
		}
		dc.pause(ctx)
		data.OIDsRequested++
		overflow = dc.walkInto(ctx, client, base, store, &data)
	}

	if overflow {
		data.Errors = append(data.Errors, fmt.Sprintf("storage_full: %d/%d", store.Len(), store.Cap()))
	}

	data.Readings = toReadings(store.Items())
	data.Storage = StorageUsage{
		Mode:     store.Mode().String(),
		Capacity: store.Cap(),
		Used:     store.Len(),
		Overflow: overflow,
	}
	data.ResponseTime = time.Since(startTime)

	return data
}

// walkInto recorre base guardando cada varbind; retorna true si el store se llenó
func (dc *DataCollector) walkInto(ctx context.Context, client Poller, base string, store storage.Store, data *SensorData) bool {
	err := client.WalkPDUs(ctx, base, func(pdu gosnmp.SnmpPDU) error {
		return store.Append(pdu)
	})
	if errors.Is(err, storage.ErrCapacityExceeded) {
		return true
	}
	if err != nil {
		data.Errors = append(data.Errors, fmt.Sprintf("walk_error %s: %v", base, err))
	}
	return false
}

// pause respeta MinDelayBetweenQueries entre consultas al mismo dispositivo
func (dc *DataCollector) pause(ctx context.Context) {
	if dc.config.MinDelayBetweenQueries <= 0 {
		return
	}
	select {
	case <-time.After(dc.config.MinDelayBetweenQueries):
	case <-ctx.Done():
	}
}

// appendAll guarda los varbinds válidos; retorna true si el store se llenó
func appendAll(store storage.Store, pdus []gosnmp.SnmpPDU) bool {
	for _, pdu := range pdus {
		if isMissing(pdu) {
			continue
		}
		if err := store.Append(pdu); err != nil {
			return true
		}
	}
	return false
}

// isMissing indica si el agente respondió que el OID no existe
func isMissing(pdu gosnmp.SnmpPDU) bool {
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return true
	}
	return false
}

func toReadings(pdus []gosnmp.SnmpPDU) []Reading {
	readings := make([]Reading, 0, len(pdus))
	for _, pdu := range pdus {
		readings = append(readings, Reading{
			OID:   pdu.Name,
			Name:  oids.NameFor(pdu.Name),
			Type:  snmp.TypeName(pdu.Type),
			Value: snmp.ParseValue(pdu),
		})
	}
	return readings
}
