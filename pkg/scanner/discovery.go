package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yash/sensor-snmp/pkg/oids"
	"github.com/yash/sensor-snmp/pkg/snmp"
)

// DiscoveryResult contiene información de un dispositivo descubierto
type DiscoveryResult struct {
	IP           string
	Community    string
	SNMPVersion  string
	SysDescr     string
	SysObjectID  string
	IsResponsive bool
	ResponseTime time.Duration
	DiscoveredAt time.Time
	Errors       []string
}

// DiscoveryConfig contiene configuración para el discovery
type DiscoveryConfig struct {
	MaxConcurrentConnections int
	TimeoutPerDevice         time.Duration
	Retries                  int
	Community                string
	SNMPVersion              string
	SNMPPort                 uint16
}

// Prober consulta un OID escalar en un host
type Prober interface {
	ValidateConnection(ctx context.Context) error
	Get(ctx context.Context, oid string) (string, error)
}

// ProberFactory crea un Prober para una IP
type ProberFactory func(ip string, config DiscoveryConfig) Prober

// SNMPProber es el ProberFactory por defecto, basado en snmp.SNMPClient
func SNMPProber(ip string, config DiscoveryConfig) Prober {
	return snmp.NewSNMPClient(
		ip,
		config.SNMPPort,
		config.Community,
		config.SNMPVersion,
		config.TimeoutPerDevice,
		config.Retries,
	)
}

// DiscoveryScanner ejecuta escaneo SNMP en paralelo
type DiscoveryScanner struct {
	config    DiscoveryConfig
	newProber ProberFactory
}

// NewDiscoveryScanner crea un nuevo scanner de discovery
func NewDiscoveryScanner(config DiscoveryConfig) *DiscoveryScanner {
	return NewDiscoveryScannerWithProber(config, SNMPProber)
}

// NewDiscoveryScannerWithProber crea un scanner con un ProberFactory propio
func NewDiscoveryScannerWithProber(config DiscoveryConfig, factory ProberFactory) *DiscoveryScanner {
	if config.MaxConcurrentConnections <= 0 {
		config.MaxConcurrentConnections = 1
	}
	return &DiscoveryScanner{config: config, newProber: factory}
}

// Scan ejecuta el escaneo de IPs y retorna solo los dispositivos que respondieron
func (ds *DiscoveryScanner) Scan(ctx context.Context, ips []string) ([]DiscoveryResult, error) {
	results := make([]DiscoveryResult, 0, len(ips))
	resultsChan := make(chan DiscoveryResult, len(ips))
	var wg sync.WaitGroup

	// Semáforo para limitar concurrencia
	semaphore := make(chan struct{}, ds.config.MaxConcurrentConnections)

	fmt.Printf("Iniciando descubrimiento de %d IPs...\n", len(ips))
	startTime := time.Now()

	for _, ip := range ips {
		wg.Add(1)

		go func(targetIP string) {
			defer wg.Done()

			// Adquirir slot
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-semaphore }()

			resultsChan <- ds.probeIP(ctx, targetIP)
		}(ip)
	}

	// Esperar a que todos terminen
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Recolectar resultados
	for result := range resultsChan {
		if result.IsResponsive {
			results = append(results, result)
		}
	}

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("discovery interrumpido: %w", err)
	}

	fmt.Printf("Descubrimiento completado en %.2f segundos. Encontrados %d sensores.\n",
		time.Since(startTime).Seconds(), len(results))

	return results, nil
}

// probeIP prueba un IP individual
func (ds *DiscoveryScanner) probeIP(ctx context.Context, ip string) DiscoveryResult {
	result := DiscoveryResult{
		IP:           ip,
		Community:    ds.config.Community,
		SNMPVersion:  ds.config.SNMPVersion,
		DiscoveredAt: time.Now(),
	}

	startTime := time.Now()
	client := ds.newProber(ip, ds.config)

	// Intentar validar conexión
	if err := client.ValidateConnection(ctx); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("validation_error: %v", err))
		return result
	}

	// Obtener sysDescr
	sysDescr, err := client.Get(ctx, oids.SysDescr)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("sysdescr_error: %v", err))
		return result
	}

	if sysDescr == "" {
		result.Errors = append(result.Errors, "sysdescr_empty")
		return result
	}

	result.SysDescr = sysDescr

	// Obtener sysObjectID
	if sysObjectID, err := client.Get(ctx, oids.SysObjectID); err == nil {
		result.SysObjectID = sysObjectID
	}

	result.IsResponsive = true
	result.ResponseTime = time.Since(startTime)

	return result
}
