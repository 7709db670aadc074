package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/yash/sensor-snmp/pkg/collector"
	"github.com/yash/sensor-snmp/pkg/detector"
	"github.com/yash/sensor-snmp/pkg/scanner"
	"github.com/yash/sensor-snmp/pkg/serializer"
	"github.com/yash/sensor-snmp/pkg/sink"
	"github.com/yash/sensor-snmp/pkg/snmpcfg"
	"github.com/yash/sensor-snmp/pkg/telemetry"
)

const agentVersion = "1.0.0"

func main() {
	// Flags
	configFile := flag.String("config", "config.yaml", "Archivo de configuración")
	ipRangeOverride := flag.String("range", "", "Override del rango de IPs (ej: 192.168.4.1-254 o 192.168.4.0/24)")
	verbose := flag.Bool("verbose", false, "Modo verbose (override de config)")
	showVersion := flag.Bool("version", false, "Muestra versión y modo de almacenamiento")

	flag.Parse()

	if *showVersion {
		fmt.Printf("sensor-snmp agent %s (storage=%s, capacity=%s)\n", agentVersion, snmpcfg.Mode, capacityLabel())
		return
	}

	// Cargar configuración desde YAML
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		log.Printf("⚠️  No se pudo leer %s: %v", *configFile, err)
		cfg = DefaultConfig()
	}

	// Override con flags si se proporcionan
	if *ipRangeOverride != "" {
		cfg.Discovery.IPRange = *ipRangeOverride
	}
	if *verbose {
		cfg.Logging.Verbose = true
	}

	if cfg.Discovery.IPRange == "" {
		log.Fatalf("Error: Se requiere ip_range en %s o -range en flags", *configFile)
	}
	if !cfg.Discovery.Enabled {
		log.Fatalf("Discovery disabled in %s", *configFile)
	}

	ips, err := scanner.ParseIPRange(cfg.Discovery.IPRange)
	if err != nil {
		log.Fatalf("Error parseando rango: %v", err)
	}

	log.Printf("🔧 Storage mode: %s (capacity %s)", snmpcfg.Mode, capacityLabel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startTime := time.Now()

	discoveryScanner := scanner.NewDiscoveryScanner(scanner.DiscoveryConfig{
		MaxConcurrentConnections: cfg.Discovery.MaxConcurrent,
		TimeoutPerDevice:         time.Duration(cfg.SNMP.TimeoutMs) * time.Millisecond,
		Retries:                  cfg.SNMP.Retries,
		Community:                cfg.SNMP.Community,
		SNMPVersion:              cfg.SNMP.Version,
		SNMPPort:                 cfg.SNMP.Port,
	})

	discoveries, err := discoveryScanner.Scan(ctx, ips)
	if err != nil {
		log.Fatalf("Error during discovery: %v", err)
	}
	if len(discoveries) == 0 {
		log.Fatalf("No SNMP devices found in range")
	}

	if !cfg.Collector.Enabled {
		fmt.Println("❌ Collector deshabilitado en la configuración")
		os.Exit(0)
	}

	out, err := buildSinks(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize sinks: %v", err)
	}
	defer out.Close()

	if err := processSensors(ctx, cfg, discoveries, out); err != nil {
		log.Printf("❌ %v", err)
	}

	log.Printf("✅ Scan completed in %.2f seconds", time.Since(startTime).Seconds())
}

// processSensors recolecta, arma la telemetría y la envía a los sinks
func processSensors(ctx context.Context, cfg Config, discoveries []scanner.DiscoveryResult, out sink.Sink) error {
	deviceInfos := toDeviceInfos(cfg, discoveries)

	if cfg.Logging.Verbose {
		for i, d := range deviceInfos {
			fmt.Printf("[%d/%d] %s -> %s (confianza: %.0f%%)\n",
				i+1, len(deviceInfos), d.IP, d.Platform, d.PlatformConfidence*100)
		}
	}

	dataCollector := collector.NewDataCollector(collector.Config{
		Timeout:                  time.Duration(cfg.SNMP.TimeoutMs) * time.Millisecond,
		Retries:                  cfg.SNMP.Retries,
		MaxConcurrentConnections: cfg.Discovery.MaxConcurrent,
		MinDelayBetweenQueries:   time.Duration(cfg.Collector.DelayMs) * time.Millisecond,
		SNMPPort:                 cfg.SNMP.Port,
		WalkSensors:              cfg.Collector.WalkSensors,
	})

	fmt.Printf("📊 Recolectando datos de sensores...\n")
	sensorDataList, err := dataCollector.CollectData(ctx, deviceInfos)
	if err != nil {
		return fmt.Errorf("error recolectando datos: %w", err)
	}

	stateManager, err := collector.NewStateManager(cfg.Collector.StateDir)
	if err != nil {
		return err
	}

	builder := telemetry.NewBuilder(telemetry.AgentSource{
		AgentID:  getAgentID(),
		Hostname: getHostname(),
		OS:       runtime.GOOS,
		Version:  agentVersion,
	})
	ser := serializer.NewSerializer()

	sent := 0
	for i := range sensorDataList {
		sensorData := &sensorDataList[i]

		// El estado se guarda por ID de sensor: sobrevive a cambios de IP
		sensorID := telemetry.SensorID(sensorData)
		values := collector.ValuesFromReadings(sensorData.Readings)
		delta, err := stateManager.CalculateDelta(sensorID, values)
		if err != nil {
			log.Printf("⚠️  Failed to load state for %s: %v", sensorData.IP, err)
		}
		if delta != nil && delta.RestartDetected {
			log.Printf("🔄 %s se reinició desde el último poll", sensorData.IP)
		}
		if delta != nil && len(delta.Removed) > 0 && cfg.Logging.Verbose {
			log.Printf("⚠️  %s dejó de responder: %v", sensorData.IP, delta.Removed)
		}
		if err := stateManager.SaveState(sensorID, values); err != nil {
			log.Printf("⚠️  Failed to save state for %s: %v", sensorData.IP, err)
		}

		if sensorData.Storage.Overflow {
			log.Printf("⚠️  %s: buffer %s lleno (%d/%d), lecturas incompletas",
				sensorData.IP, sensorData.Storage.Mode, sensorData.Storage.Used, sensorData.Storage.Capacity)
		}

		telem, err := builder.Build(sensorData, delta)
		if err != nil {
			log.Printf("❌ Failed to build telemetry for %s: %v", sensorData.IP, err)
			continue
		}

		jsonBytes, err := ser.Serialize(telem)
		if err != nil {
			log.Printf("❌ Failed to serialize telemetry for %s: %v", sensorData.IP, err)
			continue
		}

		if err := out.Write(ctx, jsonBytes, telem.Sensor.ID); err != nil {
			log.Printf("❌ Failed to deliver telemetry for %s: %v", sensorData.IP, err)
			continue
		}

		sent++
	}

	log.Printf("📦 Sensors: %d, telemetry delivered: %d", len(sensorDataList), sent)
	return nil
}

// toDeviceInfos detecta la plataforma de cada dispositivo descubierto
func toDeviceInfos(cfg Config, discoveries []scanner.DiscoveryResult) []collector.DeviceInfo {
	deviceInfos := make([]collector.DeviceInfo, 0, len(discoveries))

	for _, disc := range discoveries {
		platform := detector.DetectPlatform(disc.SysDescr)

		deviceInfos = append(deviceInfos, collector.DeviceInfo{
			IP:                 disc.IP,
			Platform:           platform,
			PlatformConfidence: detector.GetPlatformConfidence(disc.SysDescr, platform),
			SysDescr:           disc.SysDescr,
			Community:          cfg.SNMP.Community,
			SNMPVersion:        cfg.SNMP.Version,
		})
	}

	return deviceInfos
}

// buildSinks crea los sinks habilitados en la configuración
func buildSinks(cfg Config) (*sink.MultiSink, error) {
	var sinks []sink.Sink

	if cfg.Sinks.File.Enabled {
		fileSink, err := sink.NewFileSink(sink.FileSinkConfig{
			QueueDir: cfg.Sinks.File.Path,
			Compress: cfg.Sinks.File.Compress,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fileSink)
	}

	if cfg.Sinks.HTTP.Enabled {
		sinks = append(sinks, sink.NewHTTPSink(sink.HTTPSinkConfig{
			Endpoint:   cfg.Sinks.HTTP.Endpoint,
			AuthToken:  cfg.Sinks.HTTP.AuthToken,
			MaxRetries: cfg.Sinks.HTTP.Retries,
			MaxWait:    time.Duration(cfg.Sinks.HTTP.BackoffMaxSeconds) * time.Second,
		}))
	}

	if cfg.Sinks.Database.Enabled {
		dbSink, err := sink.NewDBSink(cfg.Sinks.Database.DSN)
		if err != nil {
			sink.NewMultiSink(sinks...).Close()
			return nil, err
		}
		sinks = append(sinks, dbSink)
	}

	if len(sinks) == 0 {
		return nil, fmt.Errorf("no hay sinks habilitados")
	}

	return sink.NewMultiSink(sinks...), nil
}

// capacityLabel muestra Capacity solo cuando aplica
func capacityLabel() string {
	if snmpcfg.Mode == snmpcfg.StorageVector {
		return "ignored"
	}
	return fmt.Sprintf("%d", snmpcfg.Capacity)
}

// getAgentID obtiene el ID del agente (env var o default)
func getAgentID() string {
	if id := os.Getenv("AGENT_ID"); id != "" {
		return id
	}
	return "AGT-LOCAL-001"
}

// getHostname obtiene el hostname del servidor
func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
