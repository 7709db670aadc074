package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config contiene la configuración global del agente SNMP.
// El modo de almacenamiento no está aquí: se elige al compilar (-tags snmpstream).
type Config struct {
	// SNMP
	SNMP struct {
		Community string `yaml:"community"`
		Version   string `yaml:"version"`
		Port      uint16 `yaml:"port"`
		TimeoutMs int    `yaml:"timeout_ms"`
		Retries   int    `yaml:"retries"`
	} `yaml:"snmp"`

	// Discovery
	Discovery struct {
		Enabled       bool   `yaml:"enabled"`
		IPRange       string `yaml:"ip_range"`
		MaxConcurrent int    `yaml:"max_concurrent"`
	} `yaml:"discovery"`

	// Collector
	Collector struct {
		Enabled     bool   `yaml:"enabled"`
		DelayMs     int    `yaml:"delay_ms"`
		WalkSensors bool   `yaml:"walk_sensors"`
		StateDir    string `yaml:"state_dir"`
	} `yaml:"collector"`

	// Sinks
	Sinks struct {
		File struct {
			Enabled  bool   `yaml:"enabled"`
			Path     string `yaml:"path"`
			Compress bool   `yaml:"compress"`
		} `yaml:"file"`
		HTTP struct {
			Enabled           bool   `yaml:"enabled"`
			Endpoint          string `yaml:"endpoint"`
			AuthToken         string `yaml:"auth_token"`
			Retries           int    `yaml:"retries"`
			BackoffMaxSeconds int    `yaml:"backoff_max_seconds"`
		} `yaml:"http"`
		Database struct {
			Enabled bool   `yaml:"enabled"`
			DSN     string `yaml:"dsn"`
		} `yaml:"database"`
	} `yaml:"sinks"`

	// Logging
	Logging struct {
		Verbose bool `yaml:"verbose"`
	} `yaml:"logging"`
}

// LoadConfig carga la configuración desde un YAML.
// Los campos ausentes conservan los valores de DefaultConfig.
func LoadConfig(filePath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return cfg, fmt.Errorf("error leyendo %s: %w", filePath, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error parseando YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate revisa combinaciones que no tienen sentido
func (c Config) Validate() error {
	switch c.SNMP.Version {
	case "1", "2c":
	default:
		return fmt.Errorf("snmp.version inválida: %q (use 1 o 2c)", c.SNMP.Version)
	}

	if c.Discovery.MaxConcurrent <= 0 {
		return fmt.Errorf("discovery.max_concurrent debe ser > 0")
	}

	if c.Sinks.HTTP.Enabled && c.Sinks.HTTP.Endpoint == "" {
		return fmt.Errorf("sinks.http.endpoint es requerido con el sink HTTP activo")
	}

	if c.Sinks.Database.Enabled && c.Sinks.Database.DSN == "" {
		return fmt.Errorf("sinks.database.dsn es requerido con el sink de base de datos activo")
	}

	return nil
}

// DefaultConfig retorna la configuración por defecto
func DefaultConfig() Config {
	var cfg Config
	cfg.SNMP.Community = "public"
	cfg.SNMP.Version = "2c"
	cfg.SNMP.Port = 161
	cfg.SNMP.TimeoutMs = 2000
	cfg.SNMP.Retries = 1
	cfg.Discovery.Enabled = true
	cfg.Discovery.MaxConcurrent = 10
	cfg.Collector.Enabled = true
	cfg.Collector.DelayMs = 50
	cfg.Collector.WalkSensors = true
	cfg.Collector.StateDir = "./state"
	cfg.Sinks.File.Enabled = true
	cfg.Sinks.File.Path = "./queue"
	cfg.Sinks.HTTP.Retries = 3
	cfg.Sinks.HTTP.BackoffMaxSeconds = 60
	cfg.Logging.Verbose = false
	return cfg
}
