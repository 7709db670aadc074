package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yash/sensor-snmp/pkg/scanner"
	"github.com/yash/sensor-snmp/pkg/snmpcfg"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
snmp:
  community: sensors
discovery:
  ip_range: 192.168.4.0/24
sinks:
  file:
    compress: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.SNMP.Community != "sensors" {
		t.Errorf("Community = %q, want sensors", cfg.SNMP.Community)
	}
	if cfg.SNMP.Port != 161 || cfg.SNMP.Version != "2c" {
		t.Errorf("defaults lost: port=%d version=%q", cfg.SNMP.Port, cfg.SNMP.Version)
	}
	if cfg.Discovery.IPRange != "192.168.4.0/24" {
		t.Errorf("IPRange = %q", cfg.Discovery.IPRange)
	}
	if !cfg.Sinks.File.Enabled || !cfg.Sinks.File.Compress {
		t.Errorf("file sink = %+v, want enabled and compressed", cfg.Sinks.File)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := map[string]string{
		"bad yaml":        "snmp: [",
		"bad version":     "snmp:\n  version: \"3\"\n",
		"http no url":     "sinks:\n  http:\n    enabled: true\n",
		"db no dsn":       "sinks:\n  database:\n    enabled: true\n",
		"zero concurrent": "discovery:\n  max_concurrent: 0\n",
	}

	for name, content := range tests {
		if _, err := LoadConfig(writeConfig(t, content)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file: expected error")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestBuildSinks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sinks.File.Path = t.TempDir()

	out, err := buildSinks(cfg)
	if err != nil {
		t.Fatalf("buildSinks: %v", err)
	}
	defer out.Close()

	if out.Len() != 1 {
		t.Errorf("Len() = %d, want 1", out.Len())
	}

	cfg.Sinks.File.Enabled = false
	if _, err := buildSinks(cfg); err == nil {
		t.Error("expected error with every sink disabled")
	}
}

func TestToDeviceInfos(t *testing.T) {
	cfg := DefaultConfig()
	infos := toDeviceInfos(cfg, []scanner.DiscoveryResult{
		{IP: "192.168.4.20", SysDescr: "WiFi sensor ESP8266"},
	})

	if len(infos) != 1 || infos[0].Platform != "ESP8266" || infos[0].Community != "public" {
		t.Errorf("infos = %+v", infos)
	}
}

func TestCapacityLabel(t *testing.T) {
	want := "ignored"
	if snmpcfg.Mode == snmpcfg.StorageStream {
		want = "6"
	}
	if got := capacityLabel(); got != want {
		t.Errorf("capacityLabel() = %q, want %q", got, want)
	}
}
