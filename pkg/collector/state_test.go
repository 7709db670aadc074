package collector

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCalculateDeltaFirstPoll(t *testing.T) {
	sm, err := NewStateManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewStateManager: %v", err)
	}

	delta, err := sm.CalculateDelta("10.0.0.1", map[string]string{"temperature": "215"})
	if err != nil || delta != nil {
		t.Fatalf("first poll = %v, %v; want nil, nil", delta, err)
	}
}

func TestCalculateDeltaChanges(t *testing.T) {
	sm, _ := NewStateManager(t.TempDir())

	previous := map[string]string{"sysUpTime": "5000", "temperature": "215", "humidity": "400"}
	if err := sm.SaveState("10.0.0.1", previous); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	current := map[string]string{"sysUpTime": "6000", "temperature": "220", "humidity": "400", "rssi": "-61"}
	delta, err := sm.CalculateDelta("10.0.0.1", current)
	if err != nil {
		t.Fatalf("CalculateDelta: %v", err)
	}

	want := []string{"rssi", "sysUpTime", "temperature"}
	if len(delta.Changed) != len(want) {
		t.Fatalf("Changed = %v, want %v", delta.Changed, want)
	}
	for i := range want {
		if delta.Changed[i] != want[i] {
			t.Errorf("Changed[%d] = %q, want %q", i, delta.Changed[i], want[i])
		}
	}
	if delta.RestartDetected {
		t.Error("RestartDetected = true, uptime grew")
	}
}

func TestCalculateDeltaRestart(t *testing.T) {
	sm, _ := NewStateManager(t.TempDir())
	_ = sm.SaveState("10.0.0.1", map[string]string{"sysUpTime": "900000"})

	delta, err := sm.CalculateDelta("10.0.0.1", map[string]string{"sysUpTime": "120"})
	if err != nil {
		t.Fatalf("CalculateDelta: %v", err)
	}
	if !delta.RestartDetected {
		t.Error("RestartDetected = false, uptime went backwards")
	}
}

func TestLoadStateCorrupt(t *testing.T) {
	dir := t.TempDir()
	sm, _ := NewStateManager(dir)

	if err := os.WriteFile(filepath.Join(dir, "sensor_10.0.0.1.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := sm.LoadState("10.0.0.1"); err == nil {
		t.Fatal("expected error for corrupt state")
	}
}

func TestValuesFromReadings(t *testing.T) {
	values := ValuesFromReadings([]Reading{
		{OID: ".1.3.6.1.2.1.1.5.0", Name: "sysName", Value: "sensor-01"},
		{OID: ".1.3.6.1.4.1.2021.4.6.0", Value: "1024"},
	})

	if values["sysName"] != "sensor-01" || values[".1.3.6.1.4.1.2021.4.6.0"] != "1024" {
		t.Errorf("values = %v", values)
	}
}

func TestCalculateDeltaRemoved(t *testing.T) {
	sm, _ := NewStateManager(t.TempDir())
	_ = sm.SaveState("5ccf7f010203", map[string]string{"temperature": "215", "humidity": "400", "rssi": "-60"})

	delta, err := sm.CalculateDelta("5ccf7f010203", map[string]string{"temperature": "215"})
	if err != nil {
		t.Fatalf("CalculateDelta: %v", err)
	}

	if len(delta.Changed) != 0 {
		t.Errorf("Changed = %v, want none", delta.Changed)
	}
	if len(delta.Removed) != 2 || delta.Removed[0] != "humidity" || delta.Removed[1] != "rssi" {
		t.Errorf("Removed = %v, want [humidity rssi]", delta.Removed)
	}
}

func TestStateFilenameStaysInDir(t *testing.T) {
	dir := t.TempDir()
	sm, _ := NewStateManager(dir)

	got := sm.getStateFilename(`../x\y`)
	if filepath.Dir(got) != dir {
		t.Errorf("state file %q escapes %q", got, dir)
	}
}
