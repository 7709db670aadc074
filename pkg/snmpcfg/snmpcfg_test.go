package snmpcfg

import "testing"

func TestConstantValues(t *testing.T) {
	if int(StorageStream) != 0 {
		t.Errorf("StorageStream = %d, want 0", StorageStream)
	}
	if int(StorageVector) != 1 {
		t.Errorf("StorageVector = %d, want 1", StorageVector)
	}
	if Capacity != 6 {
		t.Errorf("Capacity = %d, want 6", Capacity)
	}
}

func TestModeIsOneOfTheDefinedModes(t *testing.T) {
	if !Mode.Valid() {
		t.Fatalf("Mode %v is not a defined storage mode", Mode)
	}
}

func TestStorageModeString(t *testing.T) {
	tests := []struct {
		mode StorageMode
		want string
	}{
		{StorageStream, "stream"},
		{StorageVector, "vector"},
		{StorageMode(7), "unknown(7)"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("StorageMode(%d).String() = %q, want %q", int(tt.mode), got, tt.want)
		}
	}
}

func TestStorageModeValid(t *testing.T) {
	if StorageMode(-1).Valid() || StorageMode(2).Valid() {
		t.Error("values outside stream/vector must not be valid")
	}
}
