package storage

import (
	"sync"

	"github.com/gosnmp/gosnmp"

	"github.com/yash/sensor-snmp/pkg/snmpcfg"
)

// VectorStore crece según se necesite, no tiene capacidad máxima
type VectorStore struct {
	mu    sync.Mutex
	items []gosnmp.SnmpPDU
}

// NewVectorStore crea un store vacío
func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

// Append agrega el varbind; nunca falla
func (v *VectorStore) Append(pdu gosnmp.SnmpPDU) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = append(v.items, pdu)
	return nil
}

// Len retorna la cantidad de varbinds guardados
func (v *VectorStore) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.items)
}

// Cap retorna -1 (sin límite)
func (v *VectorStore) Cap() int {
	return -1
}

// Items retorna una copia de los varbinds
func (v *VectorStore) Items() []gosnmp.SnmpPDU {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]gosnmp.SnmpPDU, len(v.items))
	copy(out, v.items)
	return out
}

// Reset vacía el store
func (v *VectorStore) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = nil
}

// Mode retorna snmpcfg.StorageVector
func (v *VectorStore) Mode() snmpcfg.StorageMode {
	return snmpcfg.StorageVector
}
