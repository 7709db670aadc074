package storage

import (
	"fmt"
	"sync"

	"github.com/gosnmp/gosnmp"

	"github.com/yash/sensor-snmp/pkg/snmpcfg"
)

// StreamStore es un buffer de capacidad fija reservado al crearse
type StreamStore struct {
	mu    sync.Mutex
	items []gosnmp.SnmpPDU
}

// NewStreamStore crea un buffer con espacio para capacity varbinds.
// Una capacidad negativa se toma como 0: el buffer rechaza todo Append.
func NewStreamStore(capacity int) *StreamStore {
	if capacity < 0 {
		capacity = 0
	}
	return &StreamStore{
		items: make([]gosnmp.SnmpPDU, 0, capacity),
	}
}

// Append agrega el varbind si queda espacio.
// Con el buffer lleno retorna ErrCapacityExceeded y no modifica nada.
func (s *StreamStore) Append(pdu gosnmp.SnmpPDU) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == cap(s.items) {
		return fmt.Errorf("%w: %d/%d, oid %s", ErrCapacityExceeded, len(s.items), cap(s.items), pdu.Name)
	}
	s.items = append(s.items, pdu)
	return nil
}

// Len retorna la cantidad de varbinds guardados
func (s *StreamStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Cap retorna la capacidad fija del buffer
func (s *StreamStore) Cap() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cap(s.items)
}

// Items retorna una copia de los varbinds
func (s *StreamStore) Items() []gosnmp.SnmpPDU {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]gosnmp.SnmpPDU, len(s.items))
	copy(out, s.items)
	return out
}

// Reset vacía el buffer sin liberar la memoria reservada
func (s *StreamStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = s.items[:0]
}

// Mode retorna snmpcfg.StorageStream
func (s *StreamStore) Mode() snmpcfg.StorageMode {
	return snmpcfg.StorageStream
}
