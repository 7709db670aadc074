package storage

import (
	"errors"
	"fmt"

	"github.com/gosnmp/gosnmp"

	"github.com/yash/sensor-snmp/pkg/snmpcfg"
)

var (
	// ErrCapacityExceeded se retorna cuando un buffer stream ya está lleno
	ErrCapacityExceeded = errors.New("storage capacity exceeded")

	// ErrInvalidCapacity se retorna al pedir un buffer stream sin capacidad
	ErrInvalidCapacity = errors.New("invalid storage capacity")

	// ErrUnknownMode se retorna para modos que no son stream ni vector
	ErrUnknownMode = errors.New("unknown storage mode")
)

// Store guarda los varbinds SNMP obtenidos en un poll
type Store interface {
	// Append agrega un varbind al final
	Append(pdu gosnmp.SnmpPDU) error

	// Len retorna cuántos varbinds hay guardados
	Len() int

	// Cap retorna la capacidad máxima, o -1 si no tiene límite
	Cap() int

	// Items retorna una copia de los varbinds en orden de llegada
	Items() []gosnmp.SnmpPDU

	// Reset vacía el store conservando su capacidad
	Reset()

	// Mode retorna la estrategia de almacenamiento
	Mode() snmpcfg.StorageMode
}

// New crea el store del modo elegido en compilación (snmpcfg.Mode)
func New() Store {
	// Mode y Capacity son constantes válidas, NewForMode no puede fallar aquí
	store, err := NewForMode(snmpcfg.Mode, snmpcfg.Capacity)
	if err != nil {
		panic(err)
	}
	return store
}

// NewForMode crea un store para un modo explícito.
// En modo vector la capacidad se ignora.
func NewForMode(mode snmpcfg.StorageMode, capacity int) (Store, error) {
	switch mode {
	case snmpcfg.StorageStream:
		if capacity <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
		}
		return NewStreamStore(capacity), nil
	case snmpcfg.StorageVector:
		return NewVectorStore(), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}
}
