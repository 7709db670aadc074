// Package snmpcfg define la configuración de compilación del agente SNMP:
// qué estrategia de almacenamiento usan los datos SNMP y su capacidad nominal.
package snmpcfg

import "fmt"

// StorageMode identifica la estrategia de almacenamiento de los datos SNMP
type StorageMode int

const (
	// StorageStream usa buffers de capacidad fija, reservados por adelantado
	StorageStream StorageMode = 0

	// StorageVector usa secuencias de tamaño dinámico
	StorageVector StorageMode = 1
)

// Capacity es la capacidad nominal del buffer en modo stream.
// Se ignora cuando se usan vectores.
const Capacity = 6

// String retorna el nombre legible del modo
func (m StorageMode) String() string {
	switch m {
	case StorageStream:
		return "stream"
	case StorageVector:
		return "vector"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// Valid indica si el modo es uno de los definidos
func (m StorageMode) Valid() bool {
	return m == StorageStream || m == StorageVector
}
