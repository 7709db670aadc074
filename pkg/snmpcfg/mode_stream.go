//go:build snmpstream

package snmpcfg

// Configuración con buffers de capacidad fija (Capacity elementos).
// Pensada para equipos con poca memoria.
//
// Build: go build -tags snmpstream ./...

// Mode es el modo de almacenamiento activo en este build
const Mode = StorageStream
