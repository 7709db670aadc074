//go:build !snmpstream

package snmpcfg

// Configuración por defecto: se usan vectores y Capacity no aplica.
//
// Build: go build ./...

// Mode es el modo de almacenamiento activo en este build
const Mode = StorageVector
