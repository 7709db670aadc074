package oids

import "strings"

// OIDQuery asocia un nombre legible a un OID de consulta directa
type OIDQuery struct {
	Name string
	OID  string
}

// ExtractOIDs extrae solo los OIDs de una lista de OIDQuery
func ExtractOIDs(queries []OIDQuery) []string {
	result := make([]string, len(queries))
	for i, q := range queries {
		result[i] = q.OID
	}
	return result
}

// Grupo system de SNMPv2-MIB (RFC 3418)
const (
	SystemBase     = "1.3.6.1.2.1.1"
	SysDescr       = "1.3.6.1.2.1.1.1.0"
	SysObjectID    = "1.3.6.1.2.1.1.2.0"
	SysUpTime      = "1.3.6.1.2.1.1.3.0"
	SysContact     = "1.3.6.1.2.1.1.4.0"
	SysName        = "1.3.6.1.2.1.1.5.0"
	SysLocation    = "1.3.6.1.2.1.1.6.0"
	InterfaceMAC   = "1.3.6.1.2.1.2.2.1.6.1"
	InterfaceSpeed = "1.3.6.1.2.1.2.2.1.5.1"
)

// Subárbol privado del sensor WiFi
const (
	SensorBase        = "1.3.6.1.4.1.54321.1"
	SensorTemperature = "1.3.6.1.4.1.54321.1.1.0" // décimas de °C
	SensorHumidity    = "1.3.6.1.4.1.54321.1.2.0" // décimas de %RH
	SensorRSSI        = "1.3.6.1.4.1.54321.1.3.0" // dBm
	SensorFreeHeap    = "1.3.6.1.4.1.54321.1.4.0" // bytes
)

// SystemQueries son los escalares del grupo system.
// Son seis, lo que entra en un buffer stream de capacidad nominal.
var SystemQueries = []OIDQuery{
	{Name: "sysDescr", OID: SysDescr},
	{Name: "sysObjectID", OID: SysObjectID},
	{Name: "sysUpTime", OID: SysUpTime},
	{Name: "sysContact", OID: SysContact},
	{Name: "sysName", OID: SysName},
	{Name: "sysLocation", OID: SysLocation},
}

// IdentityQueries identifican al equipo más allá del grupo system.
// Se piden en un GET aparte, después del grupo system.
var IdentityQueries = []OIDQuery{
	{Name: "ifPhysAddress", OID: InterfaceMAC},
}

// SensorQueries son las lecturas del sensor
var SensorQueries = []OIDQuery{
	{Name: "temperature", OID: SensorTemperature},
	{Name: "humidity", OID: SensorHumidity},
	{Name: "rssi", OID: SensorRSSI},
	{Name: "freeHeap", OID: SensorFreeHeap},
}

// PlatformWalks define subárboles extra por plataforma
var PlatformWalks = map[string][]string{
	"NetSNMP": {"1.3.6.1.4.1.2021.4"}, // UCD-SNMP-MIB memory
}

var names = func() map[string]string {
	m := make(map[string]string)
	for _, q := range SystemQueries {
		m[q.OID] = q.Name
	}
	for _, q := range SensorQueries {
		m[q.OID] = q.Name
	}
	for _, q := range IdentityQueries {
		m[q.OID] = q.Name
	}
	m[InterfaceSpeed] = "ifSpeed"
	return m
}()

// NameFor retorna el nombre conocido de un OID, o "" si no se conoce.
// Acepta el formato con punto inicial que retorna gosnmp.
func NameFor(oid string) string {
	return names[strings.TrimPrefix(oid, ".")]
}
