package snmp

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gosnmp/gosnmp"
)

// SNMPClient wrapper alrededor de gosnmp para manejar SNMP v1/v2c
type SNMPClient struct {
	host      string
	port      uint16
	community string
	version   string
	timeout   time.Duration
	retries   int
}

// NewSNMPClient crea un nuevo cliente SNMP
func NewSNMPClient(host string, port uint16, community, version string, timeout time.Duration, retries int) *SNMPClient {
	return &SNMPClient{
		host:      host,
		port:      port,
		community: community,
		version:   version,
		timeout:   timeout,
		retries:   retries,
	}
}

// Get obtiene un único valor OID como string
func (sc *SNMPClient) Get(ctx context.Context, oid string) (string, error) {
	pdus, err := sc.GetPDUs(ctx, []string{oid})
	if err != nil {
		return "", err
	}

	if len(pdus) == 0 {
		return "", fmt.Errorf("sin respuesta para OID: %s", oid)
	}

	return ParseValue(pdus[0]), nil
}

// GetPDUs obtiene varios OIDs en un solo GET y retorna los varbinds crudos
func (sc *SNMPClient) GetPDUs(ctx context.Context, oids []string) ([]gosnmp.SnmpPDU, error) {
	if len(oids) == 0 {
		return nil, nil
	}

	client, err := sc.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Conn.Close()

	result, err := client.Get(oids)
	if err != nil {
		return nil, fmt.Errorf("error SNMP GET: %w", err)
	}

	if result == nil {
		return nil, fmt.Errorf("sin respuesta para OIDs %v", oids)
	}

	// Verificar si hay error en la respuesta
	if result.Error != gosnmp.NoError {
		return nil, fmt.Errorf("SNMP error %d: %s", result.Error, result.Error.String())
	}

	return result.Variables, nil
}

// WalkResult contiene resultado de un SNMP WALK
type WalkResult struct {
	OID   string
	Value string
}

// Walk realiza SNMP WALK de un OID base
func (sc *SNMPClient) Walk(ctx context.Context, baseOID string) ([]WalkResult, error) {
	var results []WalkResult

	err := sc.WalkPDUs(ctx, baseOID, func(dataUnit gosnmp.SnmpPDU) error {
		results = append(results, WalkResult{
			OID:   dataUnit.Name,
			Value: ParseValue(dataUnit),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// WalkPDUs recorre el subárbol baseOID llamando fn por cada varbind.
// Si fn retorna error el walk se detiene y el error se propaga.
func (sc *SNMPClient) WalkPDUs(ctx context.Context, baseOID string, fn gosnmp.WalkFunc) error {
	client, err := sc.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Conn.Close()

	// v1 no tiene GETBULK
	if client.Version == gosnmp.Version1 {
		err = client.Walk(baseOID, fn)
	} else {
		err = client.BulkWalk(baseOID, fn)
	}
	if err != nil {
		return fmt.Errorf("error en SNMP WALK %s: %w", baseOID, err)
	}

	return nil
}

// ValidateConnection valida si es posible conectar
func (sc *SNMPClient) ValidateConnection(ctx context.Context) error {
	client, err := sc.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Conn.Close()
	return nil
}

// connect establece conexión SNMP
func (sc *SNMPClient) connect(ctx context.Context) (*gosnmp.GoSNMP, error) {
	params := &gosnmp.GoSNMP{
		Target:    sc.host,
		Port:      sc.port,
		Community: sc.community,
		Version:   ParseVersion(sc.version),
		Timeout:   sc.timeout,
		Retries:   sc.retries,
		Context:   ctx,
	}

	err := params.Connect()
	if err != nil {
		return nil, fmt.Errorf("error conectando a %s:%d: %w", sc.host, sc.port, err)
	}

	return params, nil
}

// ParseVersion traduce "1" / "2c" a la versión de gosnmp (2c por defecto)
func ParseVersion(version string) gosnmp.SnmpVersion {
	switch version {
	case "1":
		return gosnmp.Version1
	case "2c":
		return gosnmp.Version2c
	default:
		return gosnmp.Version2c
	}
}

// ParseValue convierte un varbind a string
func ParseValue(variable gosnmp.SnmpPDU) string {
	if variable.Value == nil {
		return ""
	}

	switch v := variable.Value.(type) {
	case string:
		// Limpiar null terminators
		return strings.TrimRight(v, "\x00")
	case []byte:
		// Si es exactamente 6 bytes, asumir que es MAC address en formato binario
		if len(v) == 6 && !isLikelyText(v) {
			hexStr := hex.EncodeToString(v)
			return fmt.Sprintf("%s:%s:%s:%s:%s:%s", hexStr[0:2], hexStr[2:4], hexStr[4:6], hexStr[6:8], hexStr[8:10], hexStr[10:12])
		}

		if utf8.Valid(v) && isLikelyText(v) {
			return strings.TrimRight(string(v), "\x00")
		}

		// Binario que no es texto: se deja en hex
		return hex.EncodeToString(v)
	case int:
		return fmt.Sprintf("%d", v)
	case uint:
		return fmt.Sprintf("%d", v)
	case uint32:
		return fmt.Sprintf("%d", v)
	case uint64:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// TypeName retorna un nombre corto para el tipo ASN.1 del varbind
func TypeName(t gosnmp.Asn1BER) string {
	switch t {
	case gosnmp.Integer:
		return "integer"
	case gosnmp.OctetString:
		return "string"
	case gosnmp.ObjectIdentifier:
		return "oid"
	case gosnmp.IPAddress:
		return "ipaddress"
	case gosnmp.Counter32:
		return "counter32"
	case gosnmp.Gauge32:
		return "gauge32"
	case gosnmp.TimeTicks:
		return "timeticks"
	case gosnmp.Counter64:
		return "counter64"
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView:
		return "missing"
	default:
		return "other"
	}
}

// isLikelyText verifica si bytes parecen ser texto (no caracteres de control raros)
func isLikelyText(b []byte) bool {
	if len(b) == 0 {
		return false
	}

	// Contar cuántos bytes son caracteres imprimibles o espacios en blanco
	printableCount := 0
	for _, c := range b {
		// ASCII printable: 32-126, más tab/newline/carriage return
		if (c >= 32 && c <= 126) || c == 9 || c == 10 || c == 13 {
			printableCount++
		}
	}

	// Si al menos el 80% de los bytes son imprimibles, parece texto
	return float64(printableCount)/float64(len(b)) >= 0.8
}
