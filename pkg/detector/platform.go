package detector

import (
	"strings"
)

// DetectPlatform detecta la plataforma del agente SNMP basándose en sysDescr
func DetectPlatform(sysDescr string) string {
	descLower := strings.ToLower(sysDescr)

	// Espressif
	if matchesPatterns(descLower, []string{"esp8266", "nodemcu", "wemos", "esp-12"}) {
		return "ESP8266"
	}

	if matchesPatterns(descLower, []string{"esp32", "esp-idf"}) {
		return "ESP32"
	}

	// Arduino (WiFi101, WiFiNINA, MKR)
	if matchesPatterns(descLower, []string{"arduino", "mkr", "wifinina", "wifi101"}) {
		return "Arduino"
	}

	// Linux con net-snmp
	if matchesPatterns(descLower, []string{"linux", "net-snmp", "raspberry"}) {
		return "NetSNMP"
	}

	// Generic / Unknown
	return "Generic"
}

// matchesPatterns verifica si descLower contiene alguno de los patrones
func matchesPatterns(descLower string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(descLower, pattern) {
			return true
		}
	}
	return false
}

// GetPlatformConfidence retorna un valor de confianza (0-1) basado en qué tan específico fue el match
func GetPlatformConfidence(sysDescr string, platform string) float64 {
	descLower := strings.ToLower(sysDescr)

	switch platform {
	case "ESP8266":
		if strings.Contains(descLower, "esp8266") {
			return 0.98
		}
		return 0.85
	case "ESP32":
		if strings.Contains(descLower, "esp32") {
			return 0.98
		}
		return 0.85
	case "Arduino":
		if strings.Contains(descLower, "arduino") {
			return 0.95
		}
		return 0.80
	case "NetSNMP":
		if strings.Contains(descLower, "net-snmp") {
			return 0.95
		}
		return 0.70
	case "Generic":
		return 0.50 // Baja confianza para Generic
	}

	return 0.75 // Confianza por defecto
}
