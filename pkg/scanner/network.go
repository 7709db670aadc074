package scanner

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ParseIPRange parsea un rango de IPs en formato "192.168.1.1-254" o "192.168.1.0/24"
// Retorna lista de IPs individuales
func ParseIPRange(ipRange string) ([]string, error) {
	ipRange = strings.TrimSpace(ipRange)

	if strings.Contains(ipRange, "/") {
		return parseCIDRFormat(ipRange)
	}

	parts := strings.Split(ipRange, "-")
	if len(parts) == 2 {
		// Formato: 192.168.1.1-254
		return parseRangeFormat(parts[0], parts[1])
	}

	if len(parts) == 1 {
		// IP individual
		if net.ParseIP(ipRange) != nil {
			return []string{ipRange}, nil
		}
		return nil, fmt.Errorf("formato de IP inválido: %s", ipRange)
	}

	return nil, fmt.Errorf("formato de rango inválido: %s. Use: 192.168.1.1-254 o 192.168.1.0/24", ipRange)
}

// parseRangeFormat maneja rangos como "192.168.1.1" y "254"
func parseRangeFormat(startIP, endOctet string) ([]string, error) {
	// Parsear IP inicial
	ip := net.ParseIP(startIP)
	if ip == nil {
		return nil, fmt.Errorf("IP inicial inválida: %s", startIP)
	}

	ipv4 := ip.To4()
	if ipv4 == nil {
		return nil, fmt.Errorf("solo se soporta IPv4: %s", startIP)
	}

	// Parsear octeto final
	endNum, err := strconv.Atoi(endOctet)
	if err != nil {
		return nil, fmt.Errorf("octeto final inválido: %s", endOctet)
	}

	if endNum < 0 || endNum > 255 {
		return nil, fmt.Errorf("octeto fuera de rango (0-255): %d", endNum)
	}

	startNum := int(ipv4[3])
	if endNum < startNum {
		return nil, fmt.Errorf("rango descendente no soportado: %s-%s", startIP, endOctet)
	}

	ips := make([]string, 0, endNum-startNum+1)
	for i := startNum; i <= endNum; i++ {
		ips = append(ips, net.IPv4(ipv4[0], ipv4[1], ipv4[2], byte(i)).String())
	}

	return ips, nil
}

// parseCIDRFormat expande una red IPv4, sin dirección de red ni broadcast
func parseCIDRFormat(cidr string) ([]string, error) {
	ip, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("CIDR inválido: %s", cidr)
	}
	if ip.To4() == nil {
		return nil, fmt.Errorf("solo se soporta IPv4: %s", cidr)
	}

	ones, bits := network.Mask.Size()
	if bits-ones > 16 {
		return nil, fmt.Errorf("red demasiado grande (máximo /16): %s", cidr)
	}

	var ips []string
	for addr := network.IP.Mask(network.Mask).To4(); network.Contains(addr); addr = nextIP(addr) {
		ips = append(ips, addr.String())
	}

	// /31 y /32 no tienen red ni broadcast
	if len(ips) > 2 {
		ips = ips[1 : len(ips)-1]
	}

	return ips, nil
}

// nextIP retorna una copia de ip incrementada en uno
func nextIP(ip net.IP) net.IP {
	next := make(net.IP, len(ip))
	copy(next, ip)
	for i := len(next) - 1; i >= 0; i-- {
		next[i]++
		if next[i] != 0 {
			break
		}
	}
	return next
}
