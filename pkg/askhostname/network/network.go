// Package network provides CIDR host enumeration for range scans.
package network

import (
	"net"
)

// HostAddrs returns every usable host address in an IPv4 CIDR block,
// excluding the network and broadcast addresses. IPv6 blocks yield nil.
func HostAddrs(ipnet *net.IPNet) []net.IP {
	base := ipnet.IP.To4()
	if base == nil {
		return nil
	}
	mask := net.IP(ipnet.Mask).To4()
	if mask == nil {
		return nil
	}
	network := ipToUint32(base) & ipToUint32(mask)
	broadcast := network | ^ipToUint32(mask)

	var res []net.IP
	for u := network + 1; u < broadcast; u++ {
		res = append(res, uint32ToIP(u))
	}
	return res
}

// EnumerateIPs parses a CIDR and returns its usable host addresses.
func EnumerateIPs(cidr string) ([]net.IP, error) {
	_, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, err
	}
	return HostAddrs(ipnet), nil
}

// IsPrivateIP checks if an IP address is in private (RFC 1918) address space.
func IsPrivateIP(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 10 || // 10.0.0.0/8
			(ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31) || // 172.16.0.0/12
			(ip4[0] == 192 && ip4[1] == 168) // 192.168.0.0/16
	}
	return false
}

func ipToUint32(ip net.IP) uint32 {
	ip = ip.To4()
	return uint32(ip[0])<<24 | uint32(ip[1])<<16 | uint32(ip[2])<<8 | uint32(ip[3])
}

func uint32ToIP(u uint32) net.IP {
	return net.IPv4(byte(u>>24), byte(u>>16), byte(u>>8), byte(u))
}
