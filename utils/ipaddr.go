package utils

import "net"
import "strings"

// Returns 4 or 6 depending on the address family, or 0 if the string is not
// a valid IP address.
func GetIPVersion(ipString string) int {
	ip := net.ParseIP(ipString)
	if ip == nil {
		return 0
	} else if ip.To4() != nil && !strings.Contains(ipString, ":") {
		return 4
	} else {
		return 6
	}
}

func IsPrivate(ipString string) bool {
	ip := net.ParseIP(ipString)
	if ip == nil {
		return false
	}
	privateBlocks := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"fd00::/8",
	}
	for _, block := range privateBlocks {
		_, ipNet, err := net.ParseCIDR(block)
		if err != nil {
			panic(err)
		}
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}
