package internal

import (
	"errors"
	"net"
	"os"
	"strings"
)

var errClipboardUnsupported = errors.New("clipboard not supported on this system")

func GetHostname() string {
	name, _ := os.Hostname()
	return name
}

func GetPrimaryIP() string {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if (iface.Flags & net.FlagUp) == 0 { continue }
		addrs, _ := iface.Addrs()
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.IsLoopback() { continue }
			ip = ip.To4()
			if ip == nil { continue }
			return ip.String()
		}
	}
	return ""
}

// PortalURL is the address operators can open for a listen address like ":8080".
func PortalURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil { return "http://" + listen }
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = GetPrimaryIP()
		if host == "" { host = "localhost" }
	}
	return "http://" + net.JoinHostPort(host, strings.TrimSpace(port))
}
