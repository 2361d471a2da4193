package devices

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultIngressHostname is the hostname tailscale gives its funnel ingress nodes.
	DefaultIngressHostname = "funnel-ingress-node"
	// UnknownName is shown for peers that report neither a DNS name nor a hostname.
	UnknownName = "Unknown"
)

// Options tunes Build.
type Options struct {
	IngressHostname string
}

// Build derives the ordered device list from a status payload. Peers are
// visited in key order so the result is deterministic for equal names.
func Build(payload Payload, opts Options) []Device {
	ingress := opts.IngressHostname
	if ingress == "" {
		ingress = DefaultIngressHostname
	}

	var selfUser int64
	if payload.Self != nil {
		selfUser = payload.Self.UserID
	}

	keys := make([]string, 0, len(payload.Peer))
	for key := range payload.Peer {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	devices := make([]Device, 0, len(keys))
	for _, key := range keys {
		peer := payload.Peer[key]
		if peer == nil || peer.HostName == ingress {
			continue
		}
		if selfUser != 0 && peer.UserID != 0 && peer.UserID != selfUser {
			continue
		}
		id := peer.ID
		if id == "" {
			id = key
		}
		devices = append(devices, Device{
			ID:        id,
			Name:      displayName(peer),
			Online:    peer.Online,
			OS:        peer.OS,
			Addresses: append([]string(nil), peer.TailscaleIPs...),
		})
	}

	fold := cases.Lower(language.Und)
	sort.SliceStable(devices, func(i, j int) bool {
		if devices[i].Online != devices[j].Online {
			return devices[i].Online
		}
		return fold.String(devices[i].Name) < fold.String(devices[j].Name)
	})
	return devices
}

func displayName(peer *PeerStatus) string {
	if dns := strings.TrimSpace(peer.DNSName); dns != "" {
		if label, _, _ := strings.Cut(dns, "."); label != "" {
			return label
		}
	}
	if host := strings.TrimSpace(peer.HostName); host != "" {
		return host
	}
	return UnknownName
}
