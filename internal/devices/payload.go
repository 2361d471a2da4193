package devices

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedResponse reports a status payload that is not valid JSON.
var ErrMalformedResponse = errors.New("malformed status response")

// Payload is the subset of `tailscale status --json` taildrop reads.
type Payload struct {
	Self *PeerStatus            `json:"Self"`
	Peer map[string]*PeerStatus `json:"Peer"`
}

// PeerStatus is one node entry of the status payload.
type PeerStatus struct {
	ID           string   `json:"ID"`
	HostName     string   `json:"HostName"`
	DNSName      string   `json:"DNSName"`
	OS           string   `json:"OS"`
	Online       bool     `json:"Online"`
	UserID       int64    `json:"UserID"`
	TailscaleIPs []string `json:"TailscaleIPs"`
}

// Decode parses raw status output.
func Decode(data []byte) (Payload, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return payload, nil
}
