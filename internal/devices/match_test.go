package devices_test

import (
	"errors"
	"testing"

	"taildrop/internal/devices"
)

func TestSnapshotMatch(t *testing.T) {
	snap := devices.Snapshot{Devices: []devices.Device{
		{ID: "n1", Name: "laptop"},
		{ID: "n2", Name: "living-room-tv"},
		{ID: "n3", Name: "phone"},
		{ID: "n4", Name: "pixel-tablet"},
	}}

	tests := []struct {
		name    string
		query   string
		want    string
		wantErr error
	}{
		{name: "exact", query: "laptop", want: "laptop"},
		{name: "exact case and colon", query: "PHONE:", want: "phone"},
		{name: "id", query: "n4", want: "pixel-tablet"},
		{name: "unique prefix", query: "lap", want: "laptop"},
		{name: "ambiguous prefix", query: "l", wantErr: devices.ErrAmbiguous},
		{name: "fuzzy", query: "lvtv", want: "living-room-tv"},
		{name: "no match", query: "toaster", wantErr: devices.ErrNoMatch},
		{name: "empty", query: " ", wantErr: devices.ErrNoMatch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := snap.Match(tc.query)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Match(%q) error = %v, want %v", tc.query, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Match(%q): %v", tc.query, err)
			}
			if got.Name != tc.want {
				t.Fatalf("Match(%q) = %q, want %q", tc.query, got.Name, tc.want)
			}
		})
	}
}

func TestAmbiguousErrorListsCandidates(t *testing.T) {
	snap := devices.Snapshot{Devices: []devices.Device{{Name: "pi-a"}, {Name: "pi-b"}}}
	_, err := snap.Match("pi")
	var amb *devices.AmbiguousError
	if !errors.As(err, &amb) {
		t.Fatalf("expected AmbiguousError, got %v", err)
	}
	if len(amb.Candidates) != 2 {
		t.Fatalf("unexpected candidates %v", amb.Candidates)
	}
}
