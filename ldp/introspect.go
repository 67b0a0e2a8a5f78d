package ldp

// This file exposes read-only snapshots of Speaker's tables for the
// northbound ldpapi service, mirroring the way the teacher's PCC
// exposes GetState/GetName/GetSessionID under its own mutex
// (pcep/pcc.go) rather than handing out the live structures.

type PeerSnapshot struct {
	RouterID  string
	Interface string
	Role      string
	SessionUp bool
}

func (s *Speaker) SnapshotPeers() []PeerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PeerSnapshot, 0, len(s.peers))
	for _, p := range s.peers {
		out = append(out, PeerSnapshot{
			RouterID:  p.IP.String(),
			Interface: p.Iface,
			Role:      p.Role.String(),
			SessionUp: p.established(),
		})
	}
	return out
}

type FecSnapshot struct {
	Address   string
	PrefixLen int
	NextHop   string
	Local     bool
}

func (s *Speaker) SnapshotFecs() []FecSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FecSnapshot, 0, len(s.fecs))
	for _, f := range s.fecs {
		out = append(out, FecSnapshot{
			Address:   f.Addr.String(),
			PrefixLen: f.PrefixLen,
			NextHop:   f.NextHop.String(),
			Local:     f.local,
		})
	}
	return out
}

type BindingSnapshot struct {
	FecAddress   string
	FecPrefixLen int
	Peer         string
	Label        int
	Direction    string
}

// SnapshotBindings returns every DS and US binding, optionally filtered
// to a single FEC when addr is non-empty.
func (s *Speaker) SnapshotBindings(addr string, prefixLen int) []BindingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []BindingSnapshot
	for _, f := range s.fecs {
		if addr != "" && (f.Addr.String() != addr || f.PrefixLen != prefixLen) {
			continue
		}
		for _, ds := range s.dsBindingsForFec(f.ID) {
			out = append(out, BindingSnapshot{
				FecAddress: f.Addr.String(), FecPrefixLen: f.PrefixLen,
				Peer: ds.Peer.String(), Label: ds.Label, Direction: "DS",
			})
		}
		for _, us := range s.usBindingsForFec(f.ID) {
			out = append(out, BindingSnapshot{
				FecAddress: f.Addr.String(), FecPrefixLen: f.PrefixLen,
				Peer: us.Peer.String(), Label: us.Label, Direction: "US",
			})
		}
	}
	return out
}
