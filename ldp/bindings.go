package ldp

import "net"

// DSBinding is a downstream-received label binding, per spec.md §3: at
// most one per (FEC id, peer).
type DSBinding struct {
	FecID   uint64
	Peer    net.IP
	PeerPtr *Peer
	Label   int
}

// USBinding is an upstream-sent label binding, per spec.md §3: at most
// one per (FEC id, peer), with a LIB cross-connect keyed by Label for as
// long as the binding exists.
type USBinding struct {
	FecID   uint64
	Peer    net.IP
	PeerPtr *Peer
	Label   int
}

// PendingRequest records an upstream request this router could not yet
// satisfy, per spec.md §3.
type PendingRequest struct {
	FecID   uint64
	Peer    net.IP
	PeerPtr *Peer
}

// bindingTables holds the DS/US binding sets and the pending-request set,
// all keyed first by FEC id then by peer address string. The Speaker is
// the exclusive owner/mutator (spec.md §5).
type bindingTables struct {
	ds      map[uint64]map[string]*DSBinding
	us      map[uint64]map[string]*USBinding
	pending map[uint64]map[string]*PendingRequest
}

func newBindingTables() *bindingTables {
	return &bindingTables{
		ds:      make(map[uint64]map[string]*DSBinding),
		us:      make(map[uint64]map[string]*USBinding),
		pending: make(map[uint64]map[string]*PendingRequest),
	}
}

func (s *Speaker) dsBinding(fecID uint64, peer net.IP) (*DSBinding, bool) {
	m, ok := s.bindings.ds[fecID]
	if !ok {
		return nil, false
	}
	b, ok := m[peer.String()]
	return b, ok
}

func (s *Speaker) usBinding(fecID uint64, peer net.IP) (*USBinding, bool) {
	m, ok := s.bindings.us[fecID]
	if !ok {
		return nil, false
	}
	b, ok := m[peer.String()]
	return b, ok
}

func (s *Speaker) addDS(fecID uint64, p *Peer, label int) *DSBinding {
	m, ok := s.bindings.ds[fecID]
	if !ok {
		m = make(map[string]*DSBinding)
		s.bindings.ds[fecID] = m
	}
	b := &DSBinding{FecID: fecID, Peer: p.IP, PeerPtr: p, Label: label}
	m[p.IP.String()] = b
	return b
}

func (s *Speaker) addUS(fecID uint64, p *Peer, label int) *USBinding {
	m, ok := s.bindings.us[fecID]
	if !ok {
		m = make(map[string]*USBinding)
		s.bindings.us[fecID] = m
	}
	b := &USBinding{FecID: fecID, Peer: p.IP, PeerPtr: p, Label: label}
	m[p.IP.String()] = b
	return b
}

func (s *Speaker) addPending(fecID uint64, p *Peer) {
	m, ok := s.bindings.pending[fecID]
	if !ok {
		m = make(map[string]*PendingRequest)
		s.bindings.pending[fecID] = m
	}
	m[p.IP.String()] = &PendingRequest{FecID: fecID, Peer: p.IP, PeerPtr: p}
}

func (s *Speaker) removeDS(fecID uint64, peer net.IP) {
	if m, ok := s.bindings.ds[fecID]; ok {
		delete(m, peer.String())
		if len(m) == 0 {
			delete(s.bindings.ds, fecID)
		}
	}
}

func (s *Speaker) removeUS(fecID uint64, peer net.IP) {
	if m, ok := s.bindings.us[fecID]; ok {
		delete(m, peer.String())
		if len(m) == 0 {
			delete(s.bindings.us, fecID)
		}
	}
}

func (s *Speaker) removePending(fecID uint64, peer net.IP) {
	if m, ok := s.bindings.pending[fecID]; ok {
		delete(m, peer.String())
		if len(m) == 0 {
			delete(s.bindings.pending, fecID)
		}
	}
}

func (s *Speaker) removeAllDS(fecID uint64) {
	delete(s.bindings.ds, fecID)
}

func (s *Speaker) removeAllUS(fecID uint64) {
	delete(s.bindings.us, fecID)
}

func (s *Speaker) removeAllPending(fecID uint64) {
	delete(s.bindings.pending, fecID)
}

func (s *Speaker) dsBindingsForFec(fecID uint64) []*DSBinding {
	m := s.bindings.ds[fecID]
	out := make([]*DSBinding, 0, len(m))
	for _, b := range m {
		out = append(out, b)
	}
	return out
}

func (s *Speaker) usBindingsForFec(fecID uint64) []*USBinding {
	m := s.bindings.us[fecID]
	out := make([]*USBinding, 0, len(m))
	for _, b := range m {
		out = append(out, b)
	}
	return out
}

func (s *Speaker) pendingForFec(fecID uint64) []*PendingRequest {
	m := s.bindings.pending[fecID]
	out := make([]*PendingRequest, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	return out
}

// purgeBindingsForPeer removes every DS and US binding involving peer,
// without transmitting WITHDRAW/RELEASE, per spec.md §4.1 (hello-timeout
// handler) and §4.2 (session loss): the session is already gone.
func (s *Speaker) purgeBindingsForPeer(peer net.IP) (affectedFecs map[uint64]bool) {
	affectedFecs = make(map[uint64]bool)
	key := peer.String()
	for fecID, m := range s.bindings.ds {
		if _, ok := m[key]; ok {
			delete(m, key)
			if len(m) == 0 {
				delete(s.bindings.ds, fecID)
			}
			affectedFecs[fecID] = true
		}
	}
	for fecID, m := range s.bindings.us {
		if _, ok := m[key]; ok {
			delete(m, key)
			if len(m) == 0 {
				delete(s.bindings.us, fecID)
			}
			affectedFecs[fecID] = true
		}
	}
	for fecID, m := range s.bindings.pending {
		if _, ok := m[key]; ok {
			delete(m, key)
			if len(m) == 0 {
				delete(s.bindings.pending, fecID)
			}
		}
	}
	return affectedFecs
}
