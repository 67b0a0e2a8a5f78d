package ldp

import (
	"net"
	"sort"

	"github.com/golang/glog"
)

// FEC is a prefix Forwarding Equivalence Class element, per spec.md §3.
type FEC struct {
	ID        uint64
	Addr      net.IP
	PrefixLen int
	NextHop   net.IP

	// local marks a host FEC derived from one of our own interface
	// addresses; these are egress by definition and never run through
	// reconcile (spec.md §4.3).
	local bool
}

func fecKeyOf(addr net.IP, prefixLen int) string {
	return addr.String() + "/" + itoa(prefixLen)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b [8]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		b[i] = '-'
	}
	return string(b[i:])
}

// sortFecs enforces the longest-prefix-first ordering invariant required
// by spec.md §4.3/§8 (property 5): classification must find the
// longest-matching prefix first.
func sortFecs(fecs []*FEC) {
	sort.SliceStable(fecs, func(i, j int) bool {
		return fecs[i].PrefixLen > fecs[j].PrefixLen
	})
}

// rebuildFecList recomputes the FEC list from the current routing table
// and local interface addresses, per spec.md §4.3. It deprecates the FECs
// that were present before and are not carried over, then runs reconcile
// on the newly inserted and next-hop-changed ones.
func (s *Speaker) rebuildFecList(routes []Route, ifaces []LocalInterface) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]*FEC, len(s.fecs))
	for _, f := range s.fecs {
		existing[fecKeyOf(f.Addr, f.PrefixLen)] = f
	}
	carried := make(map[string]bool, len(s.fecs))
	var next []*FEC
	var toReconcile []*FEC

	for _, r := range routes {
		if r.Multicast {
			continue
		}
		nextHop := r.Gateway
		if r.Kind == RouteDirect {
			nextHop = r.Dest
		}
		key := fecKeyOf(r.Dest, r.PrefixLen)
		if old, ok := existing[key]; ok {
			carried[key] = true
			if !old.NextHop.Equal(nextHop) {
				s.onNextHopChanged(old, nextHop)
				old.NextHop = nextHop
				next = append(next, old)
				toReconcile = append(toReconcile, old)
			} else {
				next = append(next, old)
			}
			continue
		}
		f := &FEC{ID: s.nextFecID, Addr: r.Dest, PrefixLen: r.PrefixLen, NextHop: nextHop}
		s.nextFecID++
		carried[key] = true
		next = append(next, f)
		toReconcile = append(toReconcile, f)
	}

	for _, ifc := range ifaces {
		if !ifc.Up || ifc.Addr == nil {
			continue
		}
		key := fecKeyOf(ifc.Addr, 32)
		if old, ok := existing[key]; ok {
			carried[key] = true
			old.local = true
			next = append(next, old)
			continue
		}
		f := &FEC{ID: s.nextFecID, Addr: ifc.Addr, PrefixLen: 32, NextHop: ifc.Addr, local: true}
		s.nextFecID++
		carried[key] = true
		next = append(next, f)
	}

	var deprecated []*FEC
	for key, f := range existing {
		if !carried[key] {
			deprecated = append(deprecated, f)
		}
	}

	sortFecs(next)
	s.fecs = next
	s.fecByID = make(map[uint64]*FEC, len(next))
	for _, f := range next {
		s.fecByID[f.ID] = f
	}

	for _, f := range deprecated {
		s.deprecateFecLocked(f)
	}
	for _, f := range toReconcile {
		s.reconcileLocked(f)
	}
}

// onNextHopChanged implements SPEC_FULL.md Open Question 1: proactively
// release the orphaned downstream binding rather than waiting for the
// old downstream to withdraw it.
func (s *Speaker) onNextHopChanged(f *FEC, newNextHop net.IP) {
	for _, ds := range s.dsBindingsForFec(f.ID) {
		if ds.Peer.Equal(f.NextHop) && !ds.Peer.Equal(newNextHop) {
			s.sendRelease(ds.PeerPtr, f, ds.Label)
			s.removeDS(f.ID, ds.Peer)
		}
	}
}

// deprecateFecLocked implements the deprecated-FEC cleanup in spec.md
// §4.3: release every DS binding, withdraw every US binding and tear
// down its LIB cross-connect.
func (s *Speaker) deprecateFecLocked(f *FEC) {
	for _, ds := range s.dsBindingsForFec(f.ID) {
		s.sendRelease(ds.PeerPtr, f, ds.Label)
	}
	s.removeAllDS(f.ID)
	for _, us := range s.usBindingsForFec(f.ID) {
		s.sendWithdraw(us.PeerPtr, f, us.Label)
		if err := s.lib.Remove(us.Label); err != nil {
			glog.Errorf("deprecateFec: LIB remove failed for label %d: %s", us.Label, err.Error())
		}
	}
	s.removeAllUS(f.ID)
	s.removeAllPending(f.ID)
	delete(s.fecByID, f.ID)
}
