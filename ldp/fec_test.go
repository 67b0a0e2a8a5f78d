package ldp

import (
	"net"
	"testing"
)

func TestRebuildFecListAddUpdateRemove(t *testing.T) {
	s, _, _ := newTestSpeaker("1.1.1.1")

	routes := []Route{
		{Dest: net.ParseIP("10.0.1.0"), PrefixLen: 24, Kind: RouteIndirect, Gateway: net.ParseIP("10.0.0.2")},
		{Dest: net.ParseIP("10.0.2.0"), PrefixLen: 24, Kind: RouteIndirect, Gateway: net.ParseIP("10.0.0.2")},
	}
	s.rebuildFecList(routes, nil)

	if len(s.fecs) != 2 {
		t.Fatalf("got %d FECs, want 2", len(s.fecs))
	}
	f, ok := s.fecByAddr(net.ParseIP("10.0.1.0"), 24)
	if !ok {
		t.Fatalf("FEC 10.0.1.0/24 not found")
	}
	if !f.NextHop.Equal(net.ParseIP("10.0.0.2")) {
		t.Errorf("NextHop = %s, want 10.0.0.2", f.NextHop)
	}
	originalID := f.ID

	// Next-hop change: same prefix set, different gateway.
	routes[0].Gateway = net.ParseIP("10.0.0.3")
	s.rebuildFecList(routes, nil)
	f, ok = s.fecByAddr(net.ParseIP("10.0.1.0"), 24)
	if !ok {
		t.Fatalf("FEC 10.0.1.0/24 missing after next-hop change")
	}
	if f.ID != originalID {
		t.Errorf("FEC identity changed across a next-hop update: got %d, want %d", f.ID, originalID)
	}
	if !f.NextHop.Equal(net.ParseIP("10.0.0.3")) {
		t.Errorf("NextHop not updated: got %s", f.NextHop)
	}

	// Removal: drop the second route.
	s.rebuildFecList(routes[:1], nil)
	if len(s.fecs) != 1 {
		t.Fatalf("got %d FECs after removal, want 1", len(s.fecs))
	}
	if _, ok := s.fecByAddr(net.ParseIP("10.0.2.0"), 24); ok {
		t.Errorf("deprecated FEC 10.0.2.0/24 still present")
	}
}

func TestRebuildFecListLocalInterface(t *testing.T) {
	s, _, _ := newTestSpeaker("1.1.1.1")
	ifaces := []LocalInterface{
		{Name: "eth0", Addr: net.ParseIP("192.168.1.1"), Up: true},
		{Name: "eth1", Addr: net.ParseIP("192.168.2.1"), Up: false},
	}
	s.rebuildFecList(nil, ifaces)

	f, ok := s.fecByAddr(net.ParseIP("192.168.1.1"), 32)
	if !ok {
		t.Fatalf("expected a host FEC for the up interface")
	}
	if !f.local {
		t.Errorf("expected host FEC to be marked local")
	}
	if _, ok := s.fecByAddr(net.ParseIP("192.168.2.1"), 32); ok {
		t.Errorf("down interface should not produce a FEC")
	}
}

func TestSortFecsLongestPrefixFirst(t *testing.T) {
	fecs := []*FEC{
		{Addr: net.ParseIP("10.0.0.0"), PrefixLen: 8},
		{Addr: net.ParseIP("10.0.1.0"), PrefixLen: 24},
		{Addr: net.ParseIP("10.0.0.0"), PrefixLen: 16},
	}
	sortFecs(fecs)
	for i := 0; i+1 < len(fecs); i++ {
		if fecs[i].PrefixLen < fecs[i+1].PrefixLen {
			t.Errorf("not longest-prefix-first at index %d: %d before %d", i, fecs[i].PrefixLen, fecs[i+1].PrefixLen)
		}
	}
}
