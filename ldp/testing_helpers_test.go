package ldp

import (
	"net"
	"sync"
)

// fakeRoutingTable is a minimal RoutingTable double for tests, grounded
// on the shape of StaticRoutingTable (platform.go) but with a simpler
// always-resolve InterfaceFor unless explicitly denied.
type fakeRoutingTable struct {
	mu     sync.Mutex
	routes []Route
	denied map[string]bool
	ifaces map[string]string
}

func newFakeRoutingTable() *fakeRoutingTable {
	return &fakeRoutingTable{denied: map[string]bool{}, ifaces: map[string]string{}}
}

func (t *fakeRoutingTable) Routes() []Route {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

func (t *fakeRoutingTable) InterfaceFor(ip net.IP) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.denied[ip.String()] {
		return "", false
	}
	if name, ok := t.ifaces[ip.String()]; ok {
		return name, true
	}
	return "eth0", true
}

func (t *fakeRoutingTable) deny(ip net.IP) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.denied[ip.String()] = true
}

type fakeInterfaceTable struct {
	ifaces []LocalInterface
}

func (t *fakeInterfaceTable) Interfaces() []LocalInterface { return t.ifaces }

// fakeTED records link flaps and rebuild requests without doing
// anything, since reconciliation itself is driven by rebuildFecList,
// not by TED state, in this core.
type fakeTED struct {
	mu           sync.Mutex
	up           map[string]bool
	rebuilds     int
	announcements int
}

func newFakeTED() *fakeTED { return &fakeTED{up: map[string]bool{}} }

func (t *fakeTED) LinkUp(local, remote net.IP) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.up[linkKey(local, remote)]
}

func (t *fakeTED) SetLinkUp(local, remote net.IP, up bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.up[linkKey(local, remote)] = up
}

func (t *fakeTED) AnnounceLinkChange(local, remote net.IP, up bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.announcements++
}

func (t *fakeTED) RequestRebuild() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rebuilds++
}

// newTestSpeaker builds a Speaker with fake collaborators, wired the
// same way NewSpeaker does but without starting Run (no real sockets).
func newTestSpeaker(routerID string) (*Speaker, *fakeRoutingTable, *fakeTED) {
	rt := newFakeRoutingTable()
	it := &fakeInterfaceTable{}
	ted := newFakeTED()
	lib := NewMemLIB()
	cfg := Config{
		RouterID:      net.ParseIP(routerID),
		ListenPort:    646,
		HelloInterval: 0,
		HoldTime:      0,
		Iface:         "eth0",
	}
	s := NewSpeaker(cfg, rt, it, ted, lib)
	return s, rt, ted
}

func testPeer(ip string, role Role) *Peer {
	p := newPeer(net.ParseIP(ip), "eth0", role)
	p.state = sessEstablished
	return p
}
