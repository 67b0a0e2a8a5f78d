package ldp

import (
	"net"
	"sync"

	"github.com/golang/glog"
)

// The types in this file are reference adapters for the collaborators
// spec.md §1 names as deliberately out of scope (the IP routing table,
// the interface table, the TED, the LIB). Nothing here is grounded on
// teacher code — there is no PCEP analog for any of them — they exist
// only so main.go has something concrete to wire Speaker against.

// osInterfaceTable reads the live local interface/address set via the
// standard library, the way the teacher reads socket state directly
// rather than through an abstraction (pcep/pcc.go uses *net.TCPConn
// directly).
type osInterfaceTable struct{}

func NewOSInterfaceTable() InterfaceTable { return osInterfaceTable{} }

func (osInterfaceTable) Interfaces() []LocalInterface {
	ifaces, err := net.Interfaces()
	if err != nil {
		glog.Errorf("osInterfaceTable.Interfaces: %s", err.Error())
		return nil
	}
	var out []LocalInterface
	for _, ifc := range ifaces {
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		up := ifc.Flags&net.FlagUp != 0
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			v4 := ipNet.IP.To4()
			if v4 == nil {
				continue
			}
			out = append(out, LocalInterface{Name: ifc.Name, Addr: v4, Up: up})
		}
	}
	return out
}

// StaticRoutingTable is a fixed, operator-supplied route set, standing
// in for a routing daemon's RIB per spec.md §1. RouteEntries are
// supplied once at construction; Reload replaces them atomically.
type StaticRoutingTable struct {
	mu     sync.Mutex
	routes []Route
	ifaces map[string]string // dest/prefix key -> output interface name
}

func NewStaticRoutingTable(routes []Route, ifaceFor map[string]string) *StaticRoutingTable {
	return &StaticRoutingTable{routes: routes, ifaces: ifaceFor}
}

func (t *StaticRoutingTable) Routes() []Route {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

func (t *StaticRoutingTable) InterfaceFor(ip net.IP) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	name, ok := t.ifaces[ip.String()]
	return name, ok
}

func (t *StaticRoutingTable) Reload(routes []Route, ifaceFor map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes = routes
	t.ifaces = ifaceFor
}

// memTED is an in-memory Traffic Engineering Database: per-link
// up/down state plus a rebuild callback, standing in for a real TED per
// spec.md §1/§4.6.
type memTED struct {
	mu        sync.Mutex
	up        map[string]bool
	onRebuild func()
}

func NewMemTED(onRebuild func()) TED {
	return &memTED{up: make(map[string]bool), onRebuild: onRebuild}
}

func linkKey(local, remote net.IP) string { return local.String() + "->" + remote.String() }

func (t *memTED) LinkUp(local, remote net.IP) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.up[linkKey(local, remote)]
}

func (t *memTED) SetLinkUp(local, remote net.IP, up bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.up[linkKey(local, remote)] = up
}

func (t *memTED) AnnounceLinkChange(local, remote net.IP, up bool) {
	glog.Infof("memTED: link %s -> %s is now %v", local, remote, up)
}

func (t *memTED) RequestRebuild() {
	if t.onRebuild != nil {
		t.onRebuild()
	}
}

// memLIB is an in-memory cross-connect table, standing in for the MPLS
// forwarding plane's real LIB per spec.md §4.5.
type memLIB struct {
	mu   sync.Mutex
	next int
	xc   map[int]crossConnect
}

type crossConnect struct {
	ingressIf string
	op        LabelOp
	egressIf  string
	color     Color
}

func NewMemLIB() LIB {
	return &memLIB{next: 16, xc: make(map[int]crossConnect)}
}

func (l *memLIB) Install(ingressLabel int, ingressIf string, op LabelOp, egressIf string, color Color) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	label := ingressLabel
	if label == NoIngressLabel {
		label = l.next
		l.next++
	}
	l.xc[label] = crossConnect{ingressIf: ingressIf, op: op, egressIf: egressIf, color: color}
	glog.V(4).Infof("memLIB.Install: label %d, ingress %s, op %v, egress %s", label, ingressIf, op, egressIf)
	return label, nil
}

func (l *memLIB) Remove(label int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.xc, label)
	glog.V(4).Infof("memLIB.Remove: label %d", label)
	return nil
}
