package ldp

import (
	"net"
	"testing"
)

func TestStaticRoutingTableReload(t *testing.T) {
	routes := []Route{{Dest: net.ParseIP("10.0.0.0"), PrefixLen: 8, Kind: RouteDirect}}
	ifaces := map[string]string{"10.0.0.1": "eth0"}
	rt := NewStaticRoutingTable(routes, ifaces)

	if got := rt.Routes(); len(got) != 1 {
		t.Fatalf("got %d routes, want 1", len(got))
	}
	if name, ok := rt.InterfaceFor(net.ParseIP("10.0.0.1")); !ok || name != "eth0" {
		t.Errorf("InterfaceFor = (%q, %v), want (eth0, true)", name, ok)
	}
	if _, ok := rt.InterfaceFor(net.ParseIP("192.168.1.1")); ok {
		t.Errorf("expected no interface for an unlisted address")
	}

	rt.Reload(nil, map[string]string{"10.0.0.2": "eth1"})
	if got := rt.Routes(); len(got) != 0 {
		t.Errorf("got %d routes after reload, want 0", len(got))
	}
	if name, ok := rt.InterfaceFor(net.ParseIP("10.0.0.2")); !ok || name != "eth1" {
		t.Errorf("InterfaceFor after reload = (%q, %v), want (eth1, true)", name, ok)
	}
}

func TestMemTEDLinkStateAndRebuild(t *testing.T) {
	rebuilt := 0
	ted := NewMemTED(func() { rebuilt++ })
	local, remote := net.ParseIP("10.0.0.1"), net.ParseIP("10.0.0.2")

	if ted.LinkUp(local, remote) {
		t.Errorf("a link with no prior state should read down")
	}
	ted.SetLinkUp(local, remote, true)
	if !ted.LinkUp(local, remote) {
		t.Errorf("expected the link to read up after SetLinkUp(true)")
	}
	ted.RequestRebuild()
	if rebuilt != 1 {
		t.Errorf("rebuild callback fired %d times, want 1", rebuilt)
	}
}

func TestMemLIBInstallAllocatesAndRemove(t *testing.T) {
	lib := NewMemLIB()
	label, err := lib.Install(NoIngressLabel, "eth0", Pop(), "eth1", 0)
	if err != nil {
		t.Fatalf("Install: %s", err.Error())
	}
	if label == NoIngressLabel {
		t.Errorf("expected an allocated label, got the sentinel")
	}
	second, err := lib.Install(NoIngressLabel, "eth0", Pop(), "eth1", 0)
	if err != nil {
		t.Fatalf("Install: %s", err.Error())
	}
	if second == label {
		t.Errorf("expected distinct allocated labels, got %d twice", label)
	}
	if err := lib.Remove(label); err != nil {
		t.Errorf("Remove: %s", err.Error())
	}
}
