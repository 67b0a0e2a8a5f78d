package ldp

import (
	"net"
	"testing"
	"time"
)

func TestServePassiveRefusesUnparsableRemoteAddr(t *testing.T) {
	s, _, _ := newTestSpeaker("10.0.0.1")
	client, server := net.Pipe()
	defer client.Close()
	done := make(chan struct{})
	go func() {
		s.servePassive(server)
		close(done)
	}()
	// net.Pipe has no real RemoteAddr; servePassive should bail out on
	// the SplitHostPort failure and close the connection promptly.
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("servePassive did not return for an unparsable remote address")
	}
}

func TestServePassiveRefusesDuplicateSession(t *testing.T) {
	s, _, _ := newTestSpeaker("10.0.0.1")
	p := newPeer(net.ParseIP("127.0.0.1"), "lo", RolePassive)
	p.conn = &net.TCPConn{} // non-nil: a session already exists
	s.peers["127.0.0.1"] = p

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %s", err.Error())
	}
	defer lis.Close()

	clientDone := make(chan struct{})
	go func() {
		conn, err := net.Dial("tcp", lis.Addr().String())
		if err == nil {
			conn.Close()
		}
		close(clientDone)
	}()
	conn, err := lis.Accept()
	if err != nil {
		t.Fatalf("Accept: %s", err.Error())
	}
	s.servePassive(conn)
	<-clientDone

	if s.peers["127.0.0.1"] != p {
		t.Errorf("existing peer entry should be untouched by a refused duplicate connection")
	}
}

// TestSessionEstablishmentAndLabelExchange drives two Speakers over a
// real loopback TCP session (skipping multicast discovery, which a
// sandboxed test environment cannot rely on) through ACTIVE/PASSIVE
// connection setup, a LABEL_REQUEST/LABEL_MAPPING exchange and FEC
// reconciliation on both ends.
func TestSessionEstablishmentAndLabelExchange(t *testing.T) {
	// ingress's router id must be a locally bindable address: connectActive
	// now binds its dial's source address to it (spec.md §4.2).
	ingress, _, _ := newTestSpeaker("127.0.0.1") // will request a label for the FEC
	egress, _, _ := newTestSpeaker("10.0.0.2")   // will reply as the egress for it

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %s", err.Error())
	}
	defer lis.Close()
	_, portStr, _ := net.SplitHostPort(lis.Addr().String())
	var port int
	for _, c := range portStr {
		port = port*10 + int(c-'0')
	}
	ingress.cfg.ListenPort = port

	egress.listener = lis
	go egress.acceptLoop()
	go egress.run()
	go ingress.run()
	t.Cleanup(func() {
		close(ingress.stop)
		close(egress.stop)
	})

	fecAddr, fecLen := net.ParseIP("10.9.9.0"), 24

	// Pre-register each side's view of the other, as discovery/handleHello
	// would, then let the ACTIVE side dial.
	peerEgressOnIngress := newPeer(net.ParseIP("127.0.0.1"), "eth0", RoleActive)
	ingress.peers["127.0.0.1"] = peerEgressOnIngress
	ingressFec := addFec(ingress, fecAddr.String(), fecLen, "127.0.0.1")

	peerIngressOnEgress := newPeer(net.ParseIP("127.0.0.1"), "eth0", RolePassive)
	egress.peers["127.0.0.1"] = peerIngressOnEgress
	// From egress's perspective this FEC's next hop is unreachable, making
	// it the egress router for the prefix.
	egressFec := addFec(egress, fecAddr.String(), fecLen, "10.255.255.255")

	go ingress.connectActive(peerEgressOnIngress)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ingress.mu.Lock()
		_, gotDS := ingress.dsBinding(ingressFec.ID, net.ParseIP("127.0.0.1"))
		ingress.mu.Unlock()
		if gotDS {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	ingress.mu.Lock()
	ds, gotDS := ingress.dsBinding(ingressFec.ID, net.ParseIP("127.0.0.1"))
	ingress.mu.Unlock()
	if !gotDS {
		t.Fatalf("ingress never received a DS binding for %s/%d from the egress", fecAddr, fecLen)
	}

	egress.mu.Lock()
	us, gotUS := egress.usBinding(egressFec.ID, net.ParseIP("127.0.0.1"))
	egress.mu.Unlock()
	if !gotUS {
		t.Fatalf("egress never recorded a US binding for the requester")
	}
	if ds.Label != us.Label {
		t.Errorf("label mismatch: ingress DS label %d, egress US label %d", ds.Label, us.Label)
	}
}
