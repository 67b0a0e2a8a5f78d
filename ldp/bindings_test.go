package ldp

import (
	"net"
	"testing"
)

func TestBindingTablesAddRemove(t *testing.T) {
	s, _, _ := newTestSpeaker("1.1.1.1")
	peer := testPeer("10.0.0.2", RolePassive)

	s.addDS(1, peer, 100)
	if _, ok := s.dsBinding(1, peer.IP); !ok {
		t.Fatalf("expected DS binding to be present")
	}
	s.removeDS(1, peer.IP)
	if _, ok := s.dsBinding(1, peer.IP); ok {
		t.Errorf("DS binding still present after removal")
	}

	s.addUS(2, peer, 200)
	if _, ok := s.usBinding(2, peer.IP); !ok {
		t.Fatalf("expected US binding to be present")
	}
	if got := s.usBindingsForFec(2); len(got) != 1 || got[0].Label != 200 {
		t.Errorf("usBindingsForFec = %+v, want one binding with label 200", got)
	}

	s.addPending(3, peer)
	if got := s.pendingForFec(3); len(got) != 1 {
		t.Fatalf("expected one pending request, got %d", len(got))
	}
	s.removePending(3, peer.IP)
	if got := s.pendingForFec(3); len(got) != 0 {
		t.Errorf("pending request still present after removal")
	}
}

func TestPurgeBindingsForPeer(t *testing.T) {
	s, _, _ := newTestSpeaker("1.1.1.1")
	peerA := testPeer("10.0.0.2", RolePassive)
	peerB := testPeer("10.0.0.3", RolePassive)

	s.addDS(1, peerA, 100)
	s.addUS(1, peerB, 200)
	s.addDS(2, peerB, 300)

	affected := s.purgeBindingsForPeer(peerA.IP)
	if !affected[1] {
		t.Errorf("expected FEC 1 to be marked affected")
	}
	if _, ok := s.dsBinding(1, peerA.IP); ok {
		t.Errorf("peerA's DS binding should have been purged")
	}
	if _, ok := s.usBinding(1, peerB.IP); !ok {
		t.Errorf("peerB's US binding should survive purging peerA")
	}
	if _, ok := s.dsBinding(2, peerB.IP); !ok {
		t.Errorf("unrelated FEC 2 binding should be untouched")
	}

	affectedB := s.purgeBindingsForPeer(net.ParseIP("10.0.0.99"))
	if len(affectedB) != 0 {
		t.Errorf("purging an unknown peer should affect nothing, got %v", affectedB)
	}
}
