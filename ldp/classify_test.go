package ldp

import (
	"net"
	"testing"
)

func TestClassifyMatchesLongestPrefix(t *testing.T) {
	s, _, _ := newTestSpeaker("1.1.1.1")
	broad := addFec(s, "10.0.0.0", 8, "10.0.0.2")
	narrow := addFec(s, "10.0.1.0", 24, "10.0.0.3")
	peerBroad := testPeer("10.0.0.2", RolePassive)
	peerNarrow := testPeer("10.0.0.3", RolePassive)
	s.addDS(broad.ID, peerBroad, 100)
	s.addDS(narrow.ID, peerNarrow, 200)

	res, ok := s.Classify(Packet{Dest: net.ParseIP("10.0.1.5")})
	if !ok {
		t.Fatalf("expected a classification match")
	}
	if res.Op.Label != 200 {
		t.Errorf("expected the longest-matching (narrow) FEC's label 200, got %d", res.Op.Label)
	}
}

func TestClassifyNoMatchWithoutDSBinding(t *testing.T) {
	s, _, _ := newTestSpeaker("1.1.1.1")
	addFec(s, "10.0.1.0", 24, "10.0.0.2") // no DS binding installed

	_, ok := s.Classify(Packet{Dest: net.ParseIP("10.0.1.5")})
	if ok {
		t.Errorf("expected no match when the FEC has no downstream binding")
	}
}

func TestClassifyExcludesSignalingTraffic(t *testing.T) {
	s, _, _ := newTestSpeaker("1.1.1.1")
	f := addFec(s, "10.0.1.0", 24, "10.0.0.2")
	peer := testPeer("10.0.0.2", RolePassive)
	s.addDS(f.ID, peer, 200)

	_, ok := s.Classify(Packet{Dest: net.ParseIP("10.0.1.5"), Protocol: ProtocolOSPF})
	if ok {
		t.Errorf("OSPF traffic must never be classified")
	}
	_, ok = s.Classify(Packet{Dest: net.ParseIP("10.0.1.5"), DstPort: wellKnownPort})
	if ok {
		t.Errorf("LDP's own signaling traffic must never be classified")
	}
}

func TestClassifyNoMatchOutsideAnyFec(t *testing.T) {
	s, _, _ := newTestSpeaker("1.1.1.1")
	f := addFec(s, "10.0.1.0", 24, "10.0.0.2")
	peer := testPeer("10.0.0.2", RolePassive)
	s.addDS(f.ID, peer, 200)

	_, ok := s.Classify(Packet{Dest: net.ParseIP("172.16.0.1")})
	if ok {
		t.Errorf("expected no match for a destination outside every FEC")
	}
}
