package ldp

import "net"

// Packet is the minimal data-plane lookup key the classifier consumes,
// per spec.md §4.5.
type Packet struct {
	Dest     net.IP
	Protocol int
	SrcPort  int
	DstPort  int
}

// ProtocolOSPF is the IP protocol number the classifier must exclude
// from matching, per spec.md §4.5 rule 1.
const ProtocolOSPF = 89

// ClassifyResult is what a matched FEC yields to the data-plane caller.
type ClassifyResult struct {
	Op      LabelOp
	Egress  string
	Color   Color
}

// Classifier is the data-plane lookup interface spec.md §4.5 names:
// lookup(packet) -> (labelOps, egressIf, color) | none.
type Classifier interface {
	Lookup(pkt Packet) (ClassifyResult, bool)
}

// classifier implements Classifier against the Speaker's live FEC and
// DS binding tables. There is no teacher analog — LIB/cross-connect
// classification is an external collaborator concern spec.md §1 names
// explicitly as out of scope for everything except this interface.
type classifier struct {
	s *Speaker
}

func newClassifier(s *Speaker) *classifier {
	return &classifier{s: s}
}

// Lookup implements spec.md §4.5's three-step contract.
func (c *classifier) Lookup(pkt Packet) (ClassifyResult, bool) {
	if isSignalingTraffic(pkt) {
		return ClassifyResult{}, false
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	// s.fecs is kept sorted longest-prefix-first by rebuildFecList's
	// sortFecs call, per spec.md §4.3's ordering invariant.
	for _, f := range c.s.fecs {
		if !prefixContains(f.Addr, f.PrefixLen, pkt.Dest) {
			continue
		}
		ds, ok := c.s.dsBinding(f.ID, f.NextHop)
		if !ok {
			return ClassifyResult{}, false
		}
		egressIf := c.s.egressIface(f)
		return ClassifyResult{Op: Push(ds.Label), Egress: egressIf, Color: 0}, true
	}
	return ClassifyResult{}, false
}

// isSignalingTraffic implements spec.md §4.5 rule 1: LDP's own hello
// and session traffic must never be classified for MPLS forwarding.
func isSignalingTraffic(pkt Packet) bool {
	if pkt.Protocol == ProtocolOSPF {
		return true
	}
	if pkt.SrcPort == wellKnownPort || pkt.DstPort == wellKnownPort {
		return true
	}
	return false
}

// Classify is the public entry point the data-plane MPLS module calls,
// per spec.md §4.5.
func (s *Speaker) Classify(pkt Packet) (ClassifyResult, bool) {
	return s.classifyFilter.Lookup(pkt)
}

func prefixContains(network net.IP, prefixLen int, addr net.IP) bool {
	n := network.To4()
	a := addr.To4()
	if n == nil || a == nil {
		return false
	}
	mask := net.CIDRMask(prefixLen, 32)
	return n.Mask(mask).Equal(a.Mask(mask))
}
