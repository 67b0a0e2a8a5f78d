package ldp

import (
	"net"
	"time"

	"github.com/golang/glog"
)

// noRouteRetry is the 1s retry delay spec.md §4.4 prescribes for a
// pending NOTIFICATION(NO_ROUTE).
const noRouteRetry = 1 * time.Second

func (p *Peer) send(msg *Message) {
	select {
	case p.outbound <- msg:
	case <-p.closed:
	}
}

func (s *Speaker) sendRequest(p *Peer, f *FEC) {
	p.send(NewLabelRequestMsg(s.routerIDUint32(), f.Addr, f.PrefixLen))
}

func (s *Speaker) sendMapping(p *Peer, f *FEC, label int) {
	p.send(NewLabelMappingMsg(s.routerIDUint32(), f.Addr, f.PrefixLen, label))
}

func (s *Speaker) sendWithdraw(p *Peer, f *FEC, label int) {
	p.send(NewLabelWithdrawMsg(s.routerIDUint32(), f.Addr, f.PrefixLen, label))
}

func (s *Speaker) sendRelease(p *Peer, f *FEC, label int) {
	p.send(NewLabelReleaseMsg(s.routerIDUint32(), f.Addr, f.PrefixLen, label))
}

func (s *Speaker) sendNotification(p *Peer, status StatusCode, f *FEC) {
	p.send(NewNotificationMsg(s.routerIDUint32(), status, f.Addr, f.PrefixLen))
}

// reconcile acquires the table lock and runs reconcileLocked, for
// callers outside an already-locked section (session establishment,
// WITHDRAW handling).
func (s *Speaker) reconcile(f *FEC) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcileLocked(f)
}

// reconcileLocked is the pivotal routine of spec.md §4.3. Caller must
// hold s.mu.
func (s *Speaker) reconcileLocked(f *FEC) {
	if f.local {
		return
	}
	peer, hasSession := s.establishedPeer(f.NextHop)
	egress := !hasSession
	ds, hasDS := s.dsBinding(f.ID, f.NextHop)

	if egress && hasDS {
		glog.Errorf("reconcileLocked: invariant violated for FEC %s/%d: egress with a DS binding", f.Addr, f.PrefixLen)
	}

	for _, u := range s.usBindingsForFec(f.ID) {
		switch {
		case egress:
			label, err := s.lib.Install(u.Label, u.PeerPtr.Iface, Pop(), s.egressIface(f), 0)
			if err != nil {
				glog.Errorf("reconcileLocked: LIB install (pop) failed for FEC %s/%d: %s", f.Addr, f.PrefixLen, err.Error())
				continue
			}
			u.Label = label
		case hasDS:
			label, err := s.lib.Install(u.Label, u.PeerPtr.Iface, Swap(ds.Label), s.egressIface(f), 0)
			if err != nil {
				glog.Errorf("reconcileLocked: LIB install (swap) failed for FEC %s/%d: %s", f.Addr, f.PrefixLen, err.Error())
				continue
			}
			u.Label = label
		default:
			s.sendWithdraw(u.PeerPtr, f, u.Label)
			s.removeUS(f.ID, u.Peer)
		}
	}

	// next-hop without an established session yet has nothing sent until
	// onSessionUp runs reconcile again.
	if !egress && !hasDS && peer != nil {
		s.sendRequest(peer, f)
	}
}

// establishedPeer returns the Peer for ip if an ESTABLISHED session
// exists to it.
func (s *Speaker) establishedPeer(ip net.IP) (*Peer, bool) {
	p, ok := s.peers[ip.String()]
	if !ok || !p.established() {
		return nil, false
	}
	return p, true
}

// egressIface resolves the outgoing interface for f's next-hop, via the
// routing table's interface lookup (spec.md §4.3's "interface(f.nextHop)").
func (s *Speaker) egressIface(f *FEC) string {
	if name, ok := s.routingTable.InterfaceFor(f.NextHop); ok {
		return name
	}
	return ""
}

// dispatchMessage implements the message engine of spec.md §4.4. HELLO
// on the reliable transport and the ADDRESS family are unrecoverable
// protocol errors here; this core logs and drops rather than tearing
// the session down, matching the alternative spec.md explicitly allows.
func (s *Speaker) dispatchMessage(p *Peer, msg *Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.MsgType {
	case MsgHello:
		glog.Errorf("dispatchMessage(%s): HELLO received on reliable transport, dropping", p.IP)
	case MsgAddress, MsgAddressWithdraw:
		glog.Errorf("dispatchMessage(%s): ADDRESS family not supported, dropping %s", p.IP, msgTypeName(msg.MsgType))
	case MsgLabelRequest:
		s.handleLabelRequest(p, msg)
	case MsgLabelMapping:
		s.handleLabelMapping(p, msg)
	case MsgLabelWithdraw:
		s.handleLabelWithdraw(p, msg)
	case MsgLabelRelease:
		s.handleLabelRelease(p, msg)
	case MsgNotification:
		s.handleNotification(p, msg)
	default:
		glog.V(2).Infof("dispatchMessage(%s): unsupported message type %s", p.IP, msgTypeName(msg.MsgType))
	}
}

func (s *Speaker) fecByAddr(addr net.IP, prefixLen int) (*FEC, bool) {
	key := fecKeyOf(addr, prefixLen)
	for _, f := range s.fecs {
		if fecKeyOf(f.Addr, f.PrefixLen) == key {
			return f, true
		}
	}
	return nil, false
}

// handleLabelRequest implements spec.md §4.4's LABEL_REQUEST handling.
func (s *Speaker) handleLabelRequest(p *Peer, msg *Message) {
	fecTLV, ok := msg.fec()
	if !ok {
		glog.Errorf("handleLabelRequest(%s): message has no FEC object", p.IP)
		return
	}
	f, ok := s.fecByAddr(fecTLV.Addr, fecTLV.PrefixLen)
	if !ok {
		s.sendNotification(p, StatusNoRoute, &FEC{Addr: fecTLV.Addr, PrefixLen: fecTLV.PrefixLen})
		return
	}
	if _, exists := s.usBinding(f.ID, p.IP); exists {
		glog.Errorf("handleLabelRequest(%s): duplicate request for FEC %s/%d, ignoring", p.IP, f.Addr, f.PrefixLen)
		return
	}

	_, hasSession := s.establishedPeer(f.NextHop)
	egress := !hasSession
	ds, hasDS := s.dsBinding(f.ID, f.NextHop)

	if egress || hasDS {
		var label int
		var err error
		if egress {
			label, err = s.lib.Install(NoIngressLabel, p.Iface, Pop(), s.egressIface(f), 0)
		} else {
			label, err = s.lib.Install(NoIngressLabel, p.Iface, Swap(ds.Label), s.egressIface(f), 0)
		}
		if err != nil {
			glog.Errorf("handleLabelRequest(%s): LIB install failed for FEC %s/%d: %s", p.IP, f.Addr, f.PrefixLen, err.Error())
			return
		}
		s.addUS(f.ID, p, label)
		s.sendMapping(p, f, label)
		return
	}
	s.addPending(f.ID, p)
}

// handleLabelMapping implements spec.md §4.4's LABEL_MAPPING handling.
func (s *Speaker) handleLabelMapping(p *Peer, msg *Message) {
	fecTLV, ok := msg.fec()
	if !ok {
		glog.Errorf("handleLabelMapping(%s): message has no FEC object", p.IP)
		return
	}
	labelTLV, ok := msg.label()
	if !ok {
		glog.Errorf("handleLabelMapping(%s): message has no label object", p.IP)
		return
	}
	if labelTLV.Label <= 0 {
		glog.Errorf("handleLabelMapping(%s): non-positive label %d, ignoring", p.IP, labelTLV.Label)
		return
	}
	f, ok := s.fecByAddr(fecTLV.Addr, fecTLV.PrefixLen)
	if !ok {
		glog.Errorf("handleLabelMapping(%s): unknown FEC %s/%d", p.IP, fecTLV.Addr, fecTLV.PrefixLen)
		return
	}
	if _, exists := s.dsBinding(f.ID, p.IP); exists {
		glog.Errorf("handleLabelMapping(%s): duplicate DS binding for FEC %s/%d", p.IP, f.Addr, f.PrefixLen)
		return
	}
	s.addDS(f.ID, p, labelTLV.Label)

	// L is significant only on the link to the sender p, not to
	// f.NextHop — those can differ for a stale binding lingering after a
	// next-hop change.
	for _, pending := range s.pendingForFec(f.ID) {
		label, err := s.lib.Install(NoIngressLabel, pending.PeerPtr.Iface, Swap(labelTLV.Label), p.Iface, 0)
		if err != nil {
			glog.Errorf("handleLabelMapping(%s): LIB install failed satisfying pending request for FEC %s/%d: %s", p.IP, f.Addr, f.PrefixLen, err.Error())
			continue
		}
		s.addUS(f.ID, pending.PeerPtr, label)
		s.sendMapping(pending.PeerPtr, f, label)
		s.removePending(f.ID, pending.Peer)
	}
}

// handleLabelWithdraw implements spec.md §4.4's LABEL_WITHDRAW handling.
func (s *Speaker) handleLabelWithdraw(p *Peer, msg *Message) {
	fecTLV, ok := msg.fec()
	if !ok {
		return
	}
	labelTLV, ok := msg.label()
	if !ok {
		return
	}
	f, ok := s.fecByAddr(fecTLV.Addr, fecTLV.PrefixLen)
	if !ok {
		return
	}
	ds, exists := s.dsBinding(f.ID, p.IP)
	if !exists || ds.Label != labelTLV.Label {
		glog.V(4).Infof("handleLabelWithdraw(%s): no DS binding with label %d for FEC %s/%d, ignoring", p.IP, labelTLV.Label, f.Addr, f.PrefixLen)
		return
	}
	s.removeDS(f.ID, p.IP)
	s.sendRelease(p, f, labelTLV.Label)
	s.reconcileLocked(f)
}

// handleLabelRelease implements spec.md §4.4's LABEL_RELEASE handling.
func (s *Speaker) handleLabelRelease(p *Peer, msg *Message) {
	fecTLV, ok := msg.fec()
	if !ok {
		return
	}
	labelTLV, ok := msg.label()
	if !ok {
		return
	}
	f, ok := s.fecByAddr(fecTLV.Addr, fecTLV.PrefixLen)
	if !ok {
		return
	}
	us, exists := s.usBinding(f.ID, p.IP)
	if !exists || us.Label != labelTLV.Label {
		glog.V(4).Infof("handleLabelRelease(%s): no US binding with label %d for FEC %s/%d, ignoring", p.IP, labelTLV.Label, f.Addr, f.PrefixLen)
		return
	}
	if err := s.lib.Remove(labelTLV.Label); err != nil {
		glog.Errorf("handleLabelRelease(%s): LIB remove failed for label %d: %s", p.IP, labelTLV.Label, err.Error())
	}
	s.removeUS(f.ID, p.IP)
}

// handleNotification implements spec.md §4.4's NOTIFICATION(NO_ROUTE)
// handling; any other status code is a fatal protocol error in this
// core.
func (s *Speaker) handleNotification(p *Peer, msg *Message) {
	statusTLV, ok := msg.status()
	if !ok {
		return
	}
	if statusTLV.Code != StatusNoRoute {
		glog.Fatalf("handleNotification(%s): unsupported status code %d, fatal", p.IP, statusTLV.Code)
	}
	fecTLV, ok := msg.fec()
	if !ok {
		return
	}
	f, ok := s.fecByAddr(fecTLV.Addr, fecTLV.PrefixLen)
	if !ok || !f.NextHop.Equal(p.IP) {
		return
	}
	fecID := f.ID
	time.AfterFunc(noRouteRetry, func() {
		s.postEvent(event{kind: evNoRouteRetry, peer: p, fecID: fecID})
	})
}

// onNoRouteRetry sends a fresh LABEL_REQUEST once the 1s NO_ROUTE retry
// timer fires, provided the FEC is still present with the same
// next-hop, per spec.md §4.4.
func (s *Speaker) onNoRouteRetry(p *Peer, fecID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fecByID[fecID]
	if !ok || !f.NextHop.Equal(p.IP) {
		return
	}
	s.sendRequest(p, f)
}
