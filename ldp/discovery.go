package ldp

import (
	"math/rand"
	"net"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/ipv4"
)

// allRoutersMulticast is LDP's conventional discovery destination,
// analogous to OSPF's AllSPFRouters (povsister-dns-circuit/ospf/conn.go)
// but over UDP rather than a raw IP protocol number, per spec.md §6.
const allRoutersMulticast = "224.0.0.2"

// discovery owns the hello transport: one multicast UDP socket shared
// for sending and receiving, plus the per-peer hello-timeout timers.
// Grounded on povsister-dns-circuit/ospf/conn.go's ListenOSPFv2Multicast
// for the x/net/ipv4 wiring, adapted from a raw IP socket to UDP since
// LDP hellos are UDP datagrams (spec.md §6).
type discovery struct {
	s    *Speaker
	conn *net.UDPConn
	pc   *ipv4.PacketConn
	ifi  *net.Interface

	stopCh chan struct{}
}

func newDiscovery(s *Speaker) (*discovery, error) {
	ifi, err := net.InterfaceByName(s.cfg.Iface)
	if err != nil {
		return nil, newAllocationError("newDiscovery: cannot resolve interface %s: %s", s.cfg.Iface, err.Error())
	}

	udpConn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: wellKnownPort})
	if err != nil {
		return nil, newAllocationError("newDiscovery: listen failed: %s", err.Error())
	}

	pc := ipv4.NewPacketConn(udpConn)
	group := net.ParseIP(allRoutersMulticast)
	if err := pc.JoinGroup(ifi, &net.UDPAddr{IP: group}); err != nil {
		udpConn.Close()
		return nil, newAllocationError("newDiscovery: join multicast group failed: %s", err.Error())
	}
	if err := pc.SetMulticastInterface(ifi); err != nil {
		udpConn.Close()
		return nil, newAllocationError("newDiscovery: set multicast interface failed: %s", err.Error())
	}
	if err := pc.SetMulticastTTL(1); err != nil {
		udpConn.Close()
		return nil, newAllocationError("newDiscovery: set multicast ttl failed: %s", err.Error())
	}
	pc.SetMulticastLoopback(false)

	return &discovery{s: s, conn: udpConn, pc: pc, ifi: ifi, stopCh: make(chan struct{})}, nil
}

// wellKnownPort is the shared UDP/TCP port for hello and session
// transports, per spec.md §6's GLOSSARY entry.
const wellKnownPort = 646

// run starts the periodic sender and the receive loop, per spec.md
// §4.1: first hello after a small jitter, then every helloInterval.
func (d *discovery) run() {
	go d.recvLoop()
	jitter := time.Duration(rand.Int63n(int64(100 * time.Millisecond)))
	timer := time.NewTimer(jitter)
	defer timer.Stop()
	for {
		select {
		case <-timer.C:
			d.sendHello()
			timer.Reset(d.s.cfg.HelloInterval)
		case <-d.stopCh:
			return
		}
	}
}

func (d *discovery) sendHello() {
	msg := NewHelloMsg(d.s.routerIDUint32(), uint16(d.s.cfg.HoldTime/time.Second))
	data := SerializeMessage(msg)
	dst := &net.UDPAddr{IP: net.ParseIP(allRoutersMulticast), Port: wellKnownPort}
	if _, err := d.conn.WriteTo(data, dst); err != nil {
		glog.Errorf("sendHello: write failed: %s", err.Error())
	}
}

func (d *discovery) recvLoop() {
	buf := make([]byte, 4096)
	for {
		n, _, src, err := d.pc.ReadFrom(buf)
		if err != nil {
			select {
			case <-d.stopCh:
				return
			default:
			}
			glog.V(4).Infof("discovery.recvLoop: read failed: %s", err.Error())
			continue
		}
		msg, err := parseMessage(buf[:n])
		if err != nil {
			glog.V(4).Infof("discovery.recvLoop: error parsing hello: %s", err.Error())
			continue
		}
		if msg.MsgType != MsgHello {
			glog.V(4).Infof("discovery.recvLoop: unexpected message type %s on hello socket", msgTypeName(msg.MsgType))
			continue
		}
		udpSrc, ok := src.(*net.UDPAddr)
		if !ok {
			continue
		}
		peer := &Peer{IP: udpSrc.IP}
		d.s.postEvent(event{kind: evHelloReceived, peer: peer, msg: msg})
	}
}

// stop tears down the discovery socket and timers.
func (d *discovery) stop() {
	close(d.stopCh)
	d.conn.Close()
}

func uint32ToIP(v uint32) net.IP {
	return net.IPv4(byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// handleHello implements spec.md §4.1's hello-receipt algorithm. Called
// from Speaker.run via evHelloReceived, so it owns s.mu exclusively for
// the duration of the peer-table mutation.
func (d *discovery) handleHello(placeholder *Peer, msg *Message) {
	s := d.s
	senderID := msg.SenderID
	senderIP := uint32ToIP(senderID)
	if senderID == 0 || senderIP.Equal(s.cfg.RouterID) {
		return
	}

	if !s.ted.LinkUp(s.cfg.RouterID, senderIP) {
		s.ted.SetLinkUp(s.cfg.RouterID, senderIP, true)
		s.ted.AnnounceLinkChange(s.cfg.RouterID, senderIP, true)
		s.ted.RequestRebuild()
	}

	holdTime := s.cfg.HoldTime
	if hp, ok := msg.helloParam(); ok && hp.HoldTime > 0 {
		holdTime = time.Duration(hp.HoldTime) * time.Second
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.peers[senderIP.String()]; ok {
		d.resetHelloTimeout(existing, holdTime)
		return
	}

	// SPEC_FULL.md Open Question 3: reject outright if the interface
	// cannot be resolved, rather than falling back to any default route.
	ifaceName, ok := s.routingTable.InterfaceFor(senderIP)
	if !ok {
		glog.Errorf("handleHello: cannot resolve output interface for %s, rejecting peer", senderIP)
		return
	}

	role := RolePassive
	if senderID > s.routerIDUint32() {
		role = RoleActive
	}
	p := newPeer(senderIP, ifaceName, role)
	s.peers[senderIP.String()] = p
	d.resetHelloTimeout(p, holdTime)
	d.sendHello()
	if role == RoleActive {
		go s.connectActive(p)
	}
}

// resetHelloTimeout cancels any existing timer and schedules a fresh
// one. helloGeneration guards against a timer that was already
// superseded from firing a stale timeout, per spec.md §5's cancellation
// requirement.
func (d *discovery) resetHelloTimeout(p *Peer, holdTime time.Duration) {
	if p.helloTimer != nil {
		p.helloTimer.Stop()
	}
	p.helloGeneration++
	gen := p.helloGeneration
	p.helloTimer = time.AfterFunc(holdTime, func() {
		d.s.mu.Lock()
		stale := gen != p.helloGeneration
		d.s.mu.Unlock()
		if stale {
			return
		}
		d.s.postEvent(event{kind: evHelloTimeout, peer: p})
	})
}

// onHelloTimeout implements spec.md §4.1's hello-timeout handler.
func (s *Speaker) onHelloTimeout(p *Peer) {
	glog.Infof("hello timeout for peer %s", p.IP)
	s.mu.Lock()
	delete(s.peers, p.IP.String())
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
	select {
	case <-p.closed:
	default:
		close(p.closed)
	}
	affected := s.purgeBindingsForPeer(p.IP)
	var toReconcile []*FEC
	for fecID := range affected {
		if f, ok := s.fecByID[fecID]; ok {
			toReconcile = append(toReconcile, f)
		}
	}
	s.mu.Unlock()

	for _, f := range toReconcile {
		s.reconcile(f)
	}

	s.ted.SetLinkUp(s.cfg.RouterID, p.IP, false)
	s.ted.AnnounceLinkChange(s.cfg.RouterID, p.IP, false)
	s.ted.RequestRebuild()
}
