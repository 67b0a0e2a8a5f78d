package ldp

import (
	"bufio"
	"net"
	"time"

	"github.com/golang/glog"
)

// sessionDialRetry mirrors the teacher's connectRetryTimer (main.go):
// how long an ACTIVE peer waits before retrying a failed dial.
const sessionDialRetry = 10 * time.Second

// connectActive opens the reliable transport to a PASSIVE-selected peer,
// per spec.md §4.2: "the ACTIVE peer initiates connection using its
// router id as source address". Runs in its own goroutine. Once the dial
// succeeds, serveConn sets the peer's conn and session state under s.mu
// from this goroutine; the FEC reconciliation that follows is posted to
// Speaker.run as evSessionUp.
func (s *Speaker) connectActive(p *Peer) {
	for {
		select {
		case <-p.closed:
			return
		default:
		}
		dialer := net.Dialer{
			LocalAddr: &net.TCPAddr{IP: s.cfg.RouterID},
			Timeout:   5 * time.Second,
		}
		conn, err := dialer.Dial("tcp", net.JoinHostPort(p.IP.String(), itoa(s.cfg.ListenPort)))
		if err != nil {
			glog.V(2).Infof("connectActive: dial to %s failed: %s, retrying", p.IP, err.Error())
			select {
			case <-time.After(sessionDialRetry):
				continue
			case <-p.closed:
				return
			}
		}
		s.serveConn(p, conn)
		return
	}
}

// servePassive handles an inbound connection, per spec.md §4.2: "look up
// the peer by the connection's remote address: if unknown, or a session
// already exists for it, refuse the connection."
func (s *Speaker) servePassive(conn net.Conn) {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		glog.Errorf("servePassive: cannot parse remote addr %v: %s", conn.RemoteAddr(), err.Error())
		conn.Close()
		return
	}
	ip := net.ParseIP(host)

	s.mu.Lock()
	p, ok := s.peers[ip.String()]
	if !ok || p.conn != nil {
		s.mu.Unlock()
		glog.Errorf("servePassive: refusing connection from %s: unknown peer or session already exists", host)
		conn.Close()
		return
	}
	s.mu.Unlock()

	s.serveConn(p, conn)
}

// serveConn binds conn to p, starts its I/O goroutines and notifies
// Speaker.run that the session is up. Mirrors the teacher's
// PCC.ServeClient (pcep/pcc.go), minus PCEP's OPEN/KEEPALIVE handshake —
// this protocol core treats TCP establishment itself as session
// establishment (spec.md §4.2).
func (s *Speaker) serveConn(p *Peer, conn net.Conn) {
	s.mu.Lock()
	p.conn = conn
	p.state = sessConnecting
	s.mu.Unlock()

	go p.sendLoop()
	go s.readLoop(p)

	s.mu.Lock()
	p.state = sessEstablished
	s.mu.Unlock()
	s.postEvent(event{kind: evSessionUp, peer: p})
}

// sendLoop drains a peer's outbound queue onto its connection, mirroring
// the teacher's PCC.sendLoop (pcep/pcc.go).
func (p *Peer) sendLoop() {
	for {
		select {
		case msg := <-p.outbound:
			data := SerializeMessage(msg)
			if _, err := p.conn.Write(data); err != nil {
				glog.V(4).Infof("sendLoop(%s): write failed: %s", p.IP, err.Error())
				continue
			}
		case <-p.closed:
			glog.V(4).Infof("sendLoop(%s): terminating", p.IP)
			return
		}
	}
}

// readLoop reads and parses incoming messages and posts them to
// Speaker.run for processing, mirroring the teacher's PCC.readLoop
// (pcep/pcc.go) but never touching shared state itself — the decoded
// message is handed off, not acted on, per the single-mutator rule.
func (s *Speaker) readLoop(p *Peer) {
	scanner := bufio.NewScanner(p.conn)
	scanner.Split(SplitLdpMessage)
	for scanner.Scan() {
		msg, err := parseMessage(scanner.Bytes())
		if err != nil {
			glog.V(4).Infof("readLoop(%s): error parsing message: %s", p.IP, err.Error())
			continue
		}
		s.postEvent(event{kind: evMessage, peer: p, msg: msg})
	}
	glog.V(4).Infof("readLoop(%s): closed", p.IP)
	s.postEvent(event{kind: evSessionClosed, peer: p})
}

// onSessionUp implements spec.md §4.2: "run reconcile(FEC) for each FEC
// whose next-hop equals the newly connected peer."
func (s *Speaker) onSessionUp(p *Peer) {
	glog.Infof("session with peer %s is now ESTABLISHED", p.IP)
	s.mu.Lock()
	var toReconcile []*FEC
	for _, f := range s.fecs {
		if !f.local && f.NextHop.Equal(p.IP) {
			toReconcile = append(toReconcile, f)
		}
	}
	s.mu.Unlock()
	for _, f := range toReconcile {
		s.reconcile(f)
	}
}

// onSessionClosed implements spec.md §4.2/§7: session loss is treated as
// fatal for that session and, per the Open Question 2 decision recorded
// in SPEC_FULL.md, identically to hello-timeout — no reconnect is
// attempted, the peer entry is left for the discovery hello-timeout
// path to clean up on its own schedule. Here we additionally purge
// bindings eagerly since the observable effect must match the timeout
// path (spec.md §4.2) and there is no reason to wait.
func (s *Speaker) onSessionClosed(p *Peer) {
	glog.Infof("session with peer %s closed", p.IP)
	s.mu.Lock()
	p.state = sessClosed
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
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
}
