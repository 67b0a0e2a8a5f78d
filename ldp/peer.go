package ldp

import (
	"net"
	"time"
)

// Role is the ACTIVE/PASSIVE session-initiation role assigned per
// spec.md §3/§4.1: ACTIVE iff our router id < the peer's, numerically.
type Role int

const (
	RoleActive Role = iota
	RolePassive
)

func (r Role) String() string {
	if r == RoleActive {
		return "ACTIVE"
	}
	return "PASSIVE"
}

// sessionState is the per-peer transport state machine from
// spec.md §9: NONE -> CONNECTING ->
// ESTABLISHED -> CLOSED.
type sessionState int

const (
	sessNone sessionState = iota
	sessConnecting
	sessEstablished
	sessClosed
)

// Peer is the per-neighbor entry described in spec.md §3. There is at
// most one Peer per peer IP; the Speaker owns the table exclusively.
type Peer struct {
	IP    net.IP
	Iface string
	Role  Role

	state sessionState
	conn  net.Conn

	// outbound is the per-peer send queue; sendLoop drains it onto conn,
	// mirroring the teacher's sendMsg channel (pcep/pcc.go).
	outbound chan *Message
	// closed signals the peer's I/O goroutines to stop.
	closed chan struct{}

	helloTimer *time.Timer
	// helloGeneration guards against a timer firing after it has already
	// been reset/cancelled (see discovery.go).
	helloGeneration int
}

func newPeer(ip net.IP, iface string, role Role) *Peer {
	return &Peer{
		IP:       ip,
		Iface:    iface,
		Role:     role,
		state:    sessNone,
		outbound: make(chan *Message, 16),
		closed:   make(chan struct{}),
	}
}

func (p *Peer) established() bool {
	return p.state == sessEstablished
}
