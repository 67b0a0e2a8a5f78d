package ldp

import (
	"net"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Config carries the startup parameters a Speaker needs, mirroring the
// teacher's main.go flag set (holdTime/port there are constants; here
// they are operator-configurable per spec.md §4.1).
type Config struct {
	RouterID      net.IP
	ListenPort    int
	HelloInterval time.Duration
	HoldTime      time.Duration
	MulticastAddr string
	Iface         string
}

// eventKind tags the single event channel every shared-state mutation
// funnels through, implementing SPEC_FULL.md's "CONCURRENCY MODEL —
// CHOSEN ADAPTATION": one goroutine (Speaker.run) is the exclusive
// mutator of fecs/bindings/peers, generalizing the teacher's per-PCC
// channel dispatch (pcep/pcc.go) to speaker-wide scope.
type eventKind int

const (
	evMessage eventKind = iota
	evHelloTimeout
	evSessionClosed
	evSessionUp
	evRouteUpdate
	evHelloReceived
	evNoRouteRetry
)

type event struct {
	kind   eventKind
	peer   *Peer
	msg    *Message
	routes []Route
	ifaces []LocalInterface
	fecID  uint64
}

// Speaker is the top-level LDP instance for a single router, owning the
// FEC table, binding tables and peer table exclusively through run().
// This is the generalization of the teacher's per-PCC state (pcep.PCC)
// to a single speaker-wide owner, per spec.md §5.
type Speaker struct {
	cfg Config

	mu        sync.Mutex
	fecs      []*FEC
	fecByID   map[uint64]*FEC
	nextFecID uint64
	bindings  *bindingTables
	peers     map[string]*Peer

	routingTable   RoutingTable
	ifaceTable     InterfaceTable
	ted            TED
	lib            LIB
	classifyFilter Classifier

	events chan event
	stop   chan struct{}

	listener net.Listener
	disc     *discovery
}

// NewSpeaker constructs a Speaker with its collaborators. Nothing runs
// until Run is called, mirroring the teacher's NewPCC/ServeClient split.
func NewSpeaker(cfg Config, rt RoutingTable, it InterfaceTable, ted TED, lib LIB) *Speaker {
	s := &Speaker{
		cfg:          cfg,
		fecByID:      make(map[uint64]*FEC),
		bindings:     newBindingTables(),
		peers:        make(map[string]*Peer),
		routingTable: rt,
		ifaceTable:   it,
		ted:          ted,
		lib:          lib,
		events:       make(chan event, 64),
		stop:         make(chan struct{}),
	}
	s.classifyFilter = newClassifier(s)
	return s
}

func (s *Speaker) routerIDUint32() uint32 {
	return ipToUint32(s.cfg.RouterID)
}

func ipToUint32(ip net.IP) uint32 {
	v4 := ip.To4()
	if v4 == nil {
		return 0
	}
	return uint32(v4[0])<<24 | uint32(v4[1])<<16 | uint32(v4[2])<<8 | uint32(v4[3])
}

// Run starts the listener, discovery and the single event-loop
// goroutine, and blocks until Stop is called. Mirrors the shape of the
// teacher's main() (startListen + grpc Serve), but funnels everything
// into one loop instead of two independent servers.
func (s *Speaker) Run() error {
	ln, err := net.Listen("tcp", net.JoinHostPort("", itoa(s.cfg.ListenPort)))
	if err != nil {
		return newAllocationError("Speaker.Run: listen failed: %s", err.Error())
	}
	s.listener = ln

	s.disc, err = newDiscovery(s)
	if err != nil {
		ln.Close()
		return err
	}

	go s.acceptLoop()
	go s.disc.run()
	s.run()
	return nil
}

// Stop tears the speaker down. Safe to call once.
func (s *Speaker) Stop() {
	close(s.stop)
	if s.listener != nil {
		s.listener.Close()
	}
	if s.disc != nil {
		s.disc.stop()
	}
}

func (s *Speaker) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			glog.V(4).Infof("Speaker.acceptLoop: listener closed: %s", err.Error())
			return
		}
		glog.Infof("Speaker.acceptLoop: inbound connection from %v", conn.RemoteAddr())
		go s.servePassive(conn)
	}
}

// run is the single exclusive mutator goroutine, per spec.md §5: no
// entry point may block, and the table mutations triggered by distinct
// entry points (hello timeout, message arrival, route change) must be
// atomic with respect to one another. Funneling every trigger through
// one channel into one goroutine gives that for free, generalizing the
// teacher's per-PCC readLoop/sendLoop split (pcep/pcc.go) to cover all
// peers and the FEC table at once.
func (s *Speaker) run() {
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)
		case <-s.stop:
			return
		}
	}
}

func (s *Speaker) handleEvent(ev event) {
	switch ev.kind {
	case evMessage:
		s.dispatchMessage(ev.peer, ev.msg)
	case evHelloTimeout:
		s.onHelloTimeout(ev.peer)
	case evSessionClosed:
		s.onSessionClosed(ev.peer)
	case evSessionUp:
		s.onSessionUp(ev.peer)
	case evRouteUpdate:
		s.rebuildFecList(ev.routes, ev.ifaces)
	case evHelloReceived:
		s.disc.handleHello(ev.peer, ev.msg)
	case evNoRouteRetry:
		s.onNoRouteRetry(ev.peer, ev.fecID)
	}
}

// postEvent is the only way any goroutine other than run() touches
// speaker state: it hands the event to the buffered channel. It blocks
// only while the channel is full, and returns without posting once Stop
// has been called.
func (s *Speaker) postEvent(ev event) {
	select {
	case s.events <- ev:
	case <-s.stop:
	}
}

// HandleRouteChange is the external trigger a routing table/TED
// collaborator calls whenever the RIB or the local interface set
// changes, posting an evRouteUpdate so rebuildFecList runs on the
// single mutator goroutine instead of the caller's own.
func (s *Speaker) HandleRouteChange(routes []Route, ifaces []LocalInterface) {
	s.postEvent(event{kind: evRouteUpdate, routes: routes, ifaces: ifaces})
}
