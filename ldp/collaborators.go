package ldp

import "net"

// RouteKind distinguishes a directly-connected route from one learned via
// a gateway, per spec.md §4.3.
type RouteKind int

const (
	RouteIndirect RouteKind = iota
	RouteDirect
)

// Route is a single entry as read from the external routing table.
type Route struct {
	Dest      net.IP
	PrefixLen int
	Kind      RouteKind
	Gateway   net.IP
	Multicast bool
}

// RoutingTable is the external collaborator holding the IP routing table
// (spec.md §1: "deliberately out of scope, treated as an external
// collaborator with a named interface").
type RoutingTable interface {
	Routes() []Route
	// InterfaceFor resolves the local output interface used to reach ip,
	// per SPEC_FULL.md's Open Question 3 decision: a peer whose interface
	// cannot be resolved this way is rejected outright.
	InterfaceFor(ip net.IP) (name string, ok bool)
}

// LocalInterface is a local interface with an address eligible to become
// a host FEC (spec.md §4.3).
type LocalInterface struct {
	Name string
	Addr net.IP
	Up   bool
}

// InterfaceTable is the external collaborator holding local interface
// state.
type InterfaceTable interface {
	Interfaces() []LocalInterface
}

// TED is the external Traffic Engineering Database. The core only uses it
// to read/flip per-link up/down state and to ask for routing-table
// recomputation, per spec.md §4.1 and §4.6.
type TED interface {
	LinkUp(local, remote net.IP) bool
	SetLinkUp(local, remote net.IP, up bool)
	AnnounceLinkChange(local, remote net.IP, up bool)
	RequestRebuild()
}

// LabelOpKind is the operation a LIB cross-connect applies to a packet's
// label stack, per spec.md §4.5.
type LabelOpKind int

const (
	OpPush LabelOpKind = iota
	OpSwap
	OpPop
)

// LabelOp is the opaque outLabelOp value spec.md §4.5 describes.
type LabelOp struct {
	Kind  LabelOpKind
	Label int
}

func Push(l int) LabelOp { return LabelOp{Kind: OpPush, Label: l} }
func Swap(l int) LabelOp { return LabelOp{Kind: OpSwap, Label: l} }
func Pop() LabelOp       { return LabelOp{Kind: OpPop} }

// Color is the user-traffic color classification carries through to the
// data-plane lookup result, per spec.md §4.5.
type Color int

// NoIngressLabel is the ingressLabel sentinel meaning "LIB should
// allocate a fresh one", per spec.md §4.5.
const NoIngressLabel = -1

// LIB is the external Label Information Base / cross-connect engine.
type LIB interface {
	// Install creates or replaces a cross-connect. If ingressLabel is
	// NoIngressLabel, the LIB allocates a fresh one and returns it.
	Install(ingressLabel int, ingressIf string, op LabelOp, egressIf string, color Color) (label int, err error)
	Remove(label int) error
}
