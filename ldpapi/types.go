// Package ldpapi is the northbound introspection surface for an LDP
// speaker: read-only RPCs over the peer table, FEC table and binding
// tables. Message types below stand in for protoc-gen-go output (the
// .proto this would be generated from is not part of this tree);
// RegisterLdpApiServer/NewLdpApiClient in service.go follow the same
// shape protoc-gen-go v1.2 produces.
package ldpapi

import "fmt"

type Empty struct {
	XXX_unrecognized []byte
}

func (m *Empty) Reset()         { *m = Empty{} }
func (m *Empty) String() string { return "Empty{}" }
func (*Empty) ProtoMessage()    {}

// PeerInfo mirrors a single ldp.Peer entry.
type PeerInfo struct {
	RouterId         string `protobuf:"bytes,1,opt,name=router_id" json:"router_id,omitempty"`
	Interface        string `protobuf:"bytes,2,opt,name=interface" json:"interface,omitempty"`
	Role             string `protobuf:"bytes,3,opt,name=role" json:"role,omitempty"`
	SessionUp        bool   `protobuf:"varint,4,opt,name=session_up" json:"session_up,omitempty"`
	XXX_unrecognized []byte
}

func (m *PeerInfo) Reset()         { *m = PeerInfo{} }
func (m *PeerInfo) String() string { return fmt.Sprintf("PeerInfo{%s %s %s up=%v}", m.RouterId, m.Interface, m.Role, m.SessionUp) }
func (*PeerInfo) ProtoMessage()    {}

type GetPeersResponse struct {
	Peers            []*PeerInfo `protobuf:"bytes,1,rep,name=peers" json:"peers,omitempty"`
	XXX_unrecognized []byte
}

func (m *GetPeersResponse) Reset()         { *m = GetPeersResponse{} }
func (m *GetPeersResponse) String() string { return fmt.Sprintf("GetPeersResponse{%d peers}", len(m.Peers)) }
func (*GetPeersResponse) ProtoMessage()    {}

// FecInfo mirrors a single ldp.FEC entry.
type FecInfo struct {
	Address          string `protobuf:"bytes,1,opt,name=address" json:"address,omitempty"`
	PrefixLen        int32  `protobuf:"varint,2,opt,name=prefix_len" json:"prefix_len,omitempty"`
	NextHop          string `protobuf:"bytes,3,opt,name=next_hop" json:"next_hop,omitempty"`
	Local            bool   `protobuf:"varint,4,opt,name=local" json:"local,omitempty"`
	XXX_unrecognized []byte
}

func (m *FecInfo) Reset() { *m = FecInfo{} }
func (m *FecInfo) String() string {
	return fmt.Sprintf("FecInfo{%s/%d via %s}", m.Address, m.PrefixLen, m.NextHop)
}
func (*FecInfo) ProtoMessage() {}

type GetFecsResponse struct {
	Fecs             []*FecInfo `protobuf:"bytes,1,rep,name=fecs" json:"fecs,omitempty"`
	XXX_unrecognized []byte
}

func (m *GetFecsResponse) Reset()         { *m = GetFecsResponse{} }
func (m *GetFecsResponse) String() string { return fmt.Sprintf("GetFecsResponse{%d fecs}", len(m.Fecs)) }
func (*GetFecsResponse) ProtoMessage()    {}

// BindingInfo mirrors one DS or US entry.
type BindingInfo struct {
	FecAddress       string `protobuf:"bytes,1,opt,name=fec_address" json:"fec_address,omitempty"`
	FecPrefixLen     int32  `protobuf:"varint,2,opt,name=fec_prefix_len" json:"fec_prefix_len,omitempty"`
	Peer             string `protobuf:"bytes,3,opt,name=peer" json:"peer,omitempty"`
	Label            int32  `protobuf:"varint,4,opt,name=label" json:"label,omitempty"`
	Direction        string `protobuf:"bytes,5,opt,name=direction" json:"direction,omitempty"` // "DS" or "US"
	XXX_unrecognized []byte
}

func (m *BindingInfo) Reset() { *m = BindingInfo{} }
func (m *BindingInfo) String() string {
	return fmt.Sprintf("BindingInfo{%s %s/%d peer=%s label=%d}", m.Direction, m.FecAddress, m.FecPrefixLen, m.Peer, m.Label)
}
func (*BindingInfo) ProtoMessage() {}

type GetBindingsRequest struct {
	FecAddress       string `protobuf:"bytes,1,opt,name=fec_address" json:"fec_address,omitempty"`
	FecPrefixLen     int32  `protobuf:"varint,2,opt,name=fec_prefix_len" json:"fec_prefix_len,omitempty"`
	XXX_unrecognized []byte
}

func (m *GetBindingsRequest) Reset()         { *m = GetBindingsRequest{} }
func (m *GetBindingsRequest) String() string { return fmt.Sprintf("GetBindingsRequest{%s/%d}", m.FecAddress, m.FecPrefixLen) }
func (*GetBindingsRequest) ProtoMessage()    {}

type GetBindingsResponse struct {
	Bindings         []*BindingInfo `protobuf:"bytes,1,rep,name=bindings" json:"bindings,omitempty"`
	XXX_unrecognized []byte
}

func (m *GetBindingsResponse) Reset() { *m = GetBindingsResponse{} }
func (m *GetBindingsResponse) String() string {
	return fmt.Sprintf("GetBindingsResponse{%d bindings}", len(m.Bindings))
}
func (*GetBindingsResponse) ProtoMessage() {}
