package main

import (
	"context"

	"github.com/netsplice/ldpd/ldp"
	"github.com/netsplice/ldpd/ldpapi"
)

// LdpServer implements ldpapi.LdpApiServer against a live Speaker,
// mirroring the teacher's PceServer (server.go) reading sessions/
// globalLspDb directly.
type LdpServer struct {
	speaker *ldp.Speaker
}

// GetPeers returns the current peer table.
func (s *LdpServer) GetPeers(ctx context.Context, none *ldpapi.Empty) (*ldpapi.GetPeersResponse, error) {
	resp := &ldpapi.GetPeersResponse{}
	for _, p := range s.speaker.SnapshotPeers() {
		resp.Peers = append(resp.Peers, &ldpapi.PeerInfo{
			RouterId:  p.RouterID,
			Interface: p.Interface,
			Role:      p.Role,
			SessionUp: p.SessionUp,
		})
	}
	return resp, nil
}

// GetFecs returns the current FEC table, longest-prefix-first.
func (s *LdpServer) GetFecs(ctx context.Context, none *ldpapi.Empty) (*ldpapi.GetFecsResponse, error) {
	resp := &ldpapi.GetFecsResponse{}
	for _, f := range s.speaker.SnapshotFecs() {
		resp.Fecs = append(resp.Fecs, &ldpapi.FecInfo{
			Address:   f.Address,
			PrefixLen: int32(f.PrefixLen),
			NextHop:   f.NextHop,
			Local:     f.Local,
		})
	}
	return resp, nil
}

// GetBindings returns DS/US bindings, optionally restricted to one FEC.
func (s *LdpServer) GetBindings(ctx context.Context, req *ldpapi.GetBindingsRequest) (*ldpapi.GetBindingsResponse, error) {
	resp := &ldpapi.GetBindingsResponse{}
	for _, b := range s.speaker.SnapshotBindings(req.FecAddress, int(req.FecPrefixLen)) {
		resp.Bindings = append(resp.Bindings, &ldpapi.BindingInfo{
			FecAddress:   b.FecAddress,
			FecPrefixLen: int32(b.FecPrefixLen),
			Peer:         b.Peer,
			Label:        int32(b.Label),
			Direction:    b.Direction,
		})
	}
	return resp, nil
}
