package main

import (
	"flag"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"google.golang.org/grpc"

	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/testdata"

	"github.com/netsplice/ldpd/ldp"
	"github.com/netsplice/ldpd/ldpapi"
)

var (
	serverAddr = flag.String("addr", "[::]:14841", "Addr for grpc server")
	tls        = flag.Bool("tls", false, "Connection uses TLS if true, else plain TCP")
	certFile   = flag.String("certFile", "", "The TLS cert file")
	keyFile    = flag.String("keyFile", "", "The TLS key file")

	routerID      = flag.String("routerId", "", "This speaker's router id (an IPv4 address)")
	iface         = flag.String("iface", "eth0", "Interface to send/receive LDP discovery hellos on")
	helloInterval = flag.Duration("helloInterval", 5*time.Second, "Interval between periodic discovery hellos")
	holdTime      = flag.Duration("holdTime", 15*time.Second, "Advertised hold time before a peer is declared lost")
	routes        = flag.String("staticRoutes", "", "comma-separated dest/len:gateway:direct|indirect entries for the reference routing table")
)

const ldpWellKnownPort = 646

// parseStaticRoutes parses the -staticRoutes flag into the route list and
// the address-to-interface map NewStaticRoutingTable takes, a stand-in for
// the real routing daemon feed spec.md §1 treats as an external collaborator.
func parseStaticRoutes(spec string) ([]ldp.Route, map[string]string) {
	var out []ldp.Route
	ifaceFor := make(map[string]string)
	if spec == "" {
		return out, ifaceFor
	}
	for _, entry := range strings.Split(spec, ",") {
		fields := strings.Split(entry, ":")
		if len(fields) != 3 {
			glog.Errorf("parseStaticRoutes: malformed entry %q, skipping", entry)
			continue
		}
		destPrefix := strings.SplitN(fields[0], "/", 2)
		if len(destPrefix) != 2 {
			glog.Errorf("parseStaticRoutes: malformed dest/len %q, skipping", fields[0])
			continue
		}
		dest := net.ParseIP(destPrefix[0])
		prefixLen, err := strconv.Atoi(destPrefix[1])
		if err != nil || dest == nil {
			glog.Errorf("parseStaticRoutes: invalid dest/len %q, skipping", fields[0])
			continue
		}
		gateway := net.ParseIP(fields[1])
		kind := ldp.RouteIndirect
		if fields[2] == "direct" {
			kind = ldp.RouteDirect
		}
		out = append(out, ldp.Route{Dest: dest, PrefixLen: prefixLen, Kind: kind, Gateway: gateway})
		ifaceFor[dest.String()] = *iface
		if gateway != nil {
			ifaceFor[gateway.String()] = *iface
		}
	}
	return out, ifaceFor
}

func main() {
	flag.Parse()

	rid := net.ParseIP(*routerID)
	if rid == nil {
		glog.Fatalf("main: -routerId is required and must be a valid IPv4 address")
	}

	cfg := ldp.Config{
		RouterID:      rid,
		ListenPort:    ldpWellKnownPort,
		HelloInterval: *helloInterval,
		HoldTime:      *holdTime,
		Iface:         *iface,
	}

	routeList, ifaceFor := parseStaticRoutes(*routes)
	rt := ldp.NewStaticRoutingTable(routeList, ifaceFor)
	it := ldp.NewOSInterfaceTable()
	lib := ldp.NewMemLIB()

	var speaker *ldp.Speaker
	ted := ldp.NewMemTED(func() {
		if speaker != nil {
			speaker.HandleRouteChange(rt.Routes(), it.Interfaces())
		}
	})

	speaker = ldp.NewSpeaker(cfg, rt, it, ted, lib)

	glog.Infof("Starting LDP speaker %s on port %d, interface %s", rid, ldpWellKnownPort, *iface)
	go func() {
		if err := speaker.Run(); err != nil {
			glog.Fatalf("speaker.Run: %s", err.Error())
		}
	}()
	speaker.HandleRouteChange(rt.Routes(), it.Interfaces())

	lis, err := net.Listen("tcp", *serverAddr)
	if err != nil {
		glog.Fatalf("failed to listen: %v", err)
	}
	var opts []grpc.ServerOption
	if *tls {
		if *certFile == "" {
			*certFile = testdata.Path("server1.pem")
		}
		if *keyFile == "" {
			*keyFile = testdata.Path("server1.key")
		}
		creds, err := credentials.NewServerTLSFromFile(*certFile, *keyFile)
		if err != nil {
			glog.Fatalf("Failed to generate credentials %v", err)
		}
		opts = []grpc.ServerOption{grpc.Creds(creds)}
	}
	glog.Infof("Starting GRPC server on %v", *serverAddr)
	grpcServer := grpc.NewServer(opts...)
	ldpapi.RegisterLdpApiServer(grpcServer, &LdpServer{speaker: speaker})
	grpcServer.Serve(lis)
}
