package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"google.golang.org/grpc"

	"github.com/netsplice/ldpd/ldpapi"
)

var (
	serverAddr   = flag.String("addr", "localhost:14841", "Addr for grpc server")
	listPeers    = flag.Bool("listPeers", false, "List all discovered LDP peers")
	listFecs     = flag.Bool("listFecs", false, "List the current FEC table")
	listBindings = flag.Bool("listBindings", false, "List DS/US bindings")
	fecAddr      = flag.String("fecAddr", "", "Restrict -listBindings to a single FEC address")
	fecPrefixLen = flag.Int("fecPrefixLen", 32, "Prefix length for -fecAddr")
)

func main() {
	flag.Parse()
	conn, err := grpc.Dial(*serverAddr, grpc.WithInsecure())
	if err != nil {
		log.Fatalf(err.Error())
	}
	defer conn.Close()
	client := ldpapi.NewLdpApiClient(conn)
	ctx := context.Background()

	if *listPeers {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RouterID\tInterface\tRole\tSessionUp")
		fmt.Fprintln(w, "--------\t---------\t----\t---------")
		resp, err := client.GetPeers(ctx, &ldpapi.Empty{})
		if err != nil {
			log.Fatalf(err.Error())
		}
		for _, p := range resp.Peers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", p.RouterId, p.Interface, p.Role, p.SessionUp)
		}
		w.Flush()
	}

	if *listFecs {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Address\tPrefixLen\tNextHop\tLocal")
		fmt.Fprintln(w, "-------\t---------\t-------\t-----")
		resp, err := client.GetFecs(ctx, &ldpapi.Empty{})
		if err != nil {
			log.Fatalf(err.Error())
		}
		for _, f := range resp.Fecs {
			fmt.Fprintf(w, "%s\t%d\t%s\t%v\n", f.Address, f.PrefixLen, f.NextHop, f.Local)
		}
		w.Flush()
	}

	if *listBindings {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Direction\tFEC\tPeer\tLabel")
		fmt.Fprintln(w, "---------\t---\t----\t-----")
		resp, err := client.GetBindings(ctx, &ldpapi.GetBindingsRequest{FecAddress: *fecAddr, FecPrefixLen: int32(*fecPrefixLen)})
		if err != nil {
			log.Fatalf(err.Error())
		}
		for _, b := range resp.Bindings {
			fmt.Fprintf(w, "%s\t%s/%d\t%s\t%d\n", b.Direction, b.FecAddress, b.FecPrefixLen, b.Peer, b.Label)
		}
		w.Flush()
	}
}
