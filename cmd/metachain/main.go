// Command metachain builds chains of Metanet records through a node's
// wallet and reads them back.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/bitfsorg/metachain/network"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	a := &app{
		newNode: func(cfg network.RPCConfig) network.NodeService {
			return network.NewRPCClient(cfg)
		},
	}
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()
	closeLogRotator()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
