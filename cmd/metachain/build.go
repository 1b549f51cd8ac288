package main

import (
	"fmt"
	"strings"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/spf13/cobra"

	"github.com/bitfsorg/metachain/chain"
)

// defaultBuildCount is the number of nodes built when --num is not given.
const defaultBuildCount = 5

type buildFlags struct {
	address     string
	count       int
	attachments int
	resume      string
}

func newBuildCmd(a *app) *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a chain of Metanet nodes",
		Long: `Build publishes count nodes, each one the child of the previous, through
the node wallet. Without --address the wallet's default account address is
used. Every submitted node is recorded in the journal so that --resume can
continue a chain from its tip.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, a, f)
		},
	}
	cmd.Flags().StringVarP(&f.address, "address", "a", "", "address controlling the nodes (default: wallet address)")
	cmd.Flags().IntVarP(&f.count, "num", "n", defaultBuildCount, "number of nodes to build")
	cmd.Flags().IntVar(&f.attachments, "attachments", -1, "subprotocol draws per node (default from config)")
	cmd.Flags().StringVar(&f.resume, "resume", "", "continue the journaled chain containing this txid")
	return cmd
}

func runBuild(cmd *cobra.Command, a *app, f buildFlags) error {
	if strings.EqualFold(a.encoding, encodingAuto) {
		return fmt.Errorf("--encoding %s is only valid for read and walk", encodingAuto)
	}
	if f.count < 1 {
		return fmt.Errorf("--num must be positive, got %d", f.count)
	}
	if f.address != "" {
		if _, err := script.NewAddressFromString(f.address); err != nil {
			return fmt.Errorf("invalid address %q: %w", f.address, err)
		}
	}

	c, err := a.recordCodec()
	if err != nil {
		return err
	}
	bc := chain.DefaultBuilderConfig()
	bc.Codec = c
	bc.Attachments = a.cfg.Attachments
	if f.attachments >= 0 {
		bc.Attachments = f.attachments
	}
	bc.Submitter = chain.NewRPCSubmitter(a.nodeService())
	builder, err := chain.NewBuilder(bc)
	if err != nil {
		return err
	}

	j, err := a.openJournal()
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	var req chain.ChainRequest
	if f.resume != "" {
		link, err := j.GetLink(f.resume)
		if err != nil {
			return err
		}
		if link.Family != builder.Family() {
			return fmt.Errorf("chain %s was built with %s, not %s", link.RootTxID, link.Family, builder.Family())
		}
		if req, err = j.Resume(f.resume); err != nil {
			return err
		}
	}
	if f.address != "" {
		req.Address = f.address
	}
	req.Count = f.count

	record := j.Recorder()
	out := cmd.OutOrStdout()
	req.OnLink = func(l chain.Link) error {
		if err := record(l); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d %s\n", l.Index, l.TxID)
		return nil
	}

	links, err := builder.BuildChain(cmd.Context(), req)
	if err != nil {
		return err
	}
	root := links[0].RootTxID
	mainLog.Infof("Built %d nodes on chain %s", len(links), root)
	fmt.Fprintf(out, "root %s\n", root)
	return nil
}
