package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWalkCmd(a *app) *cobra.Command {
	var depth int
	cmd := &cobra.Command{
		Use:   "walk <txid>",
		Short: "Follow parent links from a node back to its root",
		Long: `Walk prints one line per node from the given txid back to the root:
position, txid, name, encoding and confirmations.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.reader()
			if err != nil {
				return err
			}
			hops, walkErr := r.Walk(cmd.Context(), args[0], depth)

			node := a.nodeService()
			out := cmd.OutOrStdout()
			for i, h := range hops {
				status, err := node.GetTxStatus(cmd.Context(), h.TxID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d %s %s %s %d\n", i, h.TxID, h.Record.Attributes.Name, h.Family, status.Confirmations)
			}
			if walkErr != nil {
				return walkErr
			}
			fmt.Fprintf(out, "root reached after %d nodes\n", len(hops))
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 0, "maximum number of nodes to visit (default 10000)")
	return cmd
}
