package main

import (
	"github.com/spf13/cobra"
)

func newReadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read <txid>",
		Short: "Decode the Metanet record carried by a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.reader()
			if err != nil {
				return err
			}
			found, err := r.ReadTx(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			node := a.nodeService()
			status, err := node.GetTxStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tip, err := node.GetBestBlockHeight(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printFound(out, args[0], found)
			printStatus(out, status, tip)
			return nil
		},
	}
}
