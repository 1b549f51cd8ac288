package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newJournalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "journal [root-txid]",
		Short: "List journaled chains, or the links of one chain",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.openJournal()
			if err != nil {
				return err
			}
			defer func() { _ = j.Close() }()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer func() { _ = tw.Flush() }()

			if len(args) == 0 {
				chains, err := j.Chains()
				if err != nil {
					return err
				}
				fmt.Fprintln(tw, "ROOT\tNODES\tTIP\tENCODING")
				for _, c := range chains {
					tip, family := "-", "-"
					if c.Tip != nil {
						tip, family = c.Tip.TxID, string(c.Tip.Family)
					}
					fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", c.RootTxID, c.Links, tip, family)
				}
				return nil
			}

			links, err := j.Links(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(tw, "INDEX\tTXID\tNAME\tSUBPROTOCOLS\tBYTES")
			for _, l := range links {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", l.Index, l.TxID, l.Name, l.Subprotocols, l.Size)
			}
			return nil
		},
	}
}
