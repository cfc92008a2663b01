package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/bondwrap/internal/contract"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/spf13/cobra"
)

var abiJSONOut bool

var abiCmd = &cobra.Command{
	Use:   "abi [bondwrapper|erc20]",
	Short: "Show the wrapper ABI with selectors and event topics",
	Long: `Print the built-in contract interface: every function with its 4-byte
selector and every event with its topic hash.

Examples:
  bondwrap abi                    # BondWrapper interface
  bondwrap abi erc20
  bondwrap abi --json > BondWrapper.abi.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := "bondwrapper"
		if len(args) == 1 {
			id = args[0]
		}
		b, ok := contract.GetBuiltin(id)
		if !ok {
			var known []string
			for _, k := range contract.AllBuiltins() {
				known = append(known, k.ID)
			}
			return fmt.Errorf("unknown ABI %q (known: %v)", id, known)
		}

		out := cmd.OutOrStdout()
		if abiJSONOut {
			data, err := contract.ABIJSON(b.ABI)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintln(out, ui.StyleTitle.Render(b.Name))
		fmt.Fprintln(out, ui.Meta(b.Description))
		fns := ui.NewTable([]ui.Column{{Title: "Selector", Width: 10}, {Title: "Function", Width: 48}, {Title: "Kind", Width: 6}})
		evs := ui.NewTable([]ui.Column{{Title: "Topic", Width: 66}, {Title: "Event", Width: 44}})
		for _, e := range b.ABI {
			switch {
			case e.IsEvent():
				evs.AddRow(ui.Row{contract.Topic(e).Hex(), contract.Signature(e)})
			case e.IsReadFunction():
				fns.AddRow(ui.Row{contract.Selector(e), contract.Signature(e), "read"})
			case e.IsWriteFunction():
				fns.AddRow(ui.Row{contract.Selector(e), contract.Signature(e), "write"})
			}
		}
		fmt.Fprintln(out, fns.Render())
		fmt.Fprintln(out, evs.Render())
		return nil
	},
}

func init() {
	abiCmd.Flags().BoolVar(&abiJSONOut, "json", false, "print the ABI as JSON")
}
