package cmd

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

var convertDecimals uint8

var convertCmd = &cobra.Command{
	Use:   "convert <amount>",
	Short: "Convert between token units and base units",
	Long: `Convert an amount between human token units and integer base units.

A plain decimal is read as token units. A value ending in "raw" or starting
with 0x is read as base units.

Examples:
  bondwrap convert 1.5                # → 1500000000000000000 raw
  bondwrap convert 2500000 raw --decimals 6
  bondwrap convert 0xde0b6b3a7640000  # → 1`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		decimals := cfg.Decimals
		if cmd.Flags().Changed("decimals") {
			decimals = convertDecimals
		}
		input := strings.TrimSpace(args[0])
		raw := len(args) == 2 && strings.EqualFold(args[1], "raw")
		if strings.HasSuffix(strings.ToLower(input), "raw") {
			input = strings.TrimSpace(input[:len(input)-3])
			raw = true
		}

		var pairs [][2]string
		switch {
		case strings.HasPrefix(strings.ToLower(input), "0x"):
			v, err := hexutil.DecodeBig(input)
			if err != nil {
				return fmt.Errorf("invalid hex amount %q: %w", input, err)
			}
			pairs = [][2]string{
				{"Base units", v.String()},
				{"Token units", formatUnits(v, decimals)},
			}
		case raw:
			v, err := parseUnits(input, 0)
			if err != nil {
				return err
			}
			pairs = [][2]string{
				{"Token units", formatUnits(v, decimals)},
				{"Hex", hexutil.EncodeBig(v)},
			}
		default:
			v, err := parseUnits(input, decimals)
			if err != nil {
				return err
			}
			pairs = [][2]string{
				{"Base units", v.String()},
				{"Hex", hexutil.EncodeBig(v)},
			}
		}
		pairs = append([][2]string{{"Input", input}, {"Decimals", fmt.Sprint(decimals)}}, pairs...)
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("Unit Conversion", pairs))
		return nil
	},
}

func init() {
	convertCmd.Flags().Uint8Var(&convertDecimals, "decimals", 18, "token decimals (default: config decimals)")
}
