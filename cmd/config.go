package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/bondwrap/internal/config"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Fprintln(out, string(data))
		fmt.Fprintln(out, ui.Meta("Config directory: "+cfg.Dir()))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: "Set a configuration value. Keys: " + strings.Join(config.Keys(), ", ") + `

Token settings apply to the next "bondwrap deploy".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%s set to %q", args[0], args[1])))
		return nil
	},
}

var configSetContractCmd = &cobra.Command{
	Use:   "set-contract <wrapper|underlying> <address>",
	Short: "Record a deployed contract address for on-chain commands",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := strings.ToLower(args[0])
		if role != config.ContractWrapper && role != config.ContractUnderlying {
			return fmt.Errorf("unknown contract role %q (want wrapper or underlying)", args[0])
		}
		if err := cfg.SetContract(role, args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%s contract set to %s", role, ui.Addr(cfg.Contract(role)))))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configListCmd, configSetCmd, configSetContractCmd)
}
