// Command ecosystem serves the bot directory page and its live channel.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/irammini/ecosystem/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ecosystem",
	Short: "Bot directory with live filtering, search, charts and timeline",
	Long: `ecosystem renders a directory of bots from a YAML catalog. Pages are
rendered on the server; a websocket keeps each open page in sync as the
visitor filters, searches, switches tabs, languages and themes.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.AddCommand(serveCmd, renderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
