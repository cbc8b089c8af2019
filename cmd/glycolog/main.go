// cmd/glycolog/main.go
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var logger zerolog.Logger

var rootCmd = &cobra.Command{
	Use:   "glycolog",
	Short: "Glucose tracking and health insights engine",
	Long: `glycolog turns glucose readings, meal logs and onboarding questionnaire
answers into statistics, insights and prioritized recommendations.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the glycolog version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("glycolog version %s\n", version)
	},
}

func main() {
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	rootCmd.AddCommand(versionCmd, serveCmd, analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
