package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rollseq",
	Short: "Piano roll sequencer for the terminal",
	Long: `rollseq is a piano roll sequencer: edit notes on a grid of pitches
and time, loop parts of the song and play it through the audio device.`,
	SilenceUsage: true,
}

var configDirFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "directory of preferences.yml and keybindings.yml (default: <user config dir>/rollseq)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
