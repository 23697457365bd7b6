package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "autonpath",
	Short: "Autonomous route editor for the robot",
	Long: `autonpath edits autonomous routes made of follow curves, straight moves,
turns and named commands, and exports them in the text format the robot loads.`,
	SilenceUsage: true,
}

func main() {
	log.SetFlags(log.Lshortfile)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
