package main

import (
	"fmt"

	"Flexura/internal/version"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of flexura",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flexura v%s\n", version.Version)
		fmt.Printf("commit %s, built %s\n", version.GitCommit, version.BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
