package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "adminctl",
		Short:        "Operator commands for the shipos backend",
		Version:      Version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(setRoleCmd(openStore))
	rootCmd.AddCommand(listUsersCmd(openStore))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
