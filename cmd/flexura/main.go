package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flexura",
	Short: "Simply-supported beam deflection checks",
	Long: `flexura solves simply-supported beams under uniform load with a
frame-element stiffness model and checks the peak deflection against L/ratio.

Inputs are in engineering units: span in m, load in kN/m, E in GPa,
I in m^4 and A in m^2.`,
	SilenceUsage: true,
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
