package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/duynguyendang/formalmath/internal/manager"
	"github.com/duynguyendang/formalmath/pkg/mcp"
	"github.com/duynguyendang/formalmath/pkg/server"
)

func main() {
	_ = godotenv.Load()

	var (
		dataDir   string
		stepLimit int
		verbose   bool
	)

	rootCmd := &cobra.Command{
		Use:   "formalmath",
		Short: "Checker for Metamath-style formal axiomatic systems",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "./data", "directory holding formal system databases (*.yaml)")
	rootCmd.PersistentFlags().IntVar(&stepLimit, "step-limit", 0, "maximum proof steps per verification run (0 = unbounded)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	var detailed bool
	verifyCmd := &cobra.Command{
		Use:   "verify <system> [theorem...]",
		Short: "Verify theorems of a formal system",
		Long:  "Verify the named theorems, or every theorem of the system when none are given.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := manager.NewSystemManager(dataDir, stepLimit)
			// Loading already proof-checks every theorem in the database;
			// verifying again here produces the per-theorem report.
			sys, err := mgr.GetSystem(args[0])
			if err != nil {
				return err
			}

			theorems := args[1:]
			if len(theorems) == 0 {
				theorems = sys.Theorems()
			}
			for _, label := range theorems {
				result, err := sys.Verify(label, detailed)
				if err != nil {
					return err
				}
				fmt.Printf("verified %s: %s (%d steps)\n", result.Theorem, result.Conclusion, result.Steps)
				if detailed {
					for _, line := range result.TraceStrings() {
						fmt.Println("  " + line)
					}
				}
			}
			return nil
		},
	}
	verifyCmd.Flags().BoolVar(&detailed, "detailed", false, "print the full step-by-step trace")

	var addr string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := manager.NewSystemManager(dataDir, stepLimit)
			slog.Info("starting server", "addr", addr, "data", dataDir)
			return server.NewServer(mgr).Run(addr)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := manager.NewSystemManager(dataDir, stepLimit)
			return mcp.Run(context.Background(), mgr)
		},
	}

	rootCmd.AddCommand(verifyCmd, serveCmd, mcpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
