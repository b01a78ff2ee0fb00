package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tmsopt/internal/logging"
	"tmsopt/internal/model"
	"tmsopt/internal/opt"
	"tmsopt/internal/optimize"
)

var (
	solveFile   string
	solvePretty bool
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a request document and print the response",
	Long:  "Reads an optimize request as JSON from --file (or stdin when omitted or \"-\") and writes the response to stdout.",
	RunE:  solve,
}

func init() {
	solveCmd.Flags().StringVarP(&solveFile, "file", "f", "", "request JSON file")
	solveCmd.Flags().BoolVar(&solvePretty, "pretty", false, "indent output")
	rootCmd.AddCommand(solveCmd)
}

func solve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if solveFile != "" && solveFile != "-" {
		f, err := os.Open(solveFile)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		in = f
	}
	var req model.OptimizeRequest
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	engine := opt.NewEngine(
		opt.WithStallIterations(cfg.Solver.StallIterations),
		opt.WithLogger(logging.Component(log, "solver")),
	)
	svc := optimize.NewService(engine, nil, logging.Component(log, "optimize"))
	resp, err := svc.Optimize(ctx, &req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if solvePretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}
