// Command clobctl replays a command stream through one matching engine and
// prints the resulting trade log and book snapshots. It is glue: parsing,
// dispatch, and formatting live in protocol and matching; this file only
// wires stdin/stdout/flags to them.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"limitbook/matching"
	"limitbook/protocol"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "clobctl",
		Short: "Replay a CLOB command stream and print trades and book snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(inputPath)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "command file to replay (defaults to stdin)")
	return cmd
}

func run(inputPath string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	in := os.Stdin
	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	engine := matching.NewEngine()
	scanner := bufio.NewScanner(in)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		cmd, err := protocol.ParseCommand(line)
		if err != nil {
			// Protocol-malformed input is fatal at this boundary, never
			// retried, never absorbed by the engine (spec.md §7).
			logger.Fatal("malformed command", zap.String("line", line), zap.Error(err))
		}
		engine.Apply(cmd)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	for _, trade := range engine.Trades() {
		fmt.Fprintln(out, protocol.FormatTrade(trade))
	}
	for _, line := range protocol.FormatSnapshot(engine.SnapshotBooks()) {
		fmt.Fprintln(out, line)
	}
	return nil
}
