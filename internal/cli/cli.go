// Package cli implements the command-line interface for risu-inspect.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/eunmann/risu-inspect/internal/logctx"
	"github.com/eunmann/risu-inspect/pkg/codec"
	"github.com/eunmann/risu-inspect/pkg/format"
	"github.com/eunmann/risu-inspect/pkg/inspect"
	"github.com/eunmann/risu-inspect/pkg/logging"
	"github.com/eunmann/risu-inspect/pkg/s3fetch"
	"github.com/eunmann/risu-inspect/pkg/source"
)

// Environment variables consulted when the matching flag is unset.
const (
	EnvConcurrency       = "RISU_INSPECT_CONCURRENCY"
	EnvSubstitutionTable = "RISU_INSPECT_SUBSTITUTION_TABLE"
)

// SettingSource indicates where a setting's value came from.
type SettingSource string

const (
	SettingSourceCLI     SettingSource = "cli"
	SettingSourceEnv     SettingSource = "env"
	SettingSourceDefault SettingSource = "default"
)

const usage = "usage: risu-inspect <command> [options]\ncommands: inspect, formats"

// Run executes the CLI with the given arguments, writing decoded output
// to stdout.
func Run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	switch args[0] {
	case "inspect":
		return runInspect(ctx, args[1:], stdout)
	case "formats":
		return runFormats(stdout)
	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
}

func runFormats(stdout io.Writer) error {
	for _, s := range format.Suffixes {
		if _, err := fmt.Fprintf(stdout, "%-12s %s\n", s.Suffix, s.Kind); err != nil {
			return err
		}
	}
	return nil
}

func runInspect(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	compact := fs.Bool("compact", false, "write single-line JSON")
	concurrency := fs.Int("concurrency", 0, "inputs decoded at once (env "+EnvConcurrency+", default NumCPU)")
	failFast := fs.Bool("fail-fast", false, "stop at the first failing input")
	tablePath := fs.String("substitution-table", "", "256-byte compaction substitution table (env "+EnvSubstitutionTable+")")
	debug := fs.Bool("debug", false, "enable debug logging")
	humanLogs := fs.Bool("human-logs", false, "human-readable console logs")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		return errors.New("at least one input file is required")
	}

	logging.Init(*debug, *humanLogs)
	logctx.SetDefaultLogger(*logging.L())
	log := logging.WithPhase("inspect")
	ctx = logctx.WithLogger(ctx, log)

	workers, workersSource, err := resolveConcurrency(*concurrency)
	if err != nil {
		return err
	}
	path, pathSource := resolveSubstitutionTable(*tablePath)

	codecs := codec.Default()
	if path != "" {
		table, err := codec.LoadSubstitution(path)
		if err != nil {
			return fmt.Errorf("load substitution table: %w", err)
		}
		codecs.Compaction = table
	}

	log.Debug().
		Int("inputs", len(inputs)).
		Int("concurrency", workers).
		Str("concurrency_source", string(workersSource)).
		Str("substitution_table", path).
		Str("substitution_table_source", string(pathSource)).
		Msg("starting inspect")

	opener := &source.Opener{}
	if hasS3Input(inputs) {
		client, err := s3fetch.NewClient(ctx, s3fetch.DefaultConfig())
		if err != nil {
			return fmt.Errorf("create S3 client: %w", err)
		}
		opener.S3 = client
	}

	cfg := inspect.Config{
		Concurrency: workers,
		FailFast:    *failFast,
		Codecs:      codecs,
	}
	results, err := inspect.Run(ctx, cfg, opener, inputs)
	if err != nil {
		return err
	}

	if len(results) == 1 {
		r := results[0]
		if r.Err != nil {
			return fmt.Errorf("%s: %w", r.Input, r.Err)
		}
		return writeJSON(stdout, r.Value, *compact)
	}

	reports := make([]inspect.Report, len(results))
	failed := 0
	for i, r := range results {
		reports[i] = r.Report()
		if r.Err != nil {
			failed++
		}
	}
	if err := writeJSON(stdout, reports, *compact); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(results))
	}
	return nil
}

func writeJSON(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func hasS3Input(inputs []string) bool {
	for _, in := range inputs {
		if s3fetch.IsS3URI(in) {
			return true
		}
	}
	return false
}

// resolveConcurrency picks the worker count: CLI flag, then environment,
// then zero (inspect.Run's NumCPU default).
func resolveConcurrency(cli int) (int, SettingSource, error) {
	if cli < 0 {
		return 0, "", fmt.Errorf("invalid --concurrency %d: must be positive", cli)
	}
	if cli > 0 {
		return cli, SettingSourceCLI, nil
	}
	if env := os.Getenv(EnvConcurrency); env != "" {
		n, err := strconv.Atoi(env)
		if err != nil || n <= 0 {
			return 0, "", fmt.Errorf("invalid %s %q: must be a positive integer", EnvConcurrency, env)
		}
		return n, SettingSourceEnv, nil
	}
	return 0, SettingSourceDefault, nil
}

// resolveSubstitutionTable picks the table path: CLI flag, then
// environment. An empty path means the identity compaction.
func resolveSubstitutionTable(cli string) (string, SettingSource) {
	if cli != "" {
		return cli, SettingSourceCLI
	}
	if env := os.Getenv(EnvSubstitutionTable); env != "" {
		return env, SettingSourceEnv
	}
	return "", SettingSourceDefault
}
