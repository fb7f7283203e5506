package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	renderopts "github.com/goliatone/go-render-options"
	"github.com/goliatone/go-render-options/defaults"
	"github.com/goliatone/go-render-options/metadata"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// errCheckFailed is returned when a --check rule evaluates to false.
var errCheckFailed = errors.New("check failed")

type resolveOptions struct {
	defaultsFile string
	sets         []string
	format       string
	trace        string
	describe     bool
	check        string
	prefix       string
}

var resolveFlags resolveOptions

var resolveCmd = &cobra.Command{
	Use:   "resolve <file-or-locator>",
	Short: "Resolve the render options for a document or locator",
	Long: `Resolve the option mapping a renderer would receive.

A readable file (or - for stdin) is read and, when it holds markup, scanned
for <meta name="grover-..."> overrides. Anything else is treated as an
opaque locator and contributes no metadata.

Examples:
  # Defaults from a file plus call-site overrides
  optresolve resolve page.html --defaults render.yaml --set quality=80

  # Explain which layer supplied a value
  optresolve resolve page.html --trace viewport.width

  # Fail unless the resolved options satisfy a rule
  optresolve resolve page.html --check 'quality >= 90'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		defer func() { _ = logger.Sync() }()
		return runResolve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], resolveFlags, logger)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveFlags.defaultsFile, "defaults", "", "defaults file (toml, yaml or json)")
	resolveCmd.Flags().StringArrayVar(&resolveFlags.sets, "set", nil, "call-site option as key=value, dotted keys nest (repeatable)")
	resolveCmd.Flags().StringVar(&resolveFlags.format, "format", "json", "output format: json, yaml")
	resolveCmd.Flags().StringVar(&resolveFlags.trace, "trace", "", "print the per-layer provenance of a dotted option path")
	resolveCmd.Flags().BoolVar(&resolveFlags.describe, "describe", false, "print option paths and their types")
	resolveCmd.Flags().StringVar(&resolveFlags.check, "check", "", "expression that must evaluate to true")
	resolveCmd.Flags().StringVar(&resolveFlags.prefix, "prefix", metadata.DefaultPrefix, "meta name prefix")
}

func runResolve(ctx context.Context, stdin io.Reader, out io.Writer, target string, opts resolveOptions, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	builderOpts := []renderopts.Option{
		renderopts.WithLogger(renderopts.NewZapBuildLogger(logger)),
		renderopts.WithPrefix(opts.prefix),
	}
	if opts.defaultsFile != "" {
		loaded, err := defaults.LoadFile(opts.defaultsFile)
		if err != nil {
			return err
		}
		builderOpts = append(builderOpts, renderopts.WithDefaults(loaded))
	}

	callSite, err := parseSets(opts.sets)
	if err != nil {
		return err
	}

	input, err := readInput(stdin, target)
	if err != nil {
		return err
	}

	resolved := renderopts.NewBuilder(builderOpts...).Resolve(ctx, input, callSite)
	logger.Debug("resolved", zap.String("target", target), zap.Stringer("input_kind", resolved.InputKind))

	var payload any = resolved.Options
	switch {
	case opts.trace != "":
		payload = resolved.Trace(opts.trace)
	case opts.describe:
		payload = renderopts.Describe(resolved.Options)
	}
	if err := writeOutput(out, opts.format, payload); err != nil {
		return err
	}

	if opts.check == "" {
		return nil
	}
	ok, err := resolved.Check(opts.check)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", errCheckFailed, opts.check)
	}
	return nil
}

// readInput returns the file contents when target names a regular file and
// target itself otherwise.
func readInput(stdin io.Reader, target string) (string, error) {
	if target == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	info, err := os.Stat(target)
	if err != nil || !info.Mode().IsRegular() {
		return target, nil
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", target, err)
	}
	return string(data), nil
}

// parseSets builds the call-site layer from key=value pairs. Values are
// decoded like meta content so quality=80 is a number and cache=false a bool.
func parseSets(sets []string) (renderopts.Mapping, error) {
	callSite := renderopts.Mapping{}
	for _, set := range sets {
		key, raw, ok := strings.Cut(set, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", set)
		}
		segments := strings.Split(key, ".")
		current := callSite
		for _, segment := range segments[:len(segments)-1] {
			next, ok := current[segment].(map[string]any)
			if !ok {
				next = renderopts.Mapping{}
				current[segment] = next
			}
			current = next
		}
		current[segments[len(segments)-1]] = metadata.Decode(raw).Native()
	}
	return callSite, nil
}

func writeOutput(out io.Writer, format string, payload any) error {
	switch strings.ToLower(format) {
	case "", "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
