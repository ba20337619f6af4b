package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/speakeasy-api/openapi-resolver/resolver"
	"github.com/speakeasy-api/openapi-resolver/yml"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	envConflict  = "OPENAPI_RESOLVE_CONFLICT"
	envNoMarkers = "OPENAPI_RESOLVE_NO_MARKERS"
	envFormat    = "OPENAPI_RESOLVE_FORMAT"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <input>...",
	Short: "Resolve all external references into a single self-contained document",
	Long: `Resolve every external $ref of an API description into one self-contained document.

Inputs may be file paths or http(s) URLs. References may point at other files or
URLs, either at whole documents, at components or at any JSON pointer inside them.

The resolution process:
1. Whole documents referenced without a fragment are embedded in place
2. Components (#/components/<section>/<name>) are copied into the root document's
   components and the reference is pointed at the local copy
3. Any other fragment is copied in place of the reference
4. Passes repeat until no external reference remains

Components from different sources that share a name are handled by --conflict:
- error: fail (default)
- ignore: keep the existing component
- rename: add the incoming component as <name>1, <name>2, ...

Inlined content is annotated with x-resolved-from, and the root document with
x-resolved-at, unless --no-markers is given.

Flag defaults can be set with the OPENAPI_RESOLVE_CONFLICT, OPENAPI_RESOLVE_NO_MARKERS
and OPENAPI_RESOLVE_FORMAT environment variables, which are also read from --env-file.

Several inputs are resolved concurrently and written in argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

var (
	resolveConflict   string
	resolveNoMarkers  bool
	resolveFormat     string
	resolveOutput     string
	resolveSelect     string
	resolveJSONPath   string
	resolveEnvFile    string
	resolveConcurrent int
)

func init() {
	resolveCmd.Flags().StringVar(&resolveConflict, "conflict", string(resolver.ConflictError), "component conflict strategy: error, ignore or rename")
	resolveCmd.Flags().BoolVar(&resolveNoMarkers, "no-markers", false, "strip x-resolved-from and x-resolved-at from the output")
	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", string(yml.OutputFormatYAML), "output format: yaml or json")
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "", "write the result to a file instead of stdout (single input only)")
	resolveCmd.Flags().StringVar(&resolveSelect, "select", "", "only output the nodes matching this JSONPath expression")
	resolveCmd.Flags().StringVar(&resolveJSONPath, "jsonpath", jsonPathRFC9535, "JSONPath implementation for --select: rfc9535 or legacy")
	resolveCmd.Flags().StringVar(&resolveEnvFile, "env-file", ".env", "file to load environment defaults from, if it exists")
	resolveCmd.Flags().IntVar(&resolveConcurrent, "concurrency", 4, "maximum number of inputs resolved at once")
}

// resolveConfig is the validated configuration of one resolve run.
type resolveConfig struct {
	Options     resolver.ResolveOptions
	Format      yml.OutputFormat
	Select      string
	JSONPath    string
	Concurrency int
	Logger      resolver.Logger
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := loadEnvDefaults(cmd, resolveEnvFile); err != nil {
		return err
	}

	if resolveOutput != "" && len(args) > 1 {
		return errors.New("--output can only be used with a single input")
	}

	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := newResolveConfig(resolveConflict, resolveFormat, resolveNoMarkers, verbose, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cfg.Select = resolveSelect
	cfg.JSONPath = resolveJSONPath
	cfg.Concurrency = resolveConcurrent

	start := time.Now()

	outputs, err := resolveAll(ctx, cfg, args)
	if err != nil {
		return err
	}

	data := joinOutputs(cfg.Format, outputs)

	if resolveOutput != "" {
		if err := os.WriteFile(resolveOutput, data, 0o644); err != nil { //nolint:gosec
			return fmt.Errorf("failed to write output file: %w", err)
		}
	} else if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if verbose {
		printSummary(cmd.ErrOrStderr(), len(args), len(data), time.Since(start))
	}

	return nil
}

func newResolveConfig(conflict, format string, noMarkers, verbose bool, logOutput io.Writer) (*resolveConfig, error) {
	strategy, err := resolver.ParseConflictStrategy(conflict)
	if err != nil {
		return nil, err
	}

	outputFormat := yml.OutputFormat(format)
	switch outputFormat {
	case yml.OutputFormatYAML, yml.OutputFormatJSON:
	default:
		return nil, fmt.Errorf("unknown output format %q, expected yaml or json", format)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	logger := resolver.NewSlogAdapter(slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level})))

	return &resolveConfig{
		Options: resolver.ResolveOptions{
			ConflictStrategy: strategy,
			NoMarkers:        noMarkers,
			Verbose:          verbose,
		},
		Format:      outputFormat,
		JSONPath:    jsonPathRFC9535,
		Concurrency: 1,
		Logger:      logger,
	}, nil
}

// resolveAll resolves every input with its own Engine and returns the encoded
// documents in input order.
func resolveAll(ctx context.Context, cfg *resolveConfig, inputs []string) ([][]byte, error) {
	outputs := make([][]byte, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Concurrency, 1))

	for i, input := range inputs {
		g.Go(func() error {
			data, err := resolveOne(ctx, cfg, input)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			outputs[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

func resolveOne(ctx context.Context, cfg *resolveConfig, input string) ([]byte, error) {
	engine, err := resolver.New(input, resolver.WithLogger(cfg.Logger.With("input", input)))
	if err != nil {
		return nil, err
	}

	result, err := engine.Resolve(ctx, cfg.Options)
	if err != nil {
		return nil, err
	}

	out := result.Document
	if cfg.Select != "" {
		out, err = selectNodes(out, cfg.Select, cfg.JSONPath)
		if err != nil {
			return nil, err
		}
	}

	encodeCfg := yml.GetDefaultConfig()
	encodeCfg.OutputFormat = cfg.Format

	return yml.Encode(yml.ContextWithConfig(ctx, encodeCfg), out)
}

// joinOutputs concatenates documents, separating YAML documents with "---".
func joinOutputs(format yml.OutputFormat, outputs [][]byte) []byte {
	separator := []byte{}
	if format == yml.OutputFormatYAML {
		separator = []byte("---\n")
	}
	return bytes.Join(outputs, separator)
}

func printSummary(w io.Writer, documents, size int, elapsed time.Duration) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "Resolved %d document(s) into %d bytes in %v\n", documents, size, elapsed.Round(time.Millisecond))
}

// loadEnvDefaults reads envFile into the environment, if it exists, and uses the
// environment for every flag not set on the command line.
func loadEnvDefaults(cmd *cobra.Command, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	flags := cmd.Flags()
	if value, ok := os.LookupEnv(envConflict); ok && !flags.Changed("conflict") {
		if err := flags.Set("conflict", value); err != nil {
			return err
		}
	}
	if value, ok := os.LookupEnv(envFormat); ok && !flags.Changed("format") {
		if err := flags.Set("format", value); err != nil {
			return err
		}
	}
	if value, ok := os.LookupEnv(envNoMarkers); ok && !flags.Changed("no-markers") {
		noMarkers, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envNoMarkers, err)
		}
		if err := flags.Set("no-markers", strconv.FormatBool(noMarkers)); err != nil {
			return err
		}
	}

	return nil
}

// GetResolveCommand returns the resolve command for external use
func GetResolveCommand() *cobra.Command {
	return resolveCmd
}
