package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/pkg/pipeline"
)

// newRunCmd creates the "run" command, the main entry point: build the
// graph for a modulus, minimize its embedding, and write the artifacts.
func newRunCmd() *cobra.Command {
	var (
		seed          int64
		strategy      string
		formats       []string
		output        string
		configPath    string
		maxIterations int
		noCache       bool
		refresh       bool
	)

	cmd := &cobra.Command{
		Use:   "run <modulus>",
		Short: "Compute and write the 3-D layout for a modulus",
		Long: `Run builds the directed graph of i -> i*i mod N, partitions it into
weakly connected components, minimizes the potential energy of a random
3-D placement, and writes the artifacts into the output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			modulus, err := parseModulus(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			opts := optionsFromConfig(cfg)
			opts.Modulus = modulus
			opts.Logger = logger
			opts.Refresh = refresh
			if cmd.Flags().Changed("seed") {
				opts.Seed = seed
			}
			if cmd.Flags().Changed("strategy") {
				opts.Strategy = strategy
			}
			if cmd.Flags().Changed("max-iterations") {
				opts.MaxIterations = maxIterations
			}
			if cmd.Flags().Changed("format") {
				opts.Formats = formats
			}
			if output == "" {
				output = cfg.Output
			}

			c, err := openCache(cfg, noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(c, nil, logger)
			defer runner.Close()

			sp := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out modulus %d", modulus))
			sp.Start()
			result, err := runner.Execute(ctx, opts)
			if err != nil {
				sp.StopWithError(fmt.Sprintf("Layout failed: %v", err))
				return err
			}
			sp.Stop()

			files, err := writeArtifacts(output, result.Artifacts)
			if err != nil {
				return err
			}

			printSuccess("Laid out modulus %d", modulus)
			printStats(result.Stats.NodeCount, result.Stats.ComponentCount, result.CacheInfo.LayoutHit)
			printDetail("potential %.6g after %d iterations", result.Layout.Potential, result.Stats.Iterations)
			if !result.Layout.Converged {
				printWarning("iteration cap reached before convergence; positions are best-effort")
			}
			for _, f := range files {
				printFile(f)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed for the initial placement")
	cmd.Flags().StringVar(&strategy, "strategy", "gradient", "minimization strategy (gradient or simplex)")
	cmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "cap on minimizer iterations (0 = config default)")
	cmd.Flags().StringSliceVar(&formats, "format", nil, "artifact formats to produce (asy, dot, svg, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from config)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")

	return cmd
}

// writeArtifacts writes the artifact map into dir and returns the written
// paths in deterministic order.
func writeArtifacts(dir string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, artifacts[name], 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
