package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/pkg/graph"
	"github.com/modgraph/modgraph/pkg/render"
)

// newGraphCmd creates the "graph" command: structural inspection without
// paying for a layout.
func newGraphCmd() *cobra.Command {
	var (
		dotOutput string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "graph <modulus>",
		Short: "Print the weak components of a modulus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			modulus, err := parseModulus(args[0])
			if err != nil {
				return err
			}

			p := newProgress(logger)
			g, err := graph.Build(modulus)
			if err != nil {
				return err
			}
			components, err := g.Partition()
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Partitioned %d nodes into %d components", modulus, len(components)))

			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(struct {
					Modulus    int          `json:"modulus"`
					Components [][]int      `json:"components"`
					Edges      []graph.Edge `json:"edges"`
				}{modulus, components, g.Edges()})
			}

			printInfo("modulus %d: %d components", modulus, len(components))
			for c, members := range components {
				printDetail("component %d (%d nodes): %s", c, len(members), formatMembers(members))
			}
			if factors := g.Factors(); len(factors) > 1 {
				printDetail("divisors: %v", factors[1:])
			}

			if dotOutput != "" {
				artifacts := make(map[string][]byte, len(components))
				for c, members := range components {
					name := render.ComponentDOTFilename(modulus, c)
					artifacts[name] = []byte(render.ComponentDOT(g, members))
				}
				files, err := writeArtifacts(dotOutput, artifacts)
				if err != nil {
					return err
				}
				for _, f := range files {
					printFile(f)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dotOutput, "dot", "", "write per-component DOT files into this directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the partition as JSON instead of text")
	return cmd
}

// formatMembers renders a component member list, eliding long ones.
func formatMembers(members []int) string {
	const limit = 16
	parts := make([]string, 0, limit+1)
	for i, m := range members {
		if i == limit {
			parts = append(parts, fmt.Sprintf("... %d more", len(members)-limit))
			break
		}
		parts = append(parts, fmt.Sprintf("%d", m))
	}
	return strings.Join(parts, " ")
}
