package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the dependency graph",
	Long: `Outputs a Mermaid diagram (graph TD) of the manifest's nodes and edges.
Dashed arrows are ResetOnly edges. With --session, the nodes holding a stored value
are highlighted. --format json prints the node descriptions instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		defer app.Close()

		format, _ := cmd.Flags().GetString("format")
		if format == "json" {
			nodes, err := app.Service.Describe()
			if err != nil {
				fail("Error inspecting graph", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			_ = enc.Encode(map[string]any{"nodes": nodes})
			return
		}

		g, err := app.Service.Graph()
		if err != nil {
			fail("Error building graph", err)
		}

		var overlay *graph.GraphOverlay
		if id, _ := cmd.Flags().GetString("session"); id != "" {
			values, err := app.Service.Manager().Load(cmd.Context(), id)
			if err != nil {
				fail("Error loading session", err)
			}
			overlay = &graph.GraphOverlay{}
			for _, nid := range g.IDs() {
				if _, ok := values[nid]; ok {
					overlay.Visited = append(overlay.Visited, nid)
				}
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g.Nodes(), overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Highlight the nodes stored by this session")
	graphCmd.Flags().StringP("format", "f", "mermaid", "Output format: mermaid or json")
}
