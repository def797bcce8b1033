package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/meshgraph/pkg/geometry"
	"github.com/chazu/meshgraph/pkg/graph"
	"github.com/chazu/meshgraph/pkg/kernel"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <mesh.json>",
		Short: "Rebuild a JSON triangle mesh as a half-edge mesh and report it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read mesh: %w", err)
			}
			var km kernel.Mesh
			if err := json.Unmarshal(data, &km); err != nil {
				return fmt.Errorf("decode mesh: %w", err)
			}
			if len(km.Indices)%3 != 0 {
				return fmt.Errorf("decode mesh: %d indices is not a triangle list", len(km.Indices))
			}
			for _, i := range km.Indices {
				if int(i) >= km.VertexCount() {
					return fmt.Errorf("decode mesh: index %d out of range", i)
				}
			}
			x, err := a.cfg.Index.Indexer()
			if err != nil {
				return err
			}
			m, err := graph.FromTriangles[geometry.Position, geometry.Unit, geometry.Unit](km.Triangles(), x)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), m)
		},
	}
}
