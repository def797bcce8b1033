package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chazu/meshgraph/internal/config"
	"github.com/chazu/meshgraph/pkg/buffer"
	"github.com/chazu/meshgraph/pkg/graph"
	"github.com/chazu/meshgraph/pkg/kernel/sdfx"
	"github.com/chazu/meshgraph/pkg/tessellate"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	configPath string
	output     string
	cells      int

	cfg config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "meshgraph",
		Short:        "Build and inspect half-edge polygon meshes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $HOME/.config/meshgraph/config.toml)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "", "write the triangulated mesh as JSON to this file")
	root.PersistentFlags().IntVar(&a.cells, "cells", 0, "marching cubes cells on the longest axis (overrides kernel.cells)")

	root.AddCommand(
		newEvalCmd(a),
		newBoxCmd(a),
		newCylinderCmd(a),
		newSphereCmd(a),
		newStatsCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.cells > 0 {
		cfg.Kernel.Cells = a.cells
	}
	log, err := cfg.Log.Logger()
	if err != nil {
		return err
	}
	log.SetOutput(cmd.ErrOrStderr())
	a.cfg, a.log = cfg, log
	return nil
}

func (a *app) kernel() *sdfx.Kernel {
	return sdfx.NewWithCells(a.cfg.Kernel.Cells)
}

func (a *app) tessellateOptions() (tessellate.Options, error) {
	x, err := a.cfg.Index.Indexer()
	if err != nil {
		return tessellate.Options{}, err
	}
	return tessellate.Options{Indexer: x, Logger: a.log}, nil
}

// finish prints the summary of m and writes it to the output file if one
// was requested.
func (a *app) finish(w io.Writer, name string, m *tessellate.Mesh) error {
	if err := printSummary(w, m); err != nil {
		return err
	}
	if a.output == "" {
		return nil
	}
	return writeMesh(a.output, name, m)
}

// printSummary writes element counts and validation findings. Geometry is
// only checked once connectivity is valid.
func printSummary(w io.Writer, m *tessellate.Mesh) error {
	findings := graph.Validate(m)
	if len(graph.Errors(findings)) == 0 {
		findings = append(findings, graph.ValidateGeometry(m)...)
	}
	_, err := fmt.Fprintf(w, "vertices %d\nedges %d\nfaces %d\nerrors %d\nwarnings %d\n",
		m.VertexCount(), m.EdgeCount(), m.FaceCount(),
		len(graph.Errors(findings)), len(graph.Warnings(findings)))
	if err != nil {
		return err
	}
	for _, f := range findings {
		if _, err := fmt.Fprintln(w, f.Error()); err != nil {
			return err
		}
	}
	return nil
}

// writeMesh triangulates m and writes it as a JSON kernel mesh.
func writeMesh(path, name string, m *tessellate.Mesh) error {
	c, err := buffer.FromMesh(m)
	if err != nil {
		return err
	}
	km, err := buffer.KernelMesh(c, name)
	if err != nil {
		return err
	}
	data, err := json.Marshal(km)
	if err != nil {
		return fmt.Errorf("encode mesh: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write mesh: %w", err)
	}
	return nil
}
