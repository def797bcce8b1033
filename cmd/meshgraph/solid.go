package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chazu/meshgraph/pkg/kernel"
	"github.com/chazu/meshgraph/pkg/kernel/sdfx"
	"github.com/chazu/meshgraph/pkg/tessellate"
)

func parseFloats(args []string, names ...string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", names[i], err)
		}
		if f <= 0 {
			return nil, fmt.Errorf("%s must be positive, got %g", names[i], f)
		}
		out[i] = f
	}
	return out, nil
}

// solidCmd builds a command tessellating the primitive build returns.
func solidCmd(a *app, use, short string, names []string, build func(k *sdfx.Kernel, n []float64) kernel.Solid) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(len(names)),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseFloats(args, names...)
			if err != nil {
				return err
			}
			opts, err := a.tessellateOptions()
			if err != nil {
				return err
			}
			k := a.kernel()
			m, report, err := tessellate.Solid(k, build(k, n), opts)
			if err != nil {
				return err
			}
			a.log.WithField("skipped", report.Skipped()).Info("tessellated " + cmd.Name())
			return a.finish(cmd.OutOrStdout(), cmd.Name(), m)
		},
	}
}

func newBoxCmd(a *app) *cobra.Command {
	return solidCmd(a, "box <x> <y> <z>", "Tessellate a box centered at the origin",
		[]string{"x", "y", "z"},
		func(k *sdfx.Kernel, n []float64) kernel.Solid { return k.Box(n[0], n[1], n[2]) })
}

func newCylinderCmd(a *app) *cobra.Command {
	return solidCmd(a, "cylinder <height> <radius>", "Tessellate a cylinder along Z",
		[]string{"height", "radius"},
		func(k *sdfx.Kernel, n []float64) kernel.Solid { return k.Cylinder(n[0], n[1], 32) })
}

func newSphereCmd(a *app) *cobra.Command {
	return solidCmd(a, "sphere <radius>", "Tessellate a sphere",
		[]string{"radius"},
		func(k *sdfx.Kernel, n []float64) kernel.Solid { return k.Sphere(n[0]) })
}
