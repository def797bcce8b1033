package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/meshgraph/pkg/engine"
)

func newEvalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <file>",
		Short: "Evaluate a mesh script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			eng := engine.NewEngine(
				engine.WithKernel(a.kernel()),
				engine.WithIndexer(a.cfg.Index.Indexer),
				engine.WithLogger(a.log),
				engine.WithTimeout(a.cfg.Engine.Timeout),
			)
			m, evalErrs, err := eng.Evaluate(string(src))
			if err != nil {
				return err
			}
			if len(evalErrs) > 0 {
				for _, e := range evalErrs {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", args[0], e.Error())
				}
				return fmt.Errorf("%s: %d evaluation errors", args[0], len(evalErrs))
			}
			name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			return a.finish(cmd.OutOrStdout(), name, m)
		},
	}
}
