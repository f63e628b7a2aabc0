package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/pprof"

	"cogentcore.org/core/base/logx"
	"github.com/spf13/cobra"

	"github.com/lukaszgryglicki/aabbtree/internal/aabbtree"
	"github.com/lukaszgryglicki/aabbtree/internal/config"
	"github.com/lukaszgryglicki/aabbtree/internal/debugdraw"
	"github.com/lukaszgryglicki/aabbtree/internal/sim"
)

type flags struct {
	config  string
	verbose bool
	quiet   bool
	out     string
	steps   int
	queries int
	workers int
}

func main() {
	if os.Getenv("PROFILE") != "" {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "aabbtree",
		Short:         "Dynamic AABB tree workbench",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			switch {
			case f.verbose || os.Getenv("DEBUG") != "":
				logx.UserLevel = slog.LevelDebug
			case f.quiet:
				logx.UserLevel = slog.LevelWarn
			}
		},
	}
	root.PersistentFlags().StringVarP(&f.config, "config", "c", "", "TOML config file")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "debug output")
	root.PersistentFlags().BoolVarP(&f.quiet, "quiet", "q", false, "warnings and errors only")

	root.AddCommand(benchCmd(f), dotCmd(f), dumpCmd(f), renderCmd(f), initCmd())
	return root
}

func benchCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the moving-box simulation and a parallel query load",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.config)
			if err != nil {
				return err
			}
			if f.steps > 0 {
				cfg.Sim.Steps = f.steps
			}
			ctx := cmd.Context()
			rep, err := sim.Run(ctx, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[SIM]   %s\n", rep)
			st := rep.Stats
			fmt.Fprintf(cmd.OutOrStdout(), "[CULL]  inserts=%d reinserts=%d migrations=%d prunes=%d pruned=%d\n",
				st.Inserts, st.Reinserts, st.Migrations, st.Prunes, st.Pruned)

			res, err := sim.Bench(ctx, sim.New(cfg), cfg.Tree.Margin, cfg.TreeOptions(), f.queries, f.workers)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[TREE]  objects=%d height=%d build=%s\n", res.Objects, res.Height, res.Build)
			fmt.Fprintf(cmd.OutOrStdout(), "[QUERY] queries=%d hits=%d time=%s\n", res.Queries, res.Hits, res.Query)
			if res.Validate != nil {
				return res.Validate
			}
			if rep.Mismatches > 0 {
				return fmt.Errorf("%d of %d steps disagree with the brute-force scan", rep.Mismatches, rep.Steps)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&f.steps, "steps", 0, "override sim.steps")
	cmd.Flags().IntVar(&f.queries, "queries", 100_000, "queries for the parallel load")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "query workers (0 = one per CPU)")
	return cmd
}

// buildTree inserts the initial bodies of the configured world.
func buildTree(cfg *config.Config) (*aabbtree.Tree[int], error) {
	w := sim.New(cfg)
	tree := aabbtree.New[int](cfg.Tree.Margin, cfg.TreeOptions()...)
	for _, o := range w.Objects() {
		if err := tree.Insert(o.ID, o.WorldBox()); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// output returns stdout when path is empty.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	fp, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return fp, fp.Close, nil
}

func writeTreeCmd(f *flags, use, short string, write func(*aabbtree.Tree[int], io.Writer) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.config)
			if err != nil {
				return err
			}
			tree, err := buildTree(cfg)
			if err != nil {
				return err
			}
			w, closeFn, err := output(cmd, f.out)
			if err != nil {
				return err
			}
			if err := write(tree, w); err != nil {
				_ = closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func dotCmd(f *flags) *cobra.Command {
	return writeTreeCmd(f, "dot", "Write the tree of the initial world as a graphviz graph",
		(*aabbtree.Tree[int]).WriteDot)
}

func dumpCmd(f *flags) *cobra.Command {
	return writeTreeCmd(f, "dump", "Print the tree of the initial world as indented text",
		(*aabbtree.Tree[int]).Dump)
}

func renderCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Simulate and draw the dynamic tree and the view to an image",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.config)
			if err != nil {
				return err
			}
			if f.steps > 0 {
				cfg.Sim.Steps = f.steps
			}
			if f.out != "" {
				cfg.Render.Out = f.out
			}
			w := sim.New(cfg)
			for s := 0; s < cfg.Sim.Steps; s++ {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				w.Step()
			}
			world, err := sim.WorldBox(cfg)
			if err != nil {
				return err
			}
			img := debugdraw.Render(w.Index().Dynamic(), debugdraw.Options{
				Width:  cfg.Render.Width,
				Height: cfg.Render.Height,
				Leaves: cfg.Render.Leaves,
				World:  world,
				View:   w.View(),
			})
			if err := debugdraw.Save(img, cfg.Render.Out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[RENDER] %s after %d steps\n", cfg.Render.Out, cfg.Sim.Steps)
			return nil
		},
	}
	cmd.Flags().IntVar(&f.steps, "steps", 0, "override sim.steps")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "override render.out (.png or .bmp)")
	return cmd
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <path>",
		Short: "Write the default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().Save(args[0]); err != nil {
				return err
			}
			slog.Info("wrote default config", "path", args[0])
			return nil
		},
	}
}
