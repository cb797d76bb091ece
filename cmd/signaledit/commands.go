package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/anggasct/signaledit"
	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/observers"
	"github.com/anggasct/signaledit/pkg/overlay"
	"github.com/anggasct/signaledit/pkg/signal"
	"github.com/anggasct/signaledit/visualization"
)

// bindWorkspaceFlags lets a command override where the map and edit set live
func bindWorkspaceFlags(cmd *cobra.Command, mapPath, editsName *string) {
	cmd.Flags().StringVar(mapPath, "map", "", "Map file (YAML); overrides map.path")
	cmd.Flags().StringVar(editsName, "edits", "", "Edit set name; overrides edits.name")
}

func (a *app) applyWorkspaceFlags(mapPath, editsName string) {
	if mapPath != "" {
		a.cfg.Map.Path = mapPath
	}
	if editsName != "" {
		a.cfg.Edits.Name = editsName
	}
}

func editCmd(a *app) *cobra.Command {
	var mapPath, editsName string
	var save bool

	cmd := &cobra.Command{
		Use:   "edit <intersection>",
		Short: "Edit the signal plan of an intersection from standard input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyWorkspaceFlags(mapPath, editsName)
			id, err := parseIntersection(args[0])
			if err != nil {
				return err
			}
			ws, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			opts := []signaledit.Option{
				signaledit.WithCycleDuration(a.cfg.Editor.CycleDuration()),
				signaledit.WithObserver(observers.NewLoggingObserver(a.logger)),
				signaledit.WithObserver(observers.NewValidationObserver(ws.Map)),
			}
			if a.cfg.Metrics.Enabled {
				metrics, stop, err := a.serveMetrics()
				if err != nil {
					return err
				}
				defer stop()
				opts = append(opts, signaledit.WithObserver(metrics))
			}

			ed, err := signaledit.New(id, signaledit.Deps{
				Map:     ws.Map,
				Oracle:  signal.NewOracle(ws.Map),
				Presets: ws.Presets,
				Store:   ws.Overlay,
			}, opts...)
			if err != nil {
				return err
			}

			if err := runSession(cmd.InOrStdin(), cmd.OutOrStdout(), ed); err != nil {
				return err
			}

			if !save {
				return nil
			}
			path, err := ws.Save(a.cfg.Edits.Dir)
			if err != nil {
				return err
			}
			if path == "" {
				a.logger.Warn("Edit set is unnamed; not saved", slog.String("hint", "pass --edits"))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", path)
			return nil
		},
	}

	bindWorkspaceFlags(cmd, &mapPath, &editsName)
	cmd.Flags().BoolVar(&save, "save", true, "Save the edit set when the session ends")
	return cmd
}

// serveMetrics exposes a fresh registry on the configured address
func (a *app) serveMetrics() (*observers.MetricsObserver, func(), error) {
	reg := prometheus.NewRegistry()
	metrics, err := observers.NewMetricsObserver(reg)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: a.cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()
	a.logger.Info("Serving metrics", slog.String("addr", a.cfg.Metrics.Addr))

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return metrics, stop, nil
}

func describeCmd(a *app) *cobra.Command {
	var mapPath, editsName string

	cmd := &cobra.Command{
		Use:   "describe [intersection...]",
		Short: "Summarize the edit set and the plans of intersections",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyWorkspaceFlags(mapPath, editsName)
			ws, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ws.Overlay.Edits().Describe())

			ids := ws.Map.IntersectionIDs()
			if len(args) > 0 {
				ids = ids[:0]
				for _, arg := range args {
					id, err := parseIntersection(arg)
					if err != nil {
						return err
					}
					ids = append(ids, id)
				}
			}
			for _, id := range ids {
				plan, ok := ws.Overlay.TrafficSignal(id)
				if !ok {
					continue
				}
				describePlan(out, plan, ws.Map.TurnsInIntersection(id))
			}
			return nil
		},
	}

	bindWorkspaceFlags(cmd, &mapPath, &editsName)
	return cmd
}

func describePlan(w io.Writer, plan *signal.ControlTrafficSignal, turns []mapmodel.Turn) {
	fmt.Fprintf(w, "intersection %d: %d cycles, %ds total\n", int(plan.ID), plan.Len(), plan.TotalDuration())
	for i, c := range plan.Cycles {
		fmt.Fprintf(w, "  cycle %d: %ds, %d priority, %d yield\n",
			i+1, c.Seconds(), len(c.PriorityTurns()), len(c.YieldTurns()))
	}
	for _, warning := range plan.Warnings(turns) {
		fmt.Fprintf(w, "  ! %s\n", warning)
	}
}

func listCmd(a *app) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted edit sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pattern == "" {
				pattern = a.cfg.Edits.Pattern
			}
			refs, err := overlay.ListEditSets(a.cfg.Edits.Dir, pattern)
			if err != nil {
				return err
			}
			for _, ref := range refs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\t%s\n", ref.MapName, ref.EditsName, ref.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob relative to edits.dir, e.g. \"downtown/*.yaml\"")
	return cmd
}

func watchCmd(a *app) *cobra.Command {
	var mapPath, editsName string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the edit set whenever its file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyWorkspaceFlags(mapPath, editsName)
			ws, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			path := overlay.Path(a.cfg.Edits.Dir, ws.Map.Name(), a.cfg.Edits.Name)
			w, err := overlay.NewWatcher(path, ws.Overlay, a.cfg.Edits.Debounce, a.logger)
			if err != nil {
				return err
			}

			ctx, stop := ossignal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer func() { _ = w.Stop() }()

			out := cmd.OutOrStdout()
			for ev := range w.Events() {
				if ev.Err != nil {
					fmt.Fprintf(out, "reload failed: %v\n", ev.Err)
					continue
				}
				fmt.Fprintln(out, ev.Edits.Describe())
			}
			return nil
		},
	}

	bindWorkspaceFlags(cmd, &mapPath, &editsName)
	return cmd
}

func dotCmd(a *app) *cobra.Command {
	var mapPath, editsName, outPath string
	var active int
	var svg bool

	cmd := &cobra.Command{
		Use:   "dot <intersection>",
		Short: "Render the plan of an intersection as a Graphviz diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyWorkspaceFlags(mapPath, editsName)
			id, err := parseIntersection(args[0])
			if err != nil {
				return err
			}
			ws, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			plan, ok := ws.Overlay.TrafficSignal(id)
			if !ok {
				return fmt.Errorf("intersection %d: %w", int(id), signaledit.ErrNoTrafficSignal)
			}
			gen := visualization.NewDOTGenerator(plan, active-1)

			if outPath != "" && !svg {
				return gen.GenerateToFile(outPath)
			}
			var content string
			if svg {
				content, err = gen.GenerateSVG()
			} else {
				content, err = gen.Generate()
			}
			if err != nil {
				return err
			}
			if outPath != "" {
				return os.WriteFile(outPath, []byte(content), 0644)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), content)
			return err
		},
	}

	bindWorkspaceFlags(cmd, &mapPath, &editsName)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().IntVar(&active, "active", 1, "Cycle to highlight (1-based, 0 for none)")
	cmd.Flags().BoolVar(&svg, "svg", false, "Render SVG through Graphviz")
	return cmd
}
