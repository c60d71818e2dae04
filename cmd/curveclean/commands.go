package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jungleai/curveclean-go/internal/server"
	"github.com/jungleai/curveclean-go/pkg/curveclean"
	"github.com/jungleai/curveclean-go/pkg/curveclean/export"
	"github.com/jungleai/curveclean-go/pkg/curveclean/figure"
	"github.com/jungleai/curveclean-go/pkg/curveclean/locator"
	"github.com/jungleai/curveclean-go/pkg/curveclean/output"
	"github.com/jungleai/curveclean-go/pkg/curveclean/seed"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cleaning page and the reconcile API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			r := curveclean.NewReconciler(st, cfg.ReconcileOptions(), logger)
			return server.New(cfg.Server, r, st, logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

func seedCmd() *cobra.Command {
	p := seed.DefaultParams()
	var groups []string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the store with synthetic test data and print the session URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("group") {
				p.Groups = nil
				for _, g := range groups {
					p.Groups = append(p.Groups, splitGroup(g))
				}
			}

			ctx := cmd.Context()
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
			href, err := seed.Run(ctx, st, rng, p)
			if err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			logger.Info("store seeded", zap.String("backend", cfg.Store.Backend))
			fmt.Println(href)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&p.BaseURL, "base-url", p.BaseURL, "Page address the session URL is built on")
	fs.StringVar(&p.UUID, "uuid", p.UUID, "Session id (generated when empty)")
	fs.StringVar(&p.Plot, "plot", p.Plot, "Plot id")
	fs.StringSliceVar(&p.Assets, "assets", p.Assets, "Asset ids")
	fs.StringVar(&p.XName, "x-name", p.XName, "Sensor on the x axis")
	fs.StringVar(&p.YName, "y-name", p.YName, "Sensor on the y axis")
	fs.StringSliceVar(&p.Stages, "stages", p.Stages, "Processing stages")
	fs.StringArrayVar(&groups, "group", nil, "Marker group as name1:name2 (repeatable, replaces the default groups)")
	fs.IntVar(&p.NPoints, "n-points", p.NPoints, "Distinct samples per series")
	fs.IntVar(&p.XMin, "x-min", p.XMin, "Lowest x value")
	fs.IntVar(&p.XMax, "x-max", p.XMax, "Highest x value")
	fs.IntVar(&p.YDeviation, "y-deviation", p.YDeviation, "Largest distance of y from x")
	fs.IntVar(&p.Copies, "copies", p.Copies, "Times each sample is repeated")
	return cmd
}

func exportCmd() *cobra.Command {
	var href, outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a session's markers and series to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd.Flags(), "url"); err != nil {
				return err
			}
			session, err := locator.Parse(href)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			f, err := export.Workbook(ctx, st, session)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			defer f.Close()

			if outputPath == "" {
				outputPath = session.UUID + ".xlsx"
			}
			if err := f.SaveAs(outputPath); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			logger.Info("workbook written", zap.String("path", outputPath))
			return nil
		},
	}

	cmd.Flags().StringVar(&href, "url", "", "Session page URL")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: <uuid>.xlsx)")
	return cmd
}

func reconcileCmd() *cobra.Command {
	var (
		href, figurePath, outputPath, mode string
		pretty                             bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run one reconciliation pass on a chart object and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd.Flags(), "url"); err != nil {
				return err
			}

			opts := cfg.ReconcileOptions()
			if mode != "" {
				m, ok := curveclean.ParseMode(mode)
				if !ok {
					return fmt.Errorf("invalid mode: %s (must be standard or verbose)", mode)
				}
				opts.Mode = m
			}

			req := curveclean.Request{Href: href}
			if err := readFigure(figurePath, &req); err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := curveclean.NewReconciler(st, opts, logger).Reconcile(ctx, req)
			if err != nil {
				return err
			}

			jsonData, err := output.ToJSON(res, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			if outputPath != "" {
				if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				return nil
			}
			fmt.Println(string(jsonData))
			return nil
		},
	}

	cmd.Flags().StringVar(&href, "url", "", "Session page URL")
	cmd.Flags().StringVar(&figurePath, "figure", "", "Chart object JSON file (default: empty chart)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&mode, "mode", "", "Output mode: standard, verbose (default from config)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

// readFigure loads the chart object, falling back to the empty chart.
func readFigure(path string, req *curveclean.Request) error {
	if path == "" {
		req.Figure = figure.Empty(cfg.Figure)
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read figure: %w", err)
	}
	if err := json.Unmarshal(data, &req.Figure); err != nil {
		return fmt.Errorf("failed to parse figure: %w", err)
	}
	return nil
}

// splitGroup parses a marker group in format a:b:c.
func splitGroup(s string) []string {
	return strings.Split(s, ":")
}
