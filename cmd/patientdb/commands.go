package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/patientdb/internal/importer"
	"github.com/dshills/patientdb/internal/mcp"
	"github.com/dshills/patientdb/internal/patients"
	"github.com/dshills/patientdb/internal/storage"
	"github.com/dshills/patientdb/internal/tui"
	"github.com/dshills/patientdb/pkg/types"
)

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := mcp.NewServer(a.svc, mcp.Options{
				HistorySize: a.cfg.Query.HistorySize,
				Logger:      a.logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, gctx := errgroup.WithContext(ctx)
			serveCtx, cancelServe := context.WithCancel(gctx)

			g.Go(func() error {
				defer cancelServe()
				return server.Serve(serveCtx)
			})
			g.Go(func() error {
				<-serveCtx.Done()
				if ctx.Err() != nil {
					a.logger.Info().Msg("shutting down")
				}
				return nil
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("server error: %w", err)
			}
			a.logger.Info().Msg("server stopped")
			return nil
		},
	}
}

func initCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.Init(cmd.Context()); err != nil {
				return err
			}
			status := map[string]interface{}{
				"initialized": true,
				"available":   a.svc.Available(),
			}
			if store := a.svc.Store(); store != nil {
				status["db_path"] = store.Path()
				if v, err := store.SchemaVersion(cmd.Context()); err == nil {
					status["schema_version"] = v
				}
			}
			return printJSON(cmd.OutOrStdout(), status)
		},
	}
}

func addCmd(a *app) *cobra.Command {
	var record types.NewPatient
	var age int64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register one patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("age") {
				record.Age = &age
			}
			if err := a.svc.AddPatient(cmd.Context(), record); err != nil {
				return err
			}
			total, err := a.svc.Count(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"added": true,
				"total": total,
			})
		},
	}
	cmd.Flags().StringVar(&record.Name, "name", "", "full name (required)")
	cmd.Flags().Int64Var(&age, "age", 0, "age in years")
	cmd.Flags().StringVar(&record.Gender, "gender", "", "gender")
	cmd.Flags().StringVar(&record.Address, "address", "", "address")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func listCmd(a *app) *cobra.Command {
	var search, sortKey string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			sortBy, err := patients.ParseSortBy(sortKey)
			if err != nil {
				return err
			}
			all, err := a.svc.ListPatients(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), patients.Browse(all, search, sortBy))
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by name (case-insensitive)")
	cmd.Flags().StringVar(&sortKey, "sort", "name", "sort by name, age or id")
	return cmd
}

func queryCmd(a *app) *cobra.Command {
	var examples bool

	cmd := &cobra.Command{
		Use:   "query SQL",
		Short: "Run an SQL statement and print the rows",
		Example: `  patientdb query "SELECT * FROM patients WHERE age > 60"
  patientdb query --examples`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if examples {
				return printJSON(cmd.OutOrStdout(), patients.ExampleQueries)
			}
			result, err := a.svc.QueryPatients(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().BoolVar(&examples, "examples", false, "print example queries")
	return cmd
}

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import patients from an .xlsx or .csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline := importer.NewPipeline(a.svc, a.logger)
			result, err := pipeline.ImportFile(cmd.Context(), args[0])
			if err != nil {
				if result != nil {
					a.logger.Error().Int("imported", result.Imported).Msg("import stopped; earlier rows were kept")
				}
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"imported":    result.Imported,
				"batch_id":    result.BatchID.String(),
				"duration_ms": result.Duration.Milliseconds(),
				"message":     fmt.Sprintf("Successfully imported %d patient records", result.Imported),
			})
		},
	}
}

func browseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse patients in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), a.svc, tui.Options{Delay: a.cfg.Hover.Delay})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{"skipStore": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "patientdb")
			fmt.Fprintf(out, "Version: %s\n", version)
			fmt.Fprintf(out, "Build Time: %s\n", buildTime)
			fmt.Fprintf(out, "Build Mode: %s\n", storage.BuildMode)
			fmt.Fprintf(out, "SQLite Driver: %s\n", storage.DriverName)
		},
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
