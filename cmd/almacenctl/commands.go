package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/imports"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/bootstrap"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/excel"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Almacen-api/jobs"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// cliActor figura en created_by de lo que crea la CLI.
var cliActor = entity.SystemActor("almacenctl")

// env recursos abiertos por un comando; close libera el pool.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := bootstrap.NewLogger(cfg, "almacenctl")
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}

func (e *env) close() { e.pool.Close() }

func (e *env) services(source imports.ExcelSource) *bootstrap.Services {
	return bootstrap.NewServices(e.cfg, e.pool, source, e.log)
}

// withEnv abre la configuración y el pool antes de fn y los cierra al terminar.
func withEnv(fn func(cmd *cobra.Command, e *env) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()
		return fn(cmd, e)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "almacenctl",
		Short:         "Operación del inventario del almacén",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newImportCmd(),
		newAlertsCmd(),
		newReconcileCmd(),
		newExportCmd(),
		newReportCmd(),
	)
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica los scripts de esquema embebidos",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, e *env) error {
			applied, err := postgres.Migrate(cmd.Context(), e.pool)
			if err != nil {
				return err
			}
			for _, name := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}),
	}
}

func newImportCmd() *cobra.Command {
	var (
		url, file, department string
		async, preview        bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Crea los productos del libro Excel que aún no existen",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, e *env) error {
			ctx := cmd.Context()
			req := dto.ExcelImportRequest{URL: url, Department: department}
			if async {
				client := jobs.NewClient(jobs.RedisOpt(e.cfg.Redis))
				defer client.Close()
				job, err := client.EnqueueExcelImport(ctx, cliActor, req)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), job)
			}

			var source imports.ExcelSource
			if file != "" {
				source = excel.FileSource{}
				req.URL = file
			}
			svc := e.services(source)
			if preview {
				out, err := svc.Import.Preview(ctx, req.URL)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			}
			out, err := svc.Import.Import(ctx, cliActor, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		}),
	}
	cmd.Flags().StringVar(&url, "url", "", "URL del .xlsx (por defecto IMPORT_EXCEL_URL)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "ruta local del .xlsx")
	cmd.Flags().StringVar(&department, "department", "", "departamento para filas sin departamento")
	cmd.Flags().BoolVar(&async, "async", false, "encolar la importación en el worker")
	cmd.Flags().BoolVar(&preview, "preview", false, "solo mostrar las filas leídas")
	cmd.MarkFlagsMutuallyExclusive("url", "file")
	cmd.MarkFlagsMutuallyExclusive("file", "async")
	cmd.MarkFlagsMutuallyExclusive("preview", "async")
	return cmd
}

func newAlertsCmd() *cobra.Command {
	var enqueue bool
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Muestra productos bajo mínimo, por agotarse o en exceso",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, e *env) error {
			if enqueue {
				client := jobs.NewClient(jobs.RedisOpt(e.cfg.Redis))
				defer client.Close()
				info, err := client.EnqueueStockAlerts(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dto.ImportJobResponse{TaskID: info.ID, Queue: info.Queue})
			}
			out, err := e.services(nil).Alerts.GenerateAlerts(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		}),
	}
	cmd.Flags().BoolVar(&enqueue, "enqueue", false, "encolar el resumen en el worker")
	return cmd
}

func newReconcileCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compara el stock de cada producto con su último movimiento",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, e *env) error {
			res, err := e.services(nil).Movements.Reconcile(cmd.Context())
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), inventory.ToReconcileResponse(res)); err != nil {
				return err
			}
			if strict && len(res.Mismatches) > 0 {
				return fmt.Errorf("%d productos desalineados con el ledger", len(res.Mismatches))
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "terminar con error si hay diferencias")
	return cmd
}

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporta el catálogo a .xlsx",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, e *env) error {
			data, err := e.services(nil).Reports.ExportProducts(cmd.Context())
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, data)
		}),
	}
	cmd.Flags().StringVarP(&out, "out", "o", "inventario.xlsx", "archivo de salida (- para stdout)")
	return cmd
}

func newReportCmd() *cobra.Command {
	var from, to, out string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Genera el reporte PDF del período",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, e *env) error {
			reports := e.services(nil).Reports
			start, end, err := reports.ParseRange(dto.ReportRangeRequest{From: from, To: to})
			if err != nil {
				return err
			}
			data, err := reports.SummaryPDF(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, data)
		}),
	}
	cmd.Flags().StringVar(&from, "from", "", "fecha inicial YYYY-MM-DD (por defecto hace 30 días)")
	cmd.Flags().StringVar(&to, "to", "", "fecha final YYYY-MM-DD (por defecto hoy)")
	cmd.Flags().StringVarP(&out, "out", "o", "reporte.pdf", "archivo de salida (- para stdout)")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s (%d bytes)\n", path, len(data))
	return nil
}
