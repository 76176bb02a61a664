package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/export"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/scheduler"
)

// Output formats accepted by --format
const (
	FormatJSON       = "json"
	FormatCSV        = "csv"
	FormatMatrix     = "matrix"
	FormatUnassigned = "unassigned"
	FormatXLSX       = "xlsx"
)

func newRunCmd(app *App) *cobra.Command {
	var (
		input  models.ScheduleInput
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Schedule every zone of every day in a date range",
		Example: `  zonectl run --start 2025-08-01 --end 2025-08-31 --format matrix
  zonectl run --start 2025-08-01 --end 2025-08-31 --apply-load --format xlsx --out august.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == FormatXLSX && out == "" {
				return fmt.Errorf("--format xlsx needs --out")
			}
			opts, err := scheduler.OptionsFromInput(input)
			if err != nil {
				return err
			}

			s := scheduler.NewScheduler(app.Store, scheduler.WithLogger(app.Log))
			res, err := s.Run(cmd.Context(), opts)
			if err != nil {
				var storeErr *scheduler.StoreError
				if errors.As(err, &storeErr) {
					app.Log.WithFields(logrus.Fields{
						"assignments":       len(res.Assignments),
						"completed_through": storeErr.CompletedThrough.String(),
					}).Warn("Loads written before the failure were kept")
				}
				return err
			}

			w := app.Out
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := writeResult(w, format, res); err != nil {
				return err
			}
			if out != "" {
				app.Log.WithField("path", out).Info("Wrote schedule")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input.StartDate, "start", "", "First date to schedule (YYYY-MM-DD)")
	cmd.Flags().StringVar(&input.EndDate, "end", "", "Last date to schedule, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&input.Zones, "zones", nil, "Zones to fill, in order (default A,B,C,I,E)")
	cmd.Flags().BoolVar(&input.ApplyLoad, "apply-load", false, "Write accrued load back to the roster")
	cmd.Flags().StringVar(&format, "format", FormatJSON, "Output format (json, csv, matrix, unassigned, xlsx)")
	cmd.Flags().StringVar(&out, "out", "", "Write output to this file instead of stdout")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func writeResult(w io.Writer, format string, res *scheduler.Result) error {
	report := export.FromResult(res)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Response())
	case FormatCSV:
		return export.WriteAssignmentsCSV(w, report)
	case FormatMatrix:
		return export.WriteMatrixCSV(w, export.BuildMatrix(report))
	case FormatUnassigned:
		return export.WriteUnassignedCSV(w, report)
	case FormatXLSX:
		return export.WriteWorkbook(w, report)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
