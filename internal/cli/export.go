package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/noah-isme/training-registration-api/internal/models"
	"github.com/noah-isme/training-registration-api/internal/service"
)

// ExportCommandResult is the JSON payload of the export command.
type ExportCommandResult struct {
	Path  string `json:"path"`
	Type  string `json:"type"`
	Count int    `json:"count"`
	Bytes int    `json:"bytes"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions, factory ServiceFactory) *cobra.Command {
	var (
		filter models.RegistrationFilter
		kind   string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export registrations as CSV or PDF",
		Long: `Export the filtered registrations to a file.

Without --out the file is written to the current directory under the
dated download name, e.g. inscricoes_treinamento_2030-05-01.csv.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, factory, filter, kind, out, cmd)
		},
	}
	addFilterFlags(cmd, &filter)
	cmd.Flags().StringVarP(&kind, "type", "t", string(service.ExportFormatCSV), "export type (csv|pdf)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory")

	return cmd
}

func runExport(opts *RootOptions, factory ServiceFactory, filter models.RegistrationFilter, kind, out string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	format, err := service.ParseExportFormat(kind)
	if err != nil {
		return formatter.Failure(WrapExitError(ExitCommandError, fmt.Sprintf("invalid export type %q", kind), err))
	}

	svcs, err := openServices(cmd.Context(), factory)
	if err != nil {
		return formatter.Failure(err)
	}
	defer svcs.Close()

	items, _ := svcs.Registrations.Query(cmd.Context(), filter)
	result, err := svcs.Exporter.Render(items, format)
	if err != nil {
		return formatter.Failure(WrapExitError(ExitFailure, "render export", err))
	}

	path := resolveExportPath(out, result.Filename)
	formatter.VerboseLog("writing %d bytes to %s", len(result.Payload), path)
	if err := os.WriteFile(path, result.Payload, 0o644); err != nil {
		return formatter.Failure(WrapExitError(ExitCommandError, "write export", err))
	}

	summary := ExportCommandResult{Path: path, Type: string(format), Count: result.Count, Bytes: len(result.Payload)}
	return formatter.Success(summary, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Exported %d registrations to %s\n", summary.Count, summary.Path)
		return err
	})
}

// resolveExportPath places the default filename inside out when out is empty or a directory.
func resolveExportPath(out, filename string) string {
	if out == "" {
		return filename
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, filename)
	}
	return out
}
