// Package cli implements trainingctl, the HR admin command line for the registration collection.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/training-registration-api/internal/models"
	"github.com/noah-isme/training-registration-api/internal/service"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

type registrationStore interface {
	Query(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, int)
	Get(ctx context.Context, id string) (*models.Registration, error)
	UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error
}

type registrationExporter interface {
	Render(records []models.Registration, format service.ExportFormat) (*service.ExportResult, error)
}

// Services is what the commands operate on. Close releases the backend behind them.
type Services struct {
	Registrations registrationStore
	Exporter      registrationExporter
	Close         func()
}

// ServiceFactory opens the configured backend lazily, once a command actually runs.
type ServiceFactory func(ctx context.Context) (*Services, error)

// NewRootCommand creates the root command for trainingctl.
func NewRootCommand(factory ServiceFactory) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "trainingctl",
		Short: "Manage training registrations",
		Long:  "Inspect, export and review training registrations stored in the configured backend.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewListCommand(opts, factory))
	cmd.AddCommand(NewExportCommand(opts, factory))
	cmd.AddCommand(NewStatusCommand(opts, factory))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// openServices runs the factory and converts its failure into a command error.
func openServices(ctx context.Context, factory ServiceFactory) (*Services, error) {
	if factory == nil {
		return nil, NewExitError(ExitCommandError, "no backend configured")
	}
	svcs, err := factory(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open backend", err)
	}
	if svcs.Close == nil {
		svcs.Close = func() {}
	}
	return svcs, nil
}

func addFilterFlags(cmd *cobra.Command, filter *models.RegistrationFilter) {
	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "match name or e-mail (case-insensitive)")
	cmd.Flags().StringVar(&filter.Department, "department", models.FilterAll, "rh|ti|vendas|operacoes|all")
	cmd.Flags().StringVar(&filter.Familiarity, "familiarity", models.FilterAll, "baixo|medio|alto|all")
	cmd.Flags().StringVar(&filter.Status, "status", models.FilterAll, "pending|approved|rejected|all")
}
