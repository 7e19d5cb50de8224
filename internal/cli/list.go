package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/training-registration-api/internal/models"
)

// ListResult is the JSON payload of the list command.
type ListResult struct {
	Total         int                   `json:"total"`
	Filtered      int                   `json:"filtered"`
	Registrations []models.Registration `json:"registrations"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions, factory ServiceFactory) *cobra.Command {
	var filter models.RegistrationFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registrations",
		Long: `List registrations in submission order.

Filters combine with AND; "all" disables a category filter.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, factory, filter, cmd)
		},
	}
	addFilterFlags(cmd, &filter)

	return cmd
}

func runList(opts *RootOptions, factory ServiceFactory, filter models.RegistrationFilter, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	svcs, err := openServices(cmd.Context(), factory)
	if err != nil {
		return formatter.Failure(err)
	}
	defer svcs.Close()

	items, total := svcs.Registrations.Query(cmd.Context(), filter)
	formatter.VerboseLog("%d of %d registrations match", len(items), total)

	result := ListResult{Total: total, Filtered: len(items), Registrations: items}
	return formatter.Success(result, func(w io.Writer) error {
		return writeRegistrationTable(w, result)
	})
}

func writeRegistrationTable(w io.Writer, result ListResult) error {
	if len(result.Registrations) == 0 {
		_, err := fmt.Fprintf(w, "No registrations found (%d total)\n", result.Total)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tDEPARTMENT\tFAMILIARITY\tDATE\tSTATUS")
	for _, r := range result.Registrations {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.FullName,
			r.Email,
			r.Department.Label(),
			r.FamiliarityLevel.Label(),
			r.ParticipationDate.String(),
			r.ApprovalStatus.Label(),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d registrations\n", len(result.Registrations), result.Total)
	return err
}
