package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/noah-isme/training-registration-api/internal/models"
)

// StatusResult is the JSON payload of the status command.
type StatusResult struct {
	ID       string                `json:"id"`
	Name     string                `json:"fullName"`
	Previous models.ApprovalStatus `json:"previous"`
	Status   models.ApprovalStatus `json:"status"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions, factory ServiceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <id> <pending|approved|rejected>",
		Short: "Set the approval status of a registration",
		Long: `Set the approval status of one registration.

Any status may follow any other; re-applying the current status is allowed.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, factory, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runStatus(opts *RootOptions, factory ServiceFactory, id, raw string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	status, err := models.ParseApprovalStatus(raw)
	if err != nil {
		return formatter.Failure(WrapExitError(ExitCommandError, fmt.Sprintf("invalid status %q", raw), err))
	}

	svcs, err := openServices(cmd.Context(), factory)
	if err != nil {
		return formatter.Failure(err)
	}
	defer svcs.Close()

	// UpdateStatus ignores unknown ids, so resolve the record first.
	current, err := svcs.Registrations.Get(cmd.Context(), id)
	if err != nil {
		return formatter.Failure(WrapExitError(ExitFailure, fmt.Sprintf("registration %s", id), err))
	}

	if err := svcs.Registrations.UpdateStatus(cmd.Context(), id, status); err != nil {
		return formatter.Failure(WrapExitError(ExitFailure, "update status", err))
	}

	result := StatusResult{ID: id, Name: current.FullName, Previous: current.ApprovalStatus, Status: status}
	return formatter.Success(result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s (%s): %s -> %s\n", result.Name, result.ID, result.Previous.Label(), result.Status.Label())
		return err
	})
}
