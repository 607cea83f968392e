package wizard

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/pretty"
)

var (
	// ErrConfirmationRequired is returned when confirmation is needed but not available
	ErrConfirmationRequired = errors.New("confirmation required: use --yes flag in non-interactive mode")
	ErrNoOptions            = errors.New("nothing to choose from")
)

// Confirm asks a y/N question. Force skips the prompt; without a terminal
// and without force, ErrConfirmationRequired is returned.
func Confirm(question string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	if !pretty.Interactive {
		return false, ErrConfirmationRequired
	}

	validator := memberValidation([]string{"y", "Y", "n", "N"}, "Please answer 'y' or 'n'.")
	response, err := ask(question, "n", validator)
	if err != nil {
		return false, err
	}
	confirmed := response == "y" || response == "Y"
	if !confirmed {
		common.Stdout("%sOperation cancelled.%s\n", pretty.Grey, pretty.Reset)
	}
	return confirmed, nil
}

// Choose lists options and returns index of the picked one. Single option
// is picked without asking.
func Choose(question string, options []string) (int, error) {
	switch {
	case len(options) == 0:
		return -1, ErrNoOptions
	case len(options) == 1:
		return 0, nil
	case !pretty.Interactive:
		return -1, ErrConfirmationRequired
	}
	ShowOptions(options)
	response, err := ask(question, "1", ValidateSelection(options))
	if err != nil {
		return -1, err
	}
	return indexOf(options, response), nil
}

// AddYesFlag adds a --yes/-y flag to the given command that can be used to skip confirmation prompts.
func AddYesFlag(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVarP(target, "yes", "y", false, "Skip confirmation prompt")
}
