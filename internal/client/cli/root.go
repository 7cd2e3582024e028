package cli

import (
	"github.com/spf13/cobra"
)

const banner = `slidesmith turns a topic into a slide deck or a Word document.

  new-deck / new-doc   generate a presentation or a document
  ls / show / export   browse, preview and download your projects
  edit-deck / edit-doc edit slides, or sections with autosave
  refine               let the AI polish one document section

Run without a command to start the interactive shell.`

// NewRootCmd builds the command tree. Global flags (-a, -t, -d, -c) are read
// by the config loader before the tree runs; unknown flags are tolerated so
// they do not trip cobra.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "slidesmith",
		Short:         "Client for the slidesmith presentation and document generator",
		Long:          banner,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.REPL(cmd.Context())
		},
	}

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newExportCmd(a),
		newDeckCmd(a),
		newDocCmd(a),
		newThemeCmd(a),
		newEditDeckCmd(a),
		newEditDocCmd(a),
		newRefineCmd(a),
		&cobra.Command{
			Use:   "repl",
			Short: "Start the interactive shell",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.REPL(cmd.Context())
			},
		},
	)
	return root
}
