package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soypat/gluniform/glbuild/glsllib"
	"github.com/soypat/gluniform/gluniformaux"
)

// UIOptions holds flags for the ui command.
type UIOptions struct {
	*RootOptions
	Width, Height int
}

// NewUICommand creates the ui command.
func NewUICommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UIOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ui <project.yaml>",
		Short: "Render a project's fragment shader in a window",
		Long: `Open a window rendering the project's fragment shader with its variables
uploaded as uniforms every frame.

Keys 0-9 and Q W E R T are buttons 0 to 14. Pressing a key toggles its Action
terms, holding it drives ActionPressed terms. Space resets all terms.
Requires a build with cgo enabled.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", 800, "window width")
	cmd.Flags().IntVar(&opts.Height, "height", 600, "window height")

	return cmd
}

func runUI(opts *UIOptions, filename string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	project, set, err := loadProject(formatter, filename)
	if err != nil {
		return err
	}
	if project.Fragment == "" {
		return formatter.fail(ExitCommandError, ErrCodeNoFragment, "project has no fragment shader", nil)
	}
	if err := set.Err(); err != nil {
		formatter.VerboseLog("Project has invalid variables: %v", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = gluniformaux.UI(set, gluniformaux.UIConfig{
		Width:    opts.Width,
		Height:   opts.Height,
		Title:    "gluniform " + filename,
		Fragment: project.Fragment,
		Funcs:    glsllib.All(),
		Silent:   !opts.Verbose,
		Context:  ctx,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return formatter.fail(ExitFailure, ErrCodeGeneric, "running UI", err)
	}
	return nil
}
