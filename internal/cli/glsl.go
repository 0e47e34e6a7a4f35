package cli

import (
	"bytes"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soypat/gluniform/glbuild"
	"github.com/soypat/gluniform/glbuild/glsllib"
	"github.com/soypat/gluniform/gluniformaux"
)

// GLSLOptions holds flags for the glsl command.
type GLSLOptions struct {
	*RootOptions
	Consts  bool
	Program bool
}

// GLSLResult holds generated GLSL source.
type GLSLResult struct {
	Source string `json:"source"`
}

func (r GLSLResult) String() string { return r.Source }

// NewGLSLCommand creates the glsl command.
func NewGLSLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GLSLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "glsl <project.yaml>",
		Short: "Print GLSL declarations for a project",
		Long: `Print the uniform declarations of a project's variables.

With --consts the current values are printed as const declarations instead,
useful for pasting into shaders that do not take uniforms. With --program the
complete fragment program the ui command compiles is printed, including the
helper function library.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGLSL(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Consts, "consts", false, "print const declarations of current values")
	cmd.Flags().BoolVar(&opts.Program, "program", false, "print the complete fragment program")
	cmd.MarkFlagsMutuallyExclusive("consts", "program")

	return cmd
}

func runGLSL(opts *GLSLOptions, filename string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	project, set, err := loadProject(formatter, filename)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	programmer := glbuild.NewDefaultProgrammer()
	switch {
	case opts.Consts:
		_, err = programmer.WriteConsts(&buf, set)
		if err != nil {
			// Readable variables were still written.
			formatter.VerboseLog("Skipped variables: %v", err)
			err = nil
		}
	case opts.Program:
		if project.Fragment == "" {
			return formatter.fail(ExitCommandError, ErrCodeNoFragment, "project has no fragment shader", nil)
		}
		var src string
		src, err = gluniformaux.FragmentSource(set, gluniformaux.UIConfig{Fragment: project.Fragment, Funcs: glsllib.All()})
		buf.WriteString(strings.TrimSuffix(src, "\x00"))
	default:
		_, err = programmer.WriteUniforms(&buf, set)
	}
	if err != nil {
		return formatter.fail(ExitFailure, ErrCodeWriteFailed, "writing GLSL", err)
	}
	return formatter.Success(GLSLResult{Source: buf.String()})
}
