package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soypat/gluniform"
	"github.com/soypat/gluniform/glbuild/glsllib"
	"github.com/soypat/gluniform/gluniformaux"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Compile bool
}

// CheckResult holds the problems found in a project.
type CheckResult struct {
	Valid     bool          `json:"valid"`
	Variables int           `json:"variables"`
	Problems  []CellProblem `json:"problems,omitempty"`
}

// CellProblem describes an invalid cell or a composition that fails to resolve.
type CellProblem struct {
	Code     string `json:"code"`
	Variable string `json:"variable,omitempty"`
	Cell     int    `json:"cell"` // Cell index or -1 for compositions.
	Formula  string `json:"formula,omitempty"`
	Message  string `json:"message"`
}

func (r CheckResult) String() string {
	var sb strings.Builder
	if r.Valid {
		fmt.Fprintf(&sb, "✓ All %d variable(s) valid\n", r.Variables)
		return sb.String()
	}
	fmt.Fprintf(&sb, "✗ %d problem(s) in %d variable(s)\n\n", len(r.Problems), r.Variables)
	for _, p := range r.Problems {
		if p.Cell >= 0 {
			fmt.Fprintf(&sb, "%s[%d] %q\n", p.Variable, p.Cell, p.Formula)
		} else if p.Variable == "" {
			fmt.Fprintf(&sb, "fragment program\n")
		} else {
			fmt.Fprintf(&sb, "%s\n", p.Variable)
		}
		fmt.Fprintf(&sb, "  %s: %s\n", p.Code, p.Message)
	}
	return sb.String()
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "check <project.yaml>",
		Short: "Report invalid formulas and unresolved compositions",
		Long: `Load a project file and report every formula cell that does not compile
and every composition variable whose operands can not be multiplied.
With --compile the project's fragment program is also compiled by the GPU
driver in a hidden window, which requires cgo.

Exits with code 1 if any problem is found.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}
	cmd.Flags().BoolVar(&opts.Compile, "compile", false, "compile the project's fragment program")
	return cmd
}

func runCheck(opts *CheckOptions, filename string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	project, set, err := loadProject(formatter, filename)
	if err != nil {
		return err
	}
	if opts.Compile && project.Fragment == "" {
		return formatter.fail(ExitCommandError, ErrCodeNoFragment, "project has no fragment shader", nil)
	}
	result := checkSet(set)
	if result.Valid && opts.Compile {
		err = gluniformaux.CompileFragment(set, gluniformaux.UIConfig{Fragment: project.Fragment, Funcs: glsllib.All()})
		if err != nil {
			result.Valid = false
			result.Problems = append(result.Problems, CellProblem{Code: ErrCodeCompile, Cell: -1, Message: err.Error()})
		} else {
			formatter.VerboseLog("Fragment program compiled")
		}
	}
	if result.Valid {
		return formatter.Success(result)
	}
	first := result.Problems[0]
	_ = formatter.Error(first.Code, first.Message, nil, result)
	return NewExitError(ExitFailure, fmt.Sprintf("check failed with %d problem(s)", len(result.Problems)))
}

func checkSet(set *gluniform.Set) CheckResult {
	result := CheckResult{Variables: set.Len()}
	for _, name := range set.Names() {
		v, _ := set.Lookup(name)
		if v.IsComposition() {
			if _, err := v.Floats(nil, 0); err != nil {
				result.Problems = append(result.Problems, CellProblem{
					Code:     ErrCodeResolution,
					Variable: name,
					Cell:     -1,
					Message:  err.Error(),
				})
			}
			continue
		}
		for _, i := range v.InvalidCells() {
			src, err := v.Cell(i)
			result.Problems = append(result.Problems, CellProblem{
				Code:     ErrCodeFormula,
				Variable: name,
				Cell:     i,
				Formula:  src,
				Message:  err.Error(),
			})
		}
	}
	result.Valid = len(result.Problems) == 0
	return result
}
