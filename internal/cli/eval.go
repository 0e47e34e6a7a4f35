package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/soypat/gluniform"
	"github.com/soypat/gluniform/glreact"
	"github.com/soypat/gluniform/gluniformaux"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Type     string
	Frames   int
	Interval time.Duration
	Toggle   []int
	Hold     []int
}

// EvalResult is the value of a formula after simulating frames.
type EvalResult struct {
	Formula string  `json:"formula"`
	Type    string  `json:"type"`
	Value   float64 `json:"value"`
	Terms   int     `json:"terms"`
	Frames  int     `json:"frames"`
	Ticks   int     `json:"ticks"`
}

func (r EvalResult) String() string {
	if r.Type == "float" {
		return strconv.FormatFloat(r.Value, 'g', -1, 32) + "\n"
	}
	return strconv.FormatFloat(r.Value, 'f', 0, 64) + "\n"
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <formula>",
		Short: "Evaluate a single formula",
		Long: `Evaluate a formula as a float, int or uint scalar.

Reactive terms start at their initial value. Use --frames to simulate the
passing of time and --toggle and --hold to drive button terms.

Example:
  gluniform eval "2*sin(pi/4)"
  gluniform eval --type int --frames 60 '$Time{1,16}'
  gluniform eval --toggle 3 '$Action{3,0,1}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "float", "element type (float|int|uint)")
	cmd.Flags().IntVar(&opts.Frames, "frames", 0, "amount of frames to simulate")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 16*time.Millisecond, "duration of a simulated frame")
	cmd.Flags().IntSliceVar(&opts.Toggle, "toggle", nil, "buttons toggled before simulating")
	cmd.Flags().IntSliceVar(&opts.Hold, "hold", nil, "buttons held down while simulating")

	return cmd
}

func runEval(opts *EvalOptions, formula string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	elem, shape, err := gluniform.ParseGLSLType(opts.Type)
	if err != nil || shape != gluniform.ShapeScalar {
		return formatter.fail(ExitCommandError, ErrCodeFlag, fmt.Sprintf("invalid type %q: must be float, int or uint", opts.Type), err)
	}
	if opts.Frames < 0 || opts.Interval <= 0 {
		return formatter.fail(ExitCommandError, ErrCodeFlag, "frames must be non-negative and interval positive", nil)
	}
	toggle, err := parseButtons(opts.Toggle)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeFlag, "invalid --toggle", err)
	}
	held, err := parseButtons(opts.Hold)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeFlag, "invalid --hold", err)
	}

	var set gluniform.Set
	v, err := set.Load(gluniform.LoadConfig{Name: "eval", Values: []string{formula}, Elem: elem, Shape: shape})
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeLoad, "loading formula", err)
	}
	if _, err := v.Cell(0); err != nil {
		return formatter.fail(ExitFailure, ErrCodeFormula, "invalid formula "+strconv.Quote(formula), err)
	}
	formatter.VerboseLog("Formula has %d reactive term(s)", v.NumTerms())

	for _, b := range toggle {
		set.ToggleAction(b)
	}
	var pressed glreact.ButtonSet
	for _, b := range held {
		pressed = pressed.With(b)
	}
	sched := gluniformaux.NewScheduler(&set, gluniformaux.SchedulerConfig{})
	result := EvalResult{Formula: formula, Type: opts.Type, Terms: v.NumTerms(), Frames: opts.Frames}
	for range opts.Frames {
		result.Ticks += sched.Advance(opts.Interval, pressed)
	}
	vals, err := v.Floats(nil, 0)
	if err != nil {
		return formatter.fail(ExitFailure, ErrCodeFormula, "reading formula", err)
	}
	result.Value = vals[0]
	formatter.VerboseLog("Simulated %d frame(s) with %d tick(s)", result.Frames, result.Ticks)
	return formatter.Success(result)
}

func parseButtons(ids []int) ([]glreact.Button, error) {
	buttons := make([]glreact.Button, 0, len(ids))
	for _, id := range ids {
		if id < 0 || id > int(glreact.MaxButton) {
			return nil, fmt.Errorf("button %d out of range [0,%d]", id, glreact.MaxButton)
		}
		buttons = append(buttons, glreact.Button(id))
	}
	return buttons, nil
}
