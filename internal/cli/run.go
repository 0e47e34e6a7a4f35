package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/soypat/gluniform"
	"github.com/soypat/gluniform/glreact"
	"github.com/soypat/gluniform/gluniformaux"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Frames   int
	Interval time.Duration
	Toggle   []string
	Hold     []string
	PNG      string
}

// RunResult holds the variable values after a simulation.
type RunResult struct {
	Frames    int             `json:"frames"`
	Ticks     int             `json:"ticks"`
	Variables []VariableValue `json:"variables"`
}

// VariableValue is the value of every array element of a variable
// flattened in row-major order, or the reason it could not be read.
type VariableValue struct {
	Name   string    `json:"name"`
	Type   string    `json:"type"`
	Values []float64 `json:"values,omitempty"`
	Error  string    `json:"error,omitempty"`
}

func (r RunResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "after %d frame(s), %d tick(s):\n", r.Frames, r.Ticks)
	for _, v := range r.Variables {
		if v.Error != "" {
			fmt.Fprintf(&sb, "  %s %s: %s\n", v.Type, v.Name, v.Error)
			continue
		}
		fmt.Fprintf(&sb, "  %s %s =", v.Type, v.Name)
		for _, x := range v.Values {
			sb.WriteByte(' ')
			sb.WriteString(strconv.FormatFloat(x, 'g', -1, 32))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// buttonEvent is a button bound to a range of frames.
type buttonEvent struct {
	from, to int
	button   glreact.Button
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <project.yaml>",
		Short: "Simulate a project for a number of frames",
		Long: `Load a project file and simulate frames of fixed duration, then print the
value of every variable.

Button events are scripted with frame numbers starting at 0:
  --toggle FRAME:BUTTON        toggle Action terms before FRAME
  --hold FROM-TO:BUTTON        hold BUTTON from frame FROM through TO

With --png a timeline image is written with a column per frame and a band per
variable.

Example:
  gluniform run --frames 120 --toggle 30:1 --hold 0-59:10 project.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Frames, "frames", 60, "amount of frames to simulate")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 16*time.Millisecond, "duration of a simulated frame")
	cmd.Flags().StringSliceVar(&opts.Toggle, "toggle", nil, "FRAME:BUTTON toggle events")
	cmd.Flags().StringSliceVar(&opts.Hold, "hold", nil, "FROM-TO:BUTTON hold events")
	cmd.Flags().StringVar(&opts.PNG, "png", "", "write a timeline image of the values of every frame to this file")

	return cmd
}

func runProject(opts *RunOptions, filename string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if opts.Frames < 0 || opts.Interval <= 0 {
		return formatter.fail(ExitCommandError, ErrCodeFlag, "frames must be non-negative and interval positive", nil)
	}
	toggles, err := parseEvents(opts.Toggle, false)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeFlag, "invalid --toggle", err)
	}
	holds, err := parseEvents(opts.Hold, true)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeFlag, "invalid --hold", err)
	}
	_, set, err := loadProject(formatter, filename)
	if err != nil {
		return err
	}

	logger := formatter.Logger()
	logger.Debug("simulation starting", "frames", opts.Frames, "interval", opts.Interval,
		"time_intervals", len(set.TimeIntervals()), "pressed_intervals", len(set.PressedIntervals()))
	sched := gluniformaux.NewScheduler(set, gluniformaux.SchedulerConfig{})
	result := RunResult{Frames: opts.Frames}
	var timeline *gluniformaux.Timeline
	if opts.PNG != "" {
		timeline = gluniformaux.NewTimeline(set)
	}
	for frame := range opts.Frames {
		for _, ev := range toggles {
			if ev.from == frame {
				set.ToggleAction(ev.button)
				logger.Debug("toggle", "frame", frame, "button", ev.button)
			}
		}
		var pressed glreact.ButtonSet
		for _, ev := range holds {
			if frame >= ev.from && frame <= ev.to {
				pressed = pressed.With(ev.button)
			}
		}
		if timeline != nil {
			timeline.Record(set)
		}
		n := sched.Advance(opts.Interval, pressed)
		result.Ticks += n
		logger.Debug("frame", "frame", frame, "ticks", n, "pressed", uint16(pressed))
	}
	result.Variables = readVariables(set)
	logger.Debug("simulation done", "ticks", result.Ticks)
	if timeline != nil {
		err = writeTimeline(timeline, opts.PNG)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeWriteFailed, "writing timeline", err)
		}
		formatter.VerboseLog("Wrote timeline of %d frame(s) to %s", timeline.Frames(), opts.PNG)
	}
	return formatter.Success(result)
}

func readVariables(set *gluniform.Set) []VariableValue {
	values := make([]VariableValue, 0, set.Len())
	for _, name := range set.Names() {
		v, _ := set.Lookup(name)
		vv := VariableValue{Name: name, Type: v.GLSLType()}
		var err error
		for i := 0; i < v.Len() && err == nil; i++ {
			vv.Values, err = v.Floats(vv.Values, i)
		}
		if err != nil {
			vv.Values = nil
			vv.Error = err.Error()
		}
		values = append(values, vv)
	}
	return values
}

// parseEvents parses FRAME:BUTTON events or, if ranged, FROM-TO:BUTTON events.
func parseEvents(args []string, ranged bool) ([]buttonEvent, error) {
	events := make([]buttonEvent, 0, len(args))
	for _, arg := range args {
		frames, btn, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("%q: missing ':BUTTON'", arg)
		}
		b, err := glreact.ParseButton(btn)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", arg, err)
		}
		ev := buttonEvent{button: b}
		from, to := frames, frames
		if ranged {
			from, to, ok = strings.Cut(frames, "-")
			if !ok {
				return nil, fmt.Errorf("%q: missing frame range FROM-TO", arg)
			}
		}
		ev.from, err = strconv.Atoi(from)
		if err == nil {
			ev.to, err = strconv.Atoi(to)
		}
		if err != nil || ev.from < 0 || ev.to < ev.from {
			return nil, fmt.Errorf("%q: invalid frame %q", arg, frames)
		}
		events = append(events, ev)
	}
	return events, nil
}

func writeTimeline(tl *gluniformaux.Timeline, filename string) error {
	const bandHeight = 16
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	err = tl.WritePNG(fp, bandHeight)
	if err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
