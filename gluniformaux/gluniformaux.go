package gluniformaux

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"
	"time"
	"unicode"

	"github.com/soypat/gluniform"
	"github.com/soypat/gluniform/glbuild"
	"github.com/soypat/gluniform/glreact"
)

// Ticker is implemented by [gluniform.Set] and [gluniform.Variable].
type Ticker interface {
	TickTime(interval time.Duration)
	TickActionPressed(interval time.Duration, buttons glreact.Buttons)
	TimeIntervals() []time.Duration
	PressedIntervals() []time.Duration
}

// SchedulerConfig configures a [Scheduler].
type SchedulerConfig struct {
	// MaxCatchUp is the largest amount of ticks a single interval receives
	// per call to [Scheduler.Advance]. Time beyond that is dropped.
	// Defaults to 8.
	MaxCatchUp int
}

// Scheduler converts elapsed frame time into Tick calls for every refresh
// interval in use by a [Ticker]. Each interval keeps its own accumulator so
// no time is lost to frame jitter.
type Scheduler struct {
	t          Ticker
	maxCatchUp int
	time       []accumulator
	pressed    []accumulator
}

type accumulator struct {
	interval time.Duration
	acc      time.Duration
}

// NewScheduler returns a scheduler over the intervals t uses at the time of the call.
// Call [Scheduler.Refresh] after loading new formulas.
func NewScheduler(t Ticker, cfg SchedulerConfig) *Scheduler {
	if cfg.MaxCatchUp <= 0 {
		cfg.MaxCatchUp = 8
	}
	s := &Scheduler{t: t, maxCatchUp: cfg.MaxCatchUp}
	s.Refresh()
	return s
}

// Refresh rereads the intervals in use. Intervals still in use keep their accumulated time.
func (s *Scheduler) Refresh() {
	s.time = refreshAccumulators(s.time, s.t.TimeIntervals())
	s.pressed = refreshAccumulators(s.pressed, s.t.PressedIntervals())
}

func refreshAccumulators(old []accumulator, intervals []time.Duration) []accumulator {
	accs := make([]accumulator, 0, len(intervals))
	for _, iv := range intervals {
		if iv <= 0 {
			continue
		}
		a := accumulator{interval: iv}
		idx := slices.IndexFunc(old, func(o accumulator) bool { return o.interval == iv })
		if idx >= 0 {
			a.acc = old[idx].acc
		}
		accs = append(accs, a)
	}
	return accs
}

// Advance accounts for elapsed time and ticks every interval that elapsed.
// Time intervals are ticked in ascending order followed by the ActionPressed
// intervals, which sample buttons on every tick. It returns the total amount of ticks.
func (s *Scheduler) Advance(elapsed time.Duration, buttons glreact.Buttons) (ticks int) {
	if elapsed < 0 {
		elapsed = 0
	}
	for i := range s.time {
		n := s.time[i].advance(elapsed, s.maxCatchUp)
		for range n {
			s.t.TickTime(s.time[i].interval)
		}
		ticks += n
	}
	for i := range s.pressed {
		n := s.pressed[i].advance(elapsed, s.maxCatchUp)
		for range n {
			s.t.TickActionPressed(s.pressed[i].interval, buttons)
		}
		ticks += n
	}
	return ticks
}

func (a *accumulator) advance(elapsed time.Duration, maxTicks int) int {
	a.acc += elapsed
	n := int(a.acc / a.interval)
	if n > maxTicks {
		n = maxTicks
		a.acc %= a.interval
	} else {
		a.acc -= time.Duration(n) * a.interval
	}
	return n
}

// ButtonForKey maps keyboard keys to buttons: digits 0-9 are buttons 0 to 9
// and the letters Q W E R T are buttons 10 to 14.
func ButtonForKey(r rune) (glreact.Button, bool) {
	if r >= '0' && r <= '9' {
		return glreact.Button(r - '0'), true
	}
	switch unicode.ToUpper(r) {
	case 'Q':
		return 10, true
	case 'W':
		return 11, true
	case 'E':
		return 12, true
	case 'R':
		return 13, true
	case 'T':
		return 14, true
	}
	return 0, false
}

// UIConfig configures [UI].
type UIConfig struct {
	Width, Height int
	Title         string
	// Fragment is the fragment shader code following the uniform
	// declarations. It must define main and write fragColor. The
	// vTexCoord input and gluResolution uniform are declared for it.
	Fragment string
	// Funcs are helper functions written before Fragment.
	Funcs  []glbuild.ShaderFunction
	Silent bool
	// Context cancels the render loop when done.
	Context    context.Context
	MaxCatchUp int
}

// UI opens a window that renders cfg.Fragment and uploads every variable of
// set to the uniform of the same name each frame. Keys toggle Action terms
// and drive ActionPressed terms, see [ButtonForKey]. Space resets all terms.
func UI(set *gluniform.Set, cfg UIConfig) error {
	if set == nil {
		return errors.New("nil variable set")
	} else if cfg.Fragment == "" {
		return errors.New("UI requires fragment shader code in config")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 800, 600
	}
	if cfg.Title == "" {
		cfg.Title = "gluniform"
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	return ui(set, cfg)
}

const (
	fragmentPrelude = "uniform vec2 gluResolution;\nin vec2 vTexCoord;\nout vec4 fragColor;\n"
	vertexSource    = glbuild.VersionStr + `in vec2 aPos;
out vec2 vTexCoord;
void main() {
    vTexCoord = aPos * 0.5 + 0.5;
    gl_Position = vec4(aPos, 0.0, 1.0);
}
`
)

// CompileFragment compiles the program [UI] would run in a hidden window and
// returns the compilation error, if any. Requires cgo.
func CompileFragment(set *gluniform.Set, cfg UIConfig) error {
	if set == nil {
		return errors.New("nil variable set")
	} else if cfg.Fragment == "" {
		return errors.New("missing fragment shader code in config")
	}
	return compileFragment(set, cfg)
}

// writeCombinedProgram writes the vertex and fragment programs in the
// combined format read by glgl.ParseCombined.
func writeCombinedProgram(w io.Writer, set *gluniform.Set, cfg UIConfig) error {
	_, err := io.WriteString(w, "#shader vertex\n"+vertexSource)
	if err != nil {
		return err
	}
	_, err = glbuild.NewDefaultProgrammer().WriteFragmentProgram(w, set, cfg.Funcs, []byte(fragmentPrelude+cfg.Fragment))
	return err
}

// FragmentSource returns the null terminated fragment shader source UI compiles.
func FragmentSource(set *gluniform.Set, cfg UIConfig) (string, error) {
	var buf bytes.Buffer
	body := []byte(fragmentPrelude + cfg.Fragment)
	_, err := glbuild.NewProgrammer(glbuild.VersionStr).WriteFragmentProgram(&buf, set, cfg.Funcs, body)
	if err != nil {
		return "", err
	}
	buf.WriteByte(0)
	return buf.String(), nil
}

// uniformData holds the flattened values of one variable ready for upload.
type uniformData struct {
	v   *gluniform.Variable
	loc int32
	f32 []float32
	i32 []int32
	u32 []uint32
	// failed is set when the last fill failed.
	failed bool
}

// fill reads all array elements of the variable. Elements that fail to read
// are filled with zeros and the first error is returned.
func (u *uniformData) fill() (err error) {
	switch u.v.Elem() {
	case gluniform.ElemInt:
		u.i32, err = appendValues(u.i32[:0], u.v)
	case gluniform.ElemUint:
		u.u32, err = appendValues(u.u32[:0], u.v)
	default:
		u.f32, err = appendValues(u.f32[:0], u.v)
	}
	return err
}

func appendValues[T gluniform.Number](dst []T, v *gluniform.Variable) ([]T, error) {
	var first error
	size := v.Shape().Size()
	for i := range v.Len() {
		m, err := gluniform.Read[T](v, i)
		vals := m.Values()
		if err != nil && first == nil {
			first = err
		}
		if len(vals) != size {
			dst = append(dst, make([]T, size)...)
			continue
		}
		dst = append(dst, vals...)
	}
	return dst, first
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
