package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-drift/mediaview/pkg/animation"
	"github.com/go-drift/mediaview/pkg/graphics"
	"github.com/go-drift/mediaview/pkg/logging"
	"github.com/go-drift/mediaview/pkg/presentation"
)

// frameInterval is the simulated display refresh.
const frameInterval = 16 * time.Millisecond

// maxSettleFrames bounds how long a simulation waits for animations.
const maxSettleFrames = 600

type simulateOptions struct {
	mode     string
	drag     float64
	velocity float64
	steps    int
	width    float64
	height   float64
	verbose  bool
}

func newSimulateCmd(g *globals) *cobra.Command {
	o := simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay a swipe against a headless full-screen view",
		Long: `Simulate presents a view full-screen, drags it down by --drag (a fraction
of the swipe range), releases it with --velocity points per second and
prints every presentation callback with its simulated timestamp.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.resolve()
			if err != nil {
				return err
			}
			provider, err := logging.New(r.Logging)
			if err != nil {
				return err
			}
			mode, err := presentation.ParseSwipeMode(o.mode)
			if err != nil {
				return err
			}
			if !mode.MovesWhenSwipe() {
				return fmt.Errorf("--mode must be minimize or dismiss")
			}
			if o.drag < 0 || o.drag > 1 {
				return fmt.Errorf("--drag must be within [0, 1], got %g", o.drag)
			}
			if o.width <= 0 || o.height <= 0 {
				return fmt.Errorf("screen size must be positive, got %gx%g", o.width, o.height)
			}

			opts := presentation.DefaultOptions()
			opts.SwipeMode = mode
			opts.MinimizedAspectRatio = r.Options.MinimizedAspectRatio
			opts.MinimizedWidthRatio = r.Options.MinimizedWidthRatio
			opts.TopBuffer = r.Options.TopBuffer
			opts.BottomBuffer = r.Options.BottomBuffer

			s := newSimulation(cmd.OutOrStdout(), presentation.Screen{Width: o.width, Height: o.height}, opts, provider.Get("queue"))
			s.printer.verbose = o.verbose
			s.run(o.drag, o.velocity, o.steps)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.mode, "mode", "minimize", "swipe mode: minimize or dismiss")
	f.Float64Var(&o.drag, "drag", 0.5, "drag distance as a fraction of the swipe range")
	f.Float64Var(&o.velocity, "velocity", 0, "vertical release velocity in points per second")
	f.IntVar(&o.steps, "steps", 10, "pan updates between press and release")
	f.Float64Var(&o.width, "width", 390, "screen width in points")
	f.Float64Var(&o.height, "height", 844, "screen height in points")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "print every offset change")
	return cmd
}

// stepClock is advanced by hand, one frame at a time.
type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

type simulation struct {
	clock   *stepClock
	loop    *animation.FrameLoop
	queue   *presentation.Queue
	ctrl    *presentation.Controller
	printer *eventPrinter
}

func newSimulation(out io.Writer, screen presentation.Screen, opts presentation.Options, log logging.Logger) *simulation {
	clk := &stepClock{now: time.Unix(0, 0)}
	p := &eventPrinter{out: out, clock: clk, start: clk.now}
	s := &simulation{
		clock:   clk,
		loop:    animation.NewFrameLoop(clk),
		printer: p,
	}
	s.queue = presentation.NewQueue(p, log)
	s.ctrl = presentation.NewController(s.loop, screen, opts)
	s.ctrl.SetDelegate(p)
	return s
}

func (s *simulation) frame() {
	s.clock.now = s.clock.now.Add(frameInterval)
	s.loop.Step()
}

func (s *simulation) settle() {
	for i := 0; i < maxSettleFrames && s.loop.Active(); i++ {
		s.frame()
	}
}

func (s *simulation) run(drag, velocity float64, steps int) {
	if steps < 1 {
		steps = 1
	}
	s.queue.Present(s.ctrl, true)
	s.settle()

	span := s.ctrl.Screen().Height
	if s.ctrl.Options().SwipeMode == presentation.SwipeMinimize {
		span = s.ctrl.MaxOffsetY()
	}
	distance := drag * span
	v := graphics.Offset{Y: velocity}

	s.ctrl.HandlePan(presentation.PanEvent{Phase: presentation.PanBegan})
	for i := 1; i <= steps; i++ {
		s.frame()
		s.ctrl.HandlePan(presentation.PanEvent{
			Phase:       presentation.PanChanged,
			Translation: graphics.Offset{Y: distance * float64(i) / float64(steps)},
			Velocity:    v,
		})
	}
	s.ctrl.HandlePan(presentation.PanEvent{
		Phase:       presentation.PanEnded,
		Translation: graphics.Offset{Y: distance},
		Velocity:    v,
	})
	s.settle()

	f := s.ctrl.Frame()
	s.printer.printf("state %s, frame (%.0f, %.0f) %.0fx%.0f",
		s.ctrl.State(), f.Left, f.Top, f.Width(), f.Height())
}

// eventPrinter writes delegate callbacks and window changes, one per line.
type eventPrinter struct {
	out     io.Writer
	clock   *stepClock
	start   time.Time
	verbose bool
	last    float64
}

func (p *eventPrinter) printf(format string, args ...any) {
	elapsed := p.clock.now.Sub(p.start)
	fmt.Fprintf(p.out, "%7s  %s\n", elapsed.Round(time.Millisecond), fmt.Sprintf(format, args...))
}

func (p *eventPrinter) Attach(*presentation.Controller) { p.printf("window: attach") }
func (p *eventPrinter) Detach(*presentation.Controller) { p.printf("window: detach") }

func (p *eventPrinter) WillPresent()              { p.printf("willPresent") }
func (p *eventPrinter) DidPresent()               { p.printf("didPresent") }
func (p *eventPrinter) WillDismiss()              { p.printf("willDismiss") }
func (p *eventPrinter) DidDismiss()               { p.printf("didDismiss") }
func (p *eventPrinter) WillEndMinimizing(m bool)  { p.printf("willEndMinimizing(%t)", m) }
func (p *eventPrinter) DidEndMinimizing(m bool)   { p.printf("didEndMinimizing(%t)", m) }
func (p *eventPrinter) WillEndDismissing(ok bool) { p.printf("willEndDismissing(%t)", ok) }
func (p *eventPrinter) DidEndDismissing(ok bool)  { p.printf("didEndDismissing(%t)", ok) }

// The change callbacks fire on every pan update; only offsets are printed.
func (p *eventPrinter) WillChangeMinimization() {}
func (p *eventPrinter) DidChangeMinimization()  {}
func (p *eventPrinter) WillChangeDismissing()   {}
func (p *eventPrinter) DidChangeDismissing()    {}

func (p *eventPrinter) OffsetChanged(v float64) {
	if p.verbose || v == 0 || v == 1 || v-p.last >= 0.25 || p.last-v >= 0.25 {
		p.printf("offset %.2f", v)
		p.last = v
	}
}
