// Package track models the scrub bar shown under playable media: progress
// and buffer widths, the elapsed and total labels, tap or drag to seek, and
// the timer that collapses the bar after the user stops touching it.
package track

import (
	"fmt"
	"math"
	"time"

	"github.com/go-drift/mediaview/pkg/animation"
	"github.com/go-drift/mediaview/pkg/graphics"
)

const (
	// CollapsedHeight is the bar height while idle.
	CollapsedHeight = 2.0
	// ExpandedHeight is the bar height while the user is scrubbing.
	ExpandedHeight = 6.0

	// AutoCollapseDelay is how long the bar stays expanded after the last touch.
	AutoCollapseDelay = 1500 * time.Millisecond
	// SeekArmDelay is how long after expanding the bar starts accepting seeks.
	SeekArmDelay = 300 * time.Millisecond

	expandDuration   = 200 * time.Millisecond
	collapseDuration = 400 * time.Millisecond

	// endMargin keeps the bar from reaching the end before the last frame.
	endMargin = 0.5
)

// Controller holds the state of one scrub bar. It is not safe for
// concurrent use; drive it from the UI thread.
//
// Set OnSeek and OnChange before the first touch.
type Controller struct {
	// OnSeek is called with the position the user scrubbed to.
	OnSeek func(pos time.Duration)
	// OnChange is called whenever something visible changes.
	OnChange func()

	// ShowRemaining shows the remaining time on the right label instead
	// of the total.
	ShowRemaining bool
	// Color fills the progress bar.
	Color graphics.Color

	loop     *animation.FrameLoop
	height   *animation.Controller
	labels   *animation.Controller
	barWidth float64

	progress float64
	buffer   float64
	duration float64

	expanded       bool
	armed          bool
	cancelCollapse func()
	cancelArm      func()
}

// New returns a collapsed controller for a bar of the given width.
func New(loop *animation.FrameLoop, barWidth float64) *Controller {
	c := &Controller{
		Color:    graphics.ColorCyan,
		loop:     loop,
		height:   animation.NewController(loop),
		labels:   animation.NewController(loop),
		barWidth: math.Max(0, barWidth),
	}
	c.height.Value = CollapsedHeight
	c.height.AddListener(func(float64) { c.changed() })
	c.labels.AddListener(func(float64) { c.changed() })
	return c
}

func (c *Controller) changed() {
	if c.OnChange != nil {
		c.OnChange()
	}
}

// SetBarWidth updates the bar width after a layout change.
func (c *Controller) SetBarWidth(w float64) {
	c.barWidth = math.Max(0, w)
	c.changed()
}

// BarWidth returns the full bar width.
func (c *Controller) BarWidth() float64 { return c.barWidth }

// SetProgress records the elapsed position and the duration.
func (c *Controller) SetProgress(pos, dur time.Duration) {
	if pos >= 0 {
		c.progress = pos.Seconds()
	}
	if dur >= 0 {
		c.duration = dur.Seconds()
	}
	c.changed()
}

// SetBuffer records the buffered extent and the duration.
func (c *Controller) SetBuffer(buffered, dur time.Duration) {
	if buffered >= 0 {
		c.buffer = buffered.Seconds()
	}
	if dur >= 0 {
		c.duration = dur.Seconds()
	}
	c.changed()
}

// Reset zeroes progress, buffer and duration.
func (c *Controller) Reset() {
	c.progress, c.buffer, c.duration = 0, 0, 0
	c.changed()
}

// Progress returns the elapsed position.
func (c *Controller) Progress() time.Duration { return seconds(c.progress) }

// Buffer returns the buffered extent.
func (c *Controller) Buffer() time.Duration { return seconds(c.buffer) }

// Duration returns the media duration.
func (c *Controller) Duration() time.Duration { return seconds(c.duration) }

// ProgressWidth is the width of the filled part of the bar.
func (c *Controller) ProgressWidth() float64 {
	return FillWidth(c.progress, c.duration, c.barWidth)
}

// BufferWidth is the width of the buffered part of the bar.
func (c *Controller) BufferWidth() float64 {
	return FillWidth(c.buffer, c.duration, c.barWidth)
}

// FillWidth maps t seconds of d onto a bar barWidth wide. The last half
// second of the media maps to the full width.
func FillWidth(t, d, barWidth float64) float64 {
	if !(t > 0) || !(d-endMargin > 0) {
		return 0
	}
	return graphics.Clamp(t/(d-endMargin)*barWidth, 0, barWidth)
}

// Height returns the current, possibly animating, bar height.
func (c *Controller) Height() float64 { return c.height.Value }

// LabelAlpha is the opacity of the time labels.
func (c *Controller) LabelAlpha() float64 { return c.labels.Value }

// Expanded reports whether the bar is expanded or expanding.
func (c *Controller) Expanded() bool { return c.expanded }

// CanSeek reports whether touches currently seek.
func (c *Controller) CanSeek() bool { return c.expanded && c.armed }

// ElapsedLabel is the left label text.
func (c *Controller) ElapsedLabel() string { return FormatSeconds(c.progress) }

// TotalLabel is the right label text: the total, or the remaining time when
// ShowRemaining is set and the duration has not been overrun.
func (c *Controller) TotalLabel() string {
	if !c.ShowRemaining || c.duration < c.progress {
		return FormatSeconds(c.duration)
	}
	return FormatSeconds(c.duration - c.progress)
}

// Tap handles a tap at x along the bar.
func (c *Controller) Tap(x float64) {
	c.touch(x)
	c.scheduleCollapse()
}

// DragBegan handles the start of a scrub at x.
func (c *Controller) DragBegan(x float64) {
	c.touch(x)
}

// DragChanged seeks to x while the bar is expanded.
func (c *Controller) DragChanged(x float64) {
	if !c.expanded {
		return
	}
	c.seek(x)
}

// DragEnded restarts the collapse timer.
func (c *Controller) DragEnded() {
	c.scheduleCollapse()
}

// Collapse cancels the timer and collapses the bar now.
func (c *Controller) Collapse() {
	c.cancelTimers()
	c.setExpanded(false)
}

// Dispose stops all timers and animations.
func (c *Controller) Dispose() {
	c.cancelTimers()
	c.height.Dispose()
	c.labels.Dispose()
}

func (c *Controller) touch(x float64) {
	if c.expanded {
		c.seek(x)
	} else {
		c.setExpanded(true)
	}
	if c.cancelCollapse != nil {
		c.cancelCollapse()
		c.cancelCollapse = nil
	}
}

func (c *Controller) seek(x float64) {
	if !c.armed || c.barWidth <= 0 || x < 0 || x >= c.barWidth {
		return
	}
	ratio := x / c.barWidth
	if c.OnSeek != nil {
		c.OnSeek(seconds(ratio * c.duration))
	}
}

func (c *Controller) scheduleCollapse() {
	if c.cancelCollapse != nil {
		c.cancelCollapse()
	}
	c.cancelCollapse = c.loop.After(AutoCollapseDelay, func() {
		c.cancelCollapse = nil
		c.setExpanded(false)
	})
}

func (c *Controller) cancelTimers() {
	if c.cancelCollapse != nil {
		c.cancelCollapse()
		c.cancelCollapse = nil
	}
	if c.cancelArm != nil {
		c.cancelArm()
		c.cancelArm = nil
	}
}

func (c *Controller) setExpanded(expanded bool) {
	if c.cancelArm != nil {
		c.cancelArm()
		c.cancelArm = nil
	}
	c.expanded = expanded
	c.armed = false

	if expanded {
		c.height.AnimateTo(ExpandedHeight, expandDuration, animation.EaseOut, nil)
		c.labels.AnimateTo(1, expandDuration, animation.EaseOut, nil)
		c.cancelArm = c.loop.After(SeekArmDelay, func() {
			c.cancelArm = nil
			c.armed = c.expanded
		})
	} else {
		c.height.AnimateTo(CollapsedHeight, collapseDuration, animation.EaseOut, nil)
		c.labels.AnimateTo(0, collapseDuration, animation.EaseOut, nil)
	}
	c.changed()
}

// FormatSeconds renders s as m:ss. Non-finite values render as 0:00.
func FormatSeconds(s float64) string {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return "0:00"
	}
	minutes := int(s / 60)
	secs := int(s) % 60
	if secs < 0 {
		secs = -secs
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// Format renders d as m:ss.
func Format(d time.Duration) string {
	return FormatSeconds(d.Seconds())
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
