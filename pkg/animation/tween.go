package animation

import "github.com/go-drift/mediaview/pkg/graphics"

// Tween interpolates between Begin and End values based on animation progress.
type Tween[T any] struct {
	// Begin is the starting value (when t = 0).
	Begin T
	// End is the ending value (when t = 1).
	End T
	// Lerp interpolates between Begin and End at t in [0, 1].
	Lerp func(a, b T, t float64) T
}

// Evaluate returns the interpolated value at t.
func (tw Tween[T]) Evaluate(t float64) T {
	if tw.Lerp == nil {
		return tw.End
	}
	return tw.Lerp(tw.Begin, tw.End, t)
}

// TweenFloat64 creates a tween between two float64 values.
func TweenFloat64(begin, end float64) Tween[float64] {
	return Tween[float64]{Begin: begin, End: end, Lerp: graphics.Lerp}
}

// TweenRect creates a tween between two rectangles.
func TweenRect(begin, end graphics.Rect) Tween[graphics.Rect] {
	return Tween[graphics.Rect]{Begin: begin, End: end, Lerp: graphics.LerpRect}
}
