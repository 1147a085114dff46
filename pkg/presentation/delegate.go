package presentation

// Delegate observes presentation transitions. Every transition is
// bracketed by a Will and a Did call.
type Delegate interface {
	WillPresent()
	DidPresent()
	WillDismiss()
	DidDismiss()

	WillChangeMinimization()
	DidChangeMinimization()
	WillEndMinimizing(minimized bool)
	DidEndMinimizing(minimized bool)

	WillChangeDismissing()
	DidChangeDismissing()
	WillEndDismissing(dismiss bool)
	DidEndDismissing(dismiss bool)

	// OffsetChanged reports swipe progress in [0, 1].
	OffsetChanged(p float64)
}

// Nop implements Delegate with no-op methods. Embed it to override a subset.
type Nop struct{}

func (Nop) WillPresent()            {}
func (Nop) DidPresent()             {}
func (Nop) WillDismiss()            {}
func (Nop) DidDismiss()             {}
func (Nop) WillChangeMinimization() {}
func (Nop) DidChangeMinimization()  {}
func (Nop) WillEndMinimizing(bool)  {}
func (Nop) DidEndMinimizing(bool)   {}
func (Nop) WillChangeDismissing()   {}
func (Nop) DidChangeDismissing()    {}
func (Nop) WillEndDismissing(bool)  {}
func (Nop) DidEndDismissing(bool)   {}
func (Nop) OffsetChanged(float64)   {}

// Content is the media side of a presented view.
type Content interface {
	HasPlayableMedia() bool
	// IsPlaying reports whether media is advancing.
	IsPlaying() bool
	// IsLoading reports whether playable media is waiting for data.
	IsLoading() bool
	// HasTitle reports whether a title is set for the top overlay.
	HasTitle() bool

	// Apply receives every appearance change, once per frame while animating.
	Apply(Appearance)
	// Presented runs after a presentation completes.
	Presented()
	// Dismissed runs after a dismissal completes and should reset media.
	Dismissed()
}

type nopContent struct{}

func (nopContent) HasPlayableMedia() bool { return false }
func (nopContent) IsPlaying() bool        { return false }
func (nopContent) IsLoading() bool        { return false }
func (nopContent) HasTitle() bool         { return false }
func (nopContent) Apply(Appearance)       {}
func (nopContent) Presented()             {}
func (nopContent) Dismissed()             {}
