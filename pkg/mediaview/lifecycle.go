package mediaview

// LifecycleState is the app lifecycle state reported by the host.
type LifecycleState string

const (
	// LifecycleResumed means the app is visible and receiving input.
	LifecycleResumed LifecycleState = "resumed"
	// LifecycleInactive means the app is transitioning, for example behind a system dialog.
	LifecycleInactive LifecycleState = "inactive"
	// LifecyclePaused means the app is in the background.
	LifecyclePaused LifecycleState = "paused"
	// LifecycleDetached means the app is running without a window.
	LifecycleDetached LifecycleState = "detached"
)

// HandleLifecycle pauses playing media when the app goes to the background
// and lays the view out again when it comes back.
func (v *View) HandleLifecycle(state LifecycleState) {
	if v.closed {
		return
	}
	switch state {
	case LifecyclePaused, LifecycleDetached:
		if v.session != nil && v.session.IsPlaying() {
			v.session.Pause()
		}
	case LifecycleResumed:
		v.SetScreen(v.rt.screen)
	}
}

// EnterBackground pauses playing media.
func (v *View) EnterBackground() { v.HandleLifecycle(LifecyclePaused) }

// EnterForeground lays the view out again for the current screen.
func (v *View) EnterForeground() { v.HandleLifecycle(LifecycleResumed) }
