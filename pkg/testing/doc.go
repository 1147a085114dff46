// Package testing provides fakes for exercising media views without a
// window system, a network or a media engine.
//
// # Time
//
// FakeClock drives an [animation.FrameLoop]. Advance the clock and step the
// loop to run animations and timers deterministically:
//
//	clk := mediatest.NewFakeClock()
//	loop := animation.NewFrameLoop(clk)
//	clk.Advance(300 * time.Millisecond)
//	loop.Step()
//
// # Playback
//
// FakePlayer is a scriptable player. Hand its Factory to the runtime, then
// move it through its states with BecomeReady, Tick, Emit and Fail:
//
//	player := mediatest.NewFakePlayer()
//	rt.Players = player.Factory()
//	player.BecomeReady(time.Minute)
//	player.Tick(10 * time.Second)
//
// FakeAudioSession records the audio categories applied on play and stop.
//
// # Fetching
//
// FakeFetcher serves canned payloads to the media cache:
//
//	fetcher := mediatest.NewFakeFetcher()
//	fetcher.Serve("https://example.com/a.png", "image/png", data)
//
// # Presentation
//
// RecordingDelegate, RecordingWindow and FakeContent stand in for the
// collaborators of a [presentation.Controller]. Swipe and
// SwipeWithoutRelease feed pan gestures to a controller.
package testing
