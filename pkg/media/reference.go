package media

import "image"

// Reference is what a view currently shows: source locations plus any
// already-resolved handles. A view holds at most one playable source.
type Reference struct {
	ImageURL string
	GIFURL   string
	GIFData  []byte
	videoURL string
	audioURL string

	// Image is the decoded still or thumbnail.
	Image image.Image
	// Animation is the decoded GIF.
	Animation *Animation
	// PlayablePath is a local file for the playable source, once cached.
	PlayablePath string
}

// VideoURL returns the video source, if any.
func (r *Reference) VideoURL() string { return r.videoURL }

// AudioURL returns the audio source, if any.
func (r *Reference) AudioURL() string { return r.audioURL }

// SetVideo makes url the playable source and drops any audio source.
func (r *Reference) SetVideo(url string) {
	r.videoURL = url
	r.audioURL = ""
	r.PlayablePath = ""
}

// SetAudio makes url the playable source and drops any video source.
func (r *Reference) SetAudio(url string) {
	r.audioURL = url
	r.videoURL = ""
	r.PlayablePath = ""
}

// HasVideo reports whether a video source is set.
func (r *Reference) HasVideo() bool { return r.videoURL != "" }

// HasAudio reports whether an audio source is set.
func (r *Reference) HasAudio() bool { return r.audioURL != "" }

// HasPlayableMedia reports whether a video or audio source is set.
func (r *Reference) HasPlayableMedia() bool { return r.HasVideo() || r.HasAudio() }

// HasGIF reports whether a GIF source or decoded GIF is present.
func (r *Reference) HasGIF() bool {
	return r.GIFURL != "" || len(r.GIFData) > 0 || r.Animation != nil
}

// Playable returns the playable source and its kind.
func (r *Reference) Playable() (string, Kind, bool) {
	switch {
	case r.videoURL != "":
		return r.videoURL, Video, true
	case r.audioURL != "":
		return r.audioURL, Audio, true
	}
	return "", 0, false
}

// Reset clears every field.
func (r *Reference) Reset() {
	*r = Reference{}
}
