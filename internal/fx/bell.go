// Package fx holds the effect collaborators the engine notifies on
// flips, matches, and victory: a terminal bell for audio and a spark
// overlay for particles. Both are fire-and-forget; neither can fail in a
// way the game should notice.
package fx

import "io"

// Bell is the audio collaborator. It writes the terminal bell byte to
// the writer it was given, as much sound as a terminal can make.
type Bell struct {
	w     io.Writer
	muted bool
}

// NewBell creates a bell writing to w, typically os.Stdout.
func NewBell(w io.Writer, muted bool) *Bell {
	return &Bell{w: w, muted: muted}
}

// Flip is intentionally silent. A bell on every flip turns a quiet
// puzzle into a fire alarm; the match and victory cues carry the
// feedback.
func (b *Bell) Flip() {}

// Match rings once for a successful match.
func (b *Bell) Match() {
	b.ring(1)
}

// Victory rings twice when the board is cleared.
func (b *Bell) Victory() {
	b.ring(2)
}

// SetMuted switches the bell off or on.
func (b *Bell) SetMuted(muted bool) {
	b.muted = muted
}

// Muted reports whether the bell is off.
func (b *Bell) Muted() bool {
	return b.muted
}

func (b *Bell) ring(n int) {
	if b.muted || b.w == nil {
		return
	}
	for i := 0; i < n; i++ {
		// A failed write is silence, which is fine for a bell.
		_, _ = b.w.Write([]byte{'\a'})
	}
}
