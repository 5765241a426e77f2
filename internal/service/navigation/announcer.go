package navigation

import "log"

// Announcer speaks navigation announcements. Speech output is an optional
// platform capability, so callers must check Available before relying on it.
type Announcer interface {
	Available() bool
	Speak(text string)
}

// NoopAnnouncer is the announcer used when no speech capability exists.
type NoopAnnouncer struct{}

func (NoopAnnouncer) Available() bool { return false }
func (NoopAnnouncer) Speak(string)    {}

// LogAnnouncer writes announcements to the service log. Stands in for a
// speech backend on headless deployments.
type LogAnnouncer struct{}

func (LogAnnouncer) Available() bool { return true }

func (LogAnnouncer) Speak(text string) {
	log.Printf("Voice: %s", text)
}
