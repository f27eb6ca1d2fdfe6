package controller

// Snapshot is a copy of the observable controller state, republished after every
// step of the loop. It is safe to read from any goroutine.
type Snapshot struct {
	State  State  `json:"state"`
	Target State  `json:"target"`
	Source string `json:"source,omitempty"`
	// Buffer is the buffered percentage, 0 without an engine and -1 before the first update.
	Buffer int `json:"buffer"`
	// Position and Duration are in milliseconds. Duration is -1 when unknown.
	Position int  `json:"position"`
	Duration int  `json:"duration"`
	Playing  bool `json:"playing"`
	CanPause bool `json:"can_pause"`
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	// PendingSeek is -1 when no seek is waiting.
	PendingSeek  int  `json:"pending_seek"`
	SurfaceAlive bool `json:"surface_alive"`
}

var initialSnapshot = Snapshot{Duration: -1, PendingSeek: -1}

// Progress returns the played fraction in [0, 1], or 0 while the duration is unknown.
func (s Snapshot) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return min(float64(s.Position)/float64(s.Duration), 1)
}
