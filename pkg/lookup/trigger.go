package lookup

// Trigger decides which editor changes start a search. Restoring a saved
// query into the editor reports a change for text whose result is already on
// screen; that first echo is swallowed.
type Trigger struct {
	restored string
	armed    bool
}

// NewTrigger returns a Trigger for an editor that was preloaded with
// restored. An empty restored query arms it immediately.
func NewTrigger(restored string) *Trigger {
	return &Trigger{restored: restored, armed: restored == ""}
}

// Changed reports whether text should be submitted.
func (t *Trigger) Changed(text string) bool {
	if t.armed {
		return true
	}
	t.armed = true
	return text != t.restored
}
