package runner

import "fmt"

// Phase is where a run currently is. Phases only move forward.
type Phase int

const (
	Idle Phase = iota
	Scraping
	Deduplicating
	Filtering
	Selecting
	ProcessingBatch
	Complete
)

var phaseNames = [...]string{"Idle", "Scraping", "Deduplicating", "Filtering", "Selecting", "ProcessingBatch", "Complete"}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}
