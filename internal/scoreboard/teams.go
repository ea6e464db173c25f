package scoreboard

import (
	"strings"
	"sync"
)

// TeamRegistry holds the set of known team labels. Labels are only removed
// wholesale via ReplaceAll; there is deliberately no single-label removal.
type TeamRegistry struct {
	labels []string // insertion order
	known  map[string]bool
	mu     sync.RWMutex
}

func NewTeamRegistry() *TeamRegistry {
	return &TeamRegistry{
		known: make(map[string]bool),
	}
}

// ReplaceAll swaps the entire label set for the sanitized input: labels are
// trimmed, empties dropped, duplicates collapsed to their first occurrence.
// Players already assigned to a label that disappears keep their assignment;
// the dangling reference is accepted, not repaired.
func (tr *TeamRegistry) ReplaceAll(labels []string) {
	sanitized := make([]string, 0, len(labels))
	known := make(map[string]bool, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" || known[label] {
			continue
		}
		known[label] = true
		sanitized = append(sanitized, label)
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.labels = sanitized
	tr.known = known
}

// AddIfAbsent registers a label if it is not already known. Blank labels are
// ignored.
func (tr *TeamRegistry) AddIfAbsent(label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.known[label] {
		return
	}
	tr.known[label] = true
	tr.labels = append(tr.labels, label)
}

func (tr *TeamRegistry) Contains(label string) bool {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.known[label]
}

// List returns the labels in insertion order.
func (tr *TeamRegistry) List() []string {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	labels := make([]string, len(tr.labels))
	copy(labels, tr.labels)
	return labels
}
