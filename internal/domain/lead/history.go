package lead

import (
	"strings"
	"time"
)

// StatusNewLead is the initial status of every imported lead that names none.
const StatusNewLead = "New Lead"

const historyDateLayout = "2006-01-02"

// HistoryEntry formats one status history line.
func HistoryEntry(at time.Time, status string) string {
	return at.UTC().Format(historyDateLayout) + ": " + status
}

// AppendStatus adds an entry for next when it differs from prev. The returned flag
// reports whether history changed.
func AppendStatus(history, prev, next string, at time.Time) (string, bool) {
	if next == prev {
		return history, false
	}
	entry := HistoryEntry(at, next)
	if history == "" {
		return entry, true
	}
	return history + "\n" + entry, true
}

// LastStatus returns the status recorded by the final history line.
func LastStatus(history string) string {
	history = strings.TrimRight(history, "\n")
	if i := strings.LastIndexByte(history, '\n'); i >= 0 {
		history = history[i+1:]
	}
	if _, status, ok := strings.Cut(history, ": "); ok {
		return status
	}
	return ""
}
