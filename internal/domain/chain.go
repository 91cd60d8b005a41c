package domain

// ComputeAvailability derives the statuses of an ordered chain. Items
// before the first incomplete item stay complete, the first incomplete
// item is available (or keeps in_progress), and everything after it is
// locked.
func ComputeAvailability(statuses []ItemStatus) []ItemStatus {
	out := make([]ItemStatus, len(statuses))
	frontier := -1
	for i, s := range statuses {
		if frontier >= 0 {
			out[i] = ItemLocked
			continue
		}
		if s == ItemComplete {
			out[i] = ItemComplete
			continue
		}
		frontier = i
		if s == ItemInProgress {
			out[i] = ItemInProgress
		} else {
			out[i] = ItemAvailable
		}
	}
	return out
}

// applyAvailability recomputes a sequential chain in place. Locked items
// lose any stale progress.
func applyAvailability(chain []Exercise) {
	statuses := make([]ItemStatus, len(chain))
	for i := range chain {
		statuses[i] = chain[i].Status
	}
	for i, s := range ComputeAvailability(statuses) {
		chain[i].Status = s
		switch s {
		case ItemLocked, ItemAvailable:
			chain[i].ProgressPct = 0
		case ItemComplete:
			chain[i].ProgressPct = 100
		}
	}
}

// normalizeOpen fills in defaults for unordered exercises: anything not
// explicitly started starts available.
func normalizeOpen(items []Exercise) {
	for i := range items {
		switch items[i].Status {
		case ItemComplete:
			items[i].ProgressPct = 100
		case ItemInProgress, ItemLocked:
		default:
			items[i].Status = ItemAvailable
			items[i].ProgressPct = 0
		}
	}
}
