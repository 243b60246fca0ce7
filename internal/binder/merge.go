package binder

// MergeCardsByPosition combines a freshly fetched remote card list with local
// edits that were never pushed. The remote list is the base; every local card
// is overlaid on top of it by position: a local card standing on the same
// position as a remote card replaces it, and local cards on free positions are
// appended. Local edits therefore always survive the merge.
func MergeCardsByPosition(remote, local []CardEntry) []CardEntry {
	merged := make([]CardEntry, len(remote))
	copy(merged, remote)

	for _, lc := range local {
		if i := CardAtPosition(merged, lc.Position); i >= 0 {
			merged[i] = lc
		} else {
			merged = append(merged, lc)
		}
	}
	return merged
}
