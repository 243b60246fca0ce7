package binder

import "encoding/json"

// Preferences holds the per-binder display and layout settings.
type Preferences struct {
	GridSize         string `json:"gridSize"`
	PageCount        int    `json:"pageCount"`
	AutoSave         bool   `json:"autoSave"`
	SortBy           string `json:"sortBy"`
	SortDirection    string `json:"sortDirection"`
	ShowReverseHolos bool   `json:"showReverseHolos"`
	HideMissingCards bool   `json:"hideMissingCards"`
}

// DefaultPreferences returns the settings applied to a binder that has never
// been configured.
func DefaultPreferences() Preferences {
	return Preferences{
		GridSize:      "3x3",
		PageCount:     1,
		AutoSave:      true,
		SortBy:        "slot",
		SortDirection: "asc",
	}
}

// MergePreferences overlays a remote preferences payload onto local settings.
// Keys absent from the remote JSON keep their local values, which is what
// preserves locally-set preferences the server never echoed back. The remote
// payload wins for every key it carries.
func MergePreferences(local Preferences, remote json.RawMessage) (Preferences, error) {
	merged := local
	if len(remote) == 0 {
		return merged, nil
	}
	if err := json.Unmarshal(remote, &merged); err != nil {
		return local, err
	}
	return merged, nil
}
