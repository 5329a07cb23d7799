package protocol

import (
	"mapforge/internal/mapgen"
	"mapforge/pkg/maps"
)

// ==================== Map Payloads ====================

// GenerateMapPayload asks the server for a new map.
type GenerateMapPayload struct {
	Params mapgen.Params `json:"params"`
	Name   string        `json:"name,omitempty"`
	// Save stores the map so it can be fetched again by id.
	Save bool `json:"save,omitempty"`
}

// MapGeneratedPayload carries a freshly generated map.
type MapGeneratedPayload struct {
	Map       *maps.RawMap `json:"map"`
	Seed      uint64       `json:"seed"`
	Requested int          `json:"requested_generator"`
	Generator int          `json:"generator"`
	Fallbacks []int        `json:"fallbacks,omitempty"`
	Distance  int          `json:"start_distance"`
	Saved     bool         `json:"saved"`
}

// GetMapPayload requests a stored map.
type GetMapPayload struct {
	ID string `json:"id"`
}

// MapDataPayload returns a stored map with the settings that made it.
type MapDataPayload struct {
	Map    *maps.RawMap  `json:"map"`
	Params mapgen.Params `json:"params"`
}

// MapListPayload lists stored maps.
type MapListPayload struct {
	Maps []MapListItem `json:"maps"`
}

// MapListItem is one stored map in a listing.
type MapListItem struct {
	maps.MapInfo
	RequestedGenerator int   `json:"requested_generator"`
	CreatedAt          int64 `json:"created_at"`
}

// DeleteMapPayload removes a stored map.
type DeleteMapPayload struct {
	ID string `json:"id"`
}

// MapDeletedPayload confirms a deletion.
type MapDeletedPayload struct {
	ID string `json:"id"`
}

// ==================== System Payloads ====================

// WelcomePayload is sent on connection.
type WelcomePayload struct {
	ServerVersion string `json:"server_version"`
	Storage       bool   `json:"storage"`
}
