// internal/events/sync.go
package events

// Entity types
const (
	EntitySource = "source"
	EntityItem   = "item"
)

// Event type constants
const (
	EventSyncStarted     = "sync.started"
	EventSyncCompleted   = "sync.completed"
	EventSyncFailed      = "sync.failed"
	EventSyncSkipped     = "sync.skipped"
	EventItemsChanged    = "catalog.items.changed"
	EventFavoriteChanged = "catalog.favorite.changed"
)

// SyncStarted is emitted when a sync pass begins for a provider source.
type SyncStarted struct {
	BaseEvent
	SourceName string `json:"source_name"`
	Forced     bool   `json:"forced,omitempty"`
}

// SyncCompleted is emitted after all sync batches for a source have
// been applied and the freshness marker updated.
type SyncCompleted struct {
	BaseEvent
	SourceName string `json:"source_name"`
	Inserted   int    `json:"inserted"`
	Updated    int    `json:"updated"`
	Deleted    int    `json:"deleted"`
	DurationMS int64  `json:"duration_ms"`
}

// SyncFailed is emitted when a sync pass aborts. The catalog keeps its
// previous contents and the source is retried on the next trigger.
type SyncFailed struct {
	BaseEvent
	SourceName string `json:"source_name"`
	Reason     string `json:"reason"`
}

// SyncSkipped is emitted when a trigger is ignored, either because the
// source is still fresh or a pass is already in flight.
type SyncSkipped struct {
	BaseEvent
	SourceName string `json:"source_name"`
	Reason     string `json:"reason"` // "fresh" or "in_flight"
}

// ItemsChanged is emitted once per applied sync pass that touched the
// catalog, so consumers can refresh without diffing themselves.
type ItemsChanged struct {
	BaseEvent
	SourceName string `json:"source_name"`
	Inserted   int    `json:"inserted"`
	Updated    int    `json:"updated"`
	Deleted    int    `json:"deleted"`
}

// FavoriteChanged is emitted when a user toggles an item's favorite flag.
type FavoriteChanged struct {
	BaseEvent
	URL      string `json:"url"`
	Favorite bool   `json:"favorite"`
}
