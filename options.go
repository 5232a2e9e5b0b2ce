package queuectl

import (
	"github.com/Pavitra-A/queuectl/core"
)

// Options holds the components of a pre-wired engine. Nil fields fall back
// to defaults: SQLite store, no-op statistics, no event publishing.
type Options struct {
	Store         core.Store
	Statistics    core.Statistics
	Publisher     core.Publisher
	EngineOptions []core.EngineOption
}

// DefaultOptions returns empty options; New fills the defaults
func DefaultOptions() Options {
	return Options{}
}
