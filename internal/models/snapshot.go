package models

const SnapshotVersion = 1

// LedgerSnapshot is the persisted form of the in-memory repository.
type LedgerSnapshot struct {
	Version    int            `json:"version"`
	Characters []*Character   `json:"characters"`
	Records    []MiningRecord `json:"records"`
}
