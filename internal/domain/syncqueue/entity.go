// internal/domain/syncqueue/entity.go
package syncqueue

import (
	"sort"
	"strings"
	"time"

	"bloomstead/internal/domain/product"
)

// Entry is one pending inventory update awaiting remote confirmation.
// Invariant: at most one entry per ProductID — a newer update for the same
// product replaces any queued one (latest write wins).
type Entry struct {
	ProductID string              `json:"productId"`
	Patch     product.LedgerPatch `json:"patch"`
	QueuedAt  time.Time           `json:"queuedAt"`
}

// Merge applies latest-write-wins replacement of e into entries and returns
// the result in stable ProductID order. Used by in-memory tests and by any
// store implementation that does not get the one-slot-per-product property
// structurally from its primary key.
func Merge(entries []Entry, e Entry) []Entry {
	id := strings.TrimSpace(e.ProductID)
	if id == "" {
		return entries
	}
	e.ProductID = id

	out := make([]Entry, 0, len(entries)+1)
	for _, cur := range entries {
		if cur.ProductID == id {
			continue
		}
		out = append(out, cur)
	}
	out = append(out, e)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
