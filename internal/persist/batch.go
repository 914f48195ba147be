package persist

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
)

// Batch is a materialised selection waiting to be saved.
type Batch struct {
	ID    string
	Items []names.Item
	Hash  string
}

// NewBatch copies items into a batch with a fresh id and its content hash.
func NewBatch(items []names.Item) Batch {
	return Batch{
		ID:    uuid.NewString(),
		Items: names.CloneAll(items),
		Hash:  ContentHash(items),
	}
}

// IDs returns the ids of the batch items in batch order.
func (b Batch) IDs() []names.ID {
	ids := make([]names.ID, len(b.Items))
	for i, it := range b.Items {
		ids[i] = it.ID
	}
	return ids
}

// ContentHash fingerprints a selection by its sorted id:name pairs, so the
// same names selected in any order hash alike and a rename changes the hash.
func ContentHash(items []names.Item) string {
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = string(it.ID) + ":" + it.Name
	}
	slices.Sort(keys)
	sum := xxhash.Sum64String(strings.Join(keys, "\x1f"))
	return strconv.FormatUint(sum, 16)
}
