// Package match builds normalized-key indexes over record collections
// and detects duplicate groups within one platform.
package match

import "github.com/sells-group/crm-reconcile/internal/model"

// KeyFunc computes a normalized comparison key for a record. The second
// return is false when the record yields no key and must be skipped for
// this key only.
type KeyFunc func(model.Record) (string, bool)

// Index maps a normalized key to the records sharing it. Bucket members
// and key iteration both preserve source-collection encounter order, so
// construction is deterministic given deterministic input order.
type Index struct {
	buckets map[string][]model.Record
	keys    []string
}

// BuildIndex indexes a collection in one pass, skipping records that
// yield no key.
func BuildIndex(records []model.Record, key KeyFunc) *Index {
	ix := &Index{buckets: make(map[string][]model.Record, len(records))}
	for _, r := range records {
		k, ok := key(r)
		if !ok {
			continue
		}
		if _, seen := ix.buckets[k]; !seen {
			ix.keys = append(ix.keys, k)
		}
		ix.buckets[k] = append(ix.buckets[k], r)
	}
	return ix
}

// Keys returns every key in first-encounter order.
func (ix *Index) Keys() []string { return ix.keys }

// Bucket returns the records indexed under key, or nil.
func (ix *Index) Bucket(key string) []model.Record { return ix.buckets[key] }

// Has reports whether any record produced the given key.
func (ix *Index) Has(key string) bool {
	_, ok := ix.buckets[key]
	return ok
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int { return len(ix.keys) }

// DuplicateKeys returns, in first-encounter order, every key whose
// bucket holds more than one record.
func (ix *Index) DuplicateKeys() []string {
	var dups []string
	for _, k := range ix.keys {
		if len(ix.buckets[k]) > 1 {
			dups = append(dups, k)
		}
	}
	return dups
}
