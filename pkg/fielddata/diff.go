package fielddata

import (
	"sort"
)

// Change holds both sides of a modified field.
type Change struct {
	Old Value `json:"old"`
	New Value `json:"new"`
}

// DiffResult partitions the top-level fields of two mappings into four sets.
// Every field of either side lands in exactly one partition.
type DiffResult struct {
	Added     map[string]Value  `json:"added"`
	Removed   map[string]Value  `json:"removed"`
	Changed   map[string]Change `json:"changed"`
	Unchanged map[string]Value  `json:"unchanged"`
}

// IsEmpty reports whether the two sides were structurally identical.
func (d DiffResult) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// ChangedFields lists the keys that differ, sorted, across added, removed and
// changed partitions.
func (d DiffResult) ChangedFields() []string {
	fields := make([]string, 0, len(d.Added)+len(d.Removed)+len(d.Changed))
	for key := range d.Added {
		fields = append(fields, key)
	}
	for key := range d.Removed {
		fields = append(fields, key)
	}
	for key := range d.Changed {
		fields = append(fields, key)
	}
	sort.Strings(fields)
	return fields
}

// Diff compares two mapping values field by field. Non-mapping inputs are
// treated as empty mappings, so diffing against a null old side reports every
// new field as added.
func Diff(old, new Value) DiffResult {
	result := DiffResult{
		Added:     map[string]Value{},
		Removed:   map[string]Value{},
		Changed:   map[string]Change{},
		Unchanged: map[string]Value{},
	}

	oldFields := old.MappingValue()
	newFields := new.MappingValue()

	for key, ov := range oldFields {
		nv, ok := newFields[key]
		switch {
		case !ok:
			result.Removed[key] = ov
		case DeepEqual(ov, nv):
			result.Unchanged[key] = nv
		default:
			result.Changed[key] = Change{Old: ov, New: nv}
		}
	}
	for key, nv := range newFields {
		if _, ok := oldFields[key]; !ok {
			result.Added[key] = nv
		}
	}
	return result
}
