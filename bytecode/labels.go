package bytecode

import "github.com/google/btree"

// LabelEntry is a label and the index it points at.
type LabelEntry struct {
	Name  string
	Index int
}

// Less orders labels by address, then by name.
func (e LabelEntry) Less(than btree.Item) bool {
	other := than.(LabelEntry)
	if e.Index != other.Index {
		return e.Index < other.Index
	}
	return e.Name < other.Name
}

// LabelIndex is an address-ordered view of a program's labels.
type LabelIndex struct {
	tree *btree.BTree
}

// IndexLabels builds the address-ordered view.
func IndexLabels(labels map[string]int) *LabelIndex {
	tree := btree.New(8)
	for name, idx := range labels {
		tree.ReplaceOrInsert(LabelEntry{Name: name, Index: idx})
	}
	return &LabelIndex{tree: tree}
}

// Len returns the number of labels.
func (l *LabelIndex) Len() int {
	return l.tree.Len()
}

// All returns the labels in address order.
func (l *LabelIndex) All() []LabelEntry {
	entries := make([]LabelEntry, 0, l.tree.Len())
	l.tree.Ascend(func(item btree.Item) bool {
		entries = append(entries, item.(LabelEntry))
		return true
	})
	return entries
}

// At returns the labels pointing at idx, in name order.
func (l *LabelIndex) At(idx int) []string {
	var names []string
	l.tree.AscendRange(LabelEntry{Index: idx}, LabelEntry{Index: idx + 1},
		func(item btree.Item) bool {
			names = append(names, item.(LabelEntry).Name)
			return true
		})
	return names
}
