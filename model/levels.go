// SPDX-License-Identifier: MIT

package model

// LevelIndex maps level labels to dense column indices in order of first
// appearance.
type LevelIndex struct {
	index map[string]int
	keys  []string
}

// NewLevelIndex returns an empty index.
func NewLevelIndex() *LevelIndex {
	return &LevelIndex{index: make(map[string]int)}
}

// LookupOrInsert returns the column of label, assigning the next one on first sight.
func (l *LevelIndex) LookupOrInsert(label string) int {
	if j, ok := l.index[label]; ok {
		return j
	}
	j := len(l.keys)
	l.index[label] = j
	l.keys = append(l.keys, label)

	return j
}

// Lookup returns the column of label without inserting.
func (l *LevelIndex) Lookup(label string) (int, bool) {
	j, ok := l.index[label]
	return j, ok
}

// Keys returns labels in column order.
func (l *LevelIndex) Keys() []string {
	out := make([]string, len(l.keys))
	copy(out, l.keys)

	return out
}

// Len returns the number of distinct labels.
func (l *LevelIndex) Len() int { return len(l.keys) }
