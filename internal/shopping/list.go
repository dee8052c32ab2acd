package shopping

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// List is an ordered shopping list persisted to a line-oriented UTF-8 text
// file, one item per line. Every mutation is written through to disk
// immediately; nothing is buffered.
type List struct {
	path  string
	items []string
}

// MatchPair records that a requested item matched an existing list entry.
type MatchPair struct {
	Requested string `json:"requested"`
	Existing  string `json:"existing"`
}

// LoadList reads the shopping list from path. A missing file yields an empty
// list; blank lines are ignored.
func LoadList(path string) (*List, error) {
	l := &List{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("failed to read shopping list: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			l.items = append(l.items, line)
		}
	}
	return l, nil
}

// Items returns a copy of the current list in order.
func (l *List) Items() []string {
	return append([]string(nil), l.items...)
}

// Add appends items not already present verbatim and returns the ones actually
// added. Exact duplicates are silently skipped.
func (l *List) Add(items []string) ([]string, error) {
	added := []string{}
	for _, item := range items {
		if l.containsExact(item) {
			continue
		}
		l.items = append(l.items, item)
		added = append(added, item)
	}
	if err := l.save(); err != nil {
		return nil, err
	}
	return added, nil
}

// Remove deletes items present verbatim and returns the ones actually removed.
// Unknown items are ignored.
func (l *List) Remove(items []string) ([]string, error) {
	removed := []string{}
	for _, item := range items {
		for i, existing := range l.items {
			if existing == item {
				l.items = append(l.items[:i], l.items[i+1:]...)
				removed = append(removed, item)
				break
			}
		}
	}
	if err := l.save(); err != nil {
		return nil, err
	}
	return removed, nil
}

// UpdateQuantity finds an entry matching item (substring rule) and replaces it
// with "<newQuantity> <item>". Without a match the combined entry is appended
// instead. The returned flag reports whether an existing entry was replaced.
func (l *List) UpdateQuantity(item, newQuantity string) (string, bool, error) {
	entry := fmt.Sprintf("%s %s", newQuantity, item)

	for i, existing := range l.items {
		if Matches(item, existing) {
			l.items = append(l.items[:i], l.items[i+1:]...)
			l.items = append(l.items, entry)
			if err := l.save(); err != nil {
				return "", false, err
			}
			return fmt.Sprintf("%s -> %s", existing, entry), true, nil
		}
	}

	l.items = append(l.items, entry)
	if err := l.save(); err != nil {
		return "", false, err
	}
	return entry, false, nil
}

// CheckExists matches each input item against the list (substring rule) and
// splits them into matched pairs and unmatched items.
func (l *List) CheckExists(items []string) ([]MatchPair, []string) {
	existing := []MatchPair{}
	missing := []string{}

	for _, item := range items {
		found := false
		for _, entry := range l.items {
			if Matches(item, entry) {
				existing = append(existing, MatchPair{Requested: item, Existing: entry})
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, item)
		}
	}
	return existing, missing
}

// Clear empties the list.
func (l *List) Clear() error {
	l.items = nil
	return l.save()
}

func (l *List) containsExact(item string) bool {
	for _, existing := range l.items {
		if existing == item {
			return true
		}
	}
	return false
}

// save writes the whole list back to disk, one item per line.
func (l *List) save() error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create shopping list directory: %w", err)
		}
	}

	var b strings.Builder
	for _, item := range l.items {
		b.WriteString(item)
		b.WriteString("\n")
	}

	if err := os.WriteFile(l.path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to save shopping list: %w", err)
	}
	return nil
}
