// Package drill tracks the position in the category > sub-category > item
// hierarchy. Path values are immutable; every transition returns a new Path.
package drill

import (
	"errors"
	"fmt"
	"strings"
)

// MaxDepth is the leaf depth: category, sub-category and item all fixed.
const MaxDepth = 3

var (
	// ErrLeaf is returned when descending from the leaf state.
	ErrLeaf = errors.New("already at leaf level")
	// ErrRoot is returned when ascending from the root.
	ErrRoot = errors.New("already at root")
	// ErrDepth is returned for breadcrumb jumps outside the current path.
	ErrDepth = errors.New("depth out of range")
	// ErrEmptyValue is returned when descending into an empty name.
	ErrEmptyValue = errors.New("empty drill value")
)

// State names the navigation state for a path depth.
type State int

const (
	Root State = iota
	Level1
	Level2
	Leaf
)

func (s State) String() string {
	switch s {
	case Root:
		return "root"
	case Level1:
		return "level1"
	case Level2:
		return "level2"
	case Leaf:
		return "leaf"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Path is the ordered list of fixed hierarchy values. The zero value is root.
type Path struct {
	values []string
}

// New builds a path by descending through values in order.
func New(values ...string) (Path, error) {
	var p Path
	for _, v := range values {
		next, err := p.Descend(v)
		if err != nil {
			return Path{}, err
		}
		p = next
	}
	return p, nil
}

// Depth is the number of fixed levels.
func (p Path) Depth() int { return len(p.values) }

// State maps the depth onto Root, Level1, Level2 or Leaf.
func (p Path) State() State { return State(len(p.values)) }

// IsLeaf reports whether no further descent is possible.
func (p Path) IsLeaf() bool { return len(p.values) >= MaxDepth }

// Values returns a copy of the fixed values.
func (p Path) Values() []string { return append([]string(nil), p.values...) }

// Descend fixes one more level.
func (p Path) Descend(name string) (Path, error) {
	if p.IsLeaf() {
		return p, ErrLeaf
	}
	if name == "" {
		return p, ErrEmptyValue
	}
	next := make([]string, len(p.values), len(p.values)+1)
	copy(next, p.values)
	return Path{values: append(next, name)}, nil
}

// Ascend drops the last fixed level.
func (p Path) Ascend() (Path, error) {
	if len(p.values) == 0 {
		return p, ErrRoot
	}
	return Path{values: p.Values()[:len(p.values)-1]}, nil
}

// ResetToRoot clears the path.
func (p Path) ResetToRoot() Path { return Path{} }

// ResetToDepth truncates the path to k levels, for breadcrumb jumps.
func (p Path) ResetToDepth(k int) (Path, error) {
	if k < 0 || k > len(p.values) {
		return p, fmt.Errorf("reset to %d from depth %d: %w", k, len(p.values), ErrDepth)
	}
	return Path{values: p.Values()[:k]}, nil
}

// Crumb is one breadcrumb entry; jumping to it is ResetToDepth(Depth).
type Crumb struct {
	Depth int    `json:"depth" yaml:"depth"`
	Label string `json:"label" yaml:"label"`
}

// Breadcrumbs lists the root crumb followed by one crumb per fixed value.
func (p Path) Breadcrumbs() []Crumb {
	out := []Crumb{{Depth: 0, Label: "All"}}
	for i, v := range p.values {
		out = append(out, Crumb{Depth: i + 1, Label: v})
	}
	return out
}

func (p Path) String() string {
	labels := make([]string, 0, len(p.values)+1)
	for _, c := range p.Breadcrumbs() {
		labels = append(labels, c.Label)
	}
	return strings.Join(labels, " > ")
}
