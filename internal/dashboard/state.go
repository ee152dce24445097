// Package dashboard holds the explicit navigation state of a drill-down session
// and turns it into a renderable View. A State is a value: every transition
// returns a new State and leaves the receiver unchanged.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/drilldown-cli/internal/aggregate"
	"github.com/KaramelBytes/drilldown-cli/internal/dataset"
	"github.com/KaramelBytes/drilldown-cli/internal/drill"
	"github.com/KaramelBytes/drilldown-cli/internal/encode"
)

// UnknownMetricError is returned when selecting a metric the catalog lacks.
type UnknownMetricError struct {
	Name      string
	Available []string
}

func (e *UnknownMetricError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown metric %q (dataset has no metrics)", e.Name)
	}
	return fmt.Sprintf("unknown metric %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// UnknownBucketError is returned when descending into a name that is not a
// bucket at the current level.
type UnknownBucketError struct {
	Name  string
	Field dataset.Field
}

func (e *UnknownBucketError) Error() string {
	return fmt.Sprintf("no %s named %q at this level", e.Field, e.Name)
}

// State is the full navigation state: dataset, drill path and selected metric.
type State struct {
	ds     *dataset.Dataset
	path   drill.Path
	metric string
	scheme encode.Scheme
}

// New starts a session at the root. If preferred is not in the catalog the
// first catalog metric is selected; an empty catalog selects nothing.
func New(ds *dataset.Dataset, preferred string, scheme encode.Scheme) State {
	if ds == nil {
		ds = dataset.Load("", nil)
	}
	return State{ds: ds, metric: pickMetric(ds.Catalog, preferred), scheme: scheme.WithDefaults()}
}

func pickMetric(cat dataset.Catalog, preferred string) string {
	if cat.Has(preferred) {
		return preferred
	}
	if names := cat.Names(); len(names) > 0 {
		return names[0]
	}
	return ""
}

func (s State) Dataset() *dataset.Dataset { return s.ds }
func (s State) Path() drill.Path          { return s.path }
func (s State) Metric() string            { return s.metric }

// SelectMetric switches the colored metric. Unknown names leave s unchanged.
func (s State) SelectMetric(name string) (State, error) {
	if !s.ds.Catalog.Has(name) {
		return s, &UnknownMetricError{Name: name, Available: s.ds.Catalog.Names()}
	}
	s.metric = name
	return s, nil
}

// Load replaces the dataset and returns to the root. The current metric is
// kept when the new catalog still has it.
func (s State) Load(ds *dataset.Dataset) State {
	return New(ds, s.metric, s.scheme)
}

// Descend moves one level down into a bucket visible at the current level.
func (s State) Descend(name string) (State, error) {
	if s.path.IsLeaf() {
		return s, drill.ErrLeaf
	}
	res := s.aggregate()
	found := false
	for _, b := range res.Buckets {
		if b.Name == name {
			found = true
			break
		}
	}
	if !found {
		if name == "" {
			return s, drill.ErrEmptyValue
		}
		return s, &UnknownBucketError{Name: name, Field: res.Field}
	}
	next, err := s.path.Descend(name)
	if err != nil {
		return s, err
	}
	s.path = next
	return s, nil
}

// Goto descends from the root through values, validating each step.
func (s State) Goto(values ...string) (State, error) {
	next := s.ResetToRoot()
	for _, v := range values {
		var err error
		next, err = next.Descend(v)
		if err != nil {
			return s, err
		}
	}
	return next, nil
}

func (s State) Ascend() (State, error) {
	p, err := s.path.Ascend()
	if err != nil {
		return s, err
	}
	s.path = p
	return s, nil
}

func (s State) ResetToRoot() State {
	s.path = s.path.ResetToRoot()
	return s
}

// ResetToDepth truncates the path to its first k values (breadcrumb jump).
func (s State) ResetToDepth(k int) (State, error) {
	p, err := s.path.ResetToDepth(k)
	if err != nil {
		return s, err
	}
	s.path = p
	return s, nil
}

func (s State) aggregate() aggregate.Result {
	return aggregate.Aggregate(s.ds.Rows, s.path.Values(), s.ds.Catalog)
}
