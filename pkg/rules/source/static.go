package source

import (
	"context"
	"fmt"

	"arbiter-hq/arbiter/pkg/rules"
)

// StaticSource serves a fixed set of groups from memory. Intended for
// tests and for embedding the engine with inline rules.
type StaticSource struct {
	groups map[string]*rules.Group
}

// NewStaticSource creates a static source from the given groups.
func NewStaticSource(groups ...*rules.Group) *StaticSource {
	m := make(map[string]*rules.Group, len(groups))
	for _, g := range groups {
		m[g.ID] = g
	}
	return &StaticSource{groups: m}
}

// FetchGroup returns the group with the given id, or ErrGroupNotFound.
func (s *StaticSource) FetchGroup(ctx context.Context, groupID string) (*rules.Group, error) {
	group, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	return group, nil
}
