package migrator

import (
	"context"
	"fmt"
	"sort"
)

// planned is a discovered unit whose version has been extracted.
type planned struct {
	Source
	new func() Unit
}

// collect runs every discoverer for namespace and returns the units of the given kind sorted by
// ascending version. Any identifier or duplicate version error is returned before the caller
// touches the database.
func (r *Runner) collect(ctx context.Context, namespace string, kind Kind) ([]*planned, error) {
	var units []*planned
	byVersion := make(map[int64]*planned)
	for _, d := range r.discoverers {
		descriptors, err := d.Discover(ctx, namespace, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to discover %ss in namespace %q: %w", kind, namespace, err)
		}
		for _, desc := range descriptors {
			if desc.New == nil {
				return nil, identifierError(kind, desc.ID, ErrNilFactory)
			}
			version, err := ParseVersion(kind, desc.ID)
			if err != nil {
				return nil, err
			}
			if existing, ok := byVersion[version]; ok {
				return nil, fmt.Errorf("found duplicate %s version %d:\n\texisting:%v\n\tcurrent:%v: %w",
					kind,
					version,
					existing.describe(),
					desc.ID,
					ErrDuplicateVersion,
				)
			}
			p := &planned{
				Source: Source{
					Kind:    kind,
					Type:    desc.Type,
					ID:      desc.ID,
					Path:    desc.Path,
					Version: version,
				},
				new: desc.New,
			}
			if p.Type == "" {
				p.Type = TypeGo
			}
			byVersion[version] = p
			units = append(units, p)
		}
	}
	sort.SliceStable(units, func(i, j int) bool {
		return units[i].Version < units[j].Version
	})
	if r.cfg.verbose {
		r.cfg.logger.Printf("migrator: discovered %d %s(s) in namespace %q", len(units), kind, namespace)
	}
	return units, nil
}

func (p *planned) describe() string {
	if p.Path != "" {
		return p.Path
	}
	return p.ID
}

// pending filters out units whose version is recorded in the ledger, preserving order.
func pending(units []*planned, applied []int64) []*planned {
	seen := make(map[int64]bool, len(applied))
	for _, v := range applied {
		seen[v] = true
	}
	var out []*planned
	for _, u := range units {
		if !seen[u.Version] {
			out = append(out, u)
		}
	}
	return out
}
