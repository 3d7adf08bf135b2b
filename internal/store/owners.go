package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"recipecost/models"
)

type ownerRow struct {
	OwnerID   uint
	OwnerName string
}

// ListOwners returns every distinct owner of materials or recipes. It backs
// the admin owner filter and is refused for everybody else.
func (s *Store) ListOwners(ctx context.Context, actor Identity) ([]Owner, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if !actor.Admin {
		return nil, ErrForbidden
	}
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[uint]string)
	for _, model := range []any{&models.Material{}, &models.Recipe{}} {
		var rows []ownerRow
		if err := db.Model(model).Distinct("owner_id", "owner_name").Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("list owners: %w", err)
		}
		for _, row := range rows {
			if strings.TrimSpace(names[row.OwnerID]) == "" {
				names[row.OwnerID] = strings.TrimSpace(row.OwnerName)
			}
		}
	}

	owners := make([]Owner, 0, len(names))
	for id, name := range names {
		if name == "" {
			name = fallbackOwnerName(id)
		}
		owners = append(owners, Owner{ID: id, Name: name})
	}
	sort.Slice(owners, func(i, j int) bool {
		if owners[i].Name == owners[j].Name {
			return owners[i].ID < owners[j].ID
		}
		return owners[i].Name < owners[j].Name
	})
	return owners, nil
}
