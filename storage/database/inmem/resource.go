package inmemdb

import (
	"context"

	"github.com/trezcool/studyhub/core/resource"
)

type resourceRepository struct {
	db map[resource.Category]*resourceTable
}

var _ resource.Repository = (*resourceRepository)(nil) // interface compliance check

func NewResourceRepository(db *DB) resource.Repository {
	return &resourceRepository{db: db.resource}
}

func (repo *resourceRepository) table(c resource.Category) (*resourceTable, error) {
	tbl, ok := repo.db[c]
	if !ok {
		_, err := resource.ParseCategory(string(c))
		return nil, err
	}
	return tbl, nil
}

func (tbl *resourceTable) index(id string) int {
	for i, r := range tbl.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (repo *resourceRepository) QueryResources(_ context.Context, c resource.Category) ([]resource.Resource, error) {
	tbl, err := repo.table(c)
	if err != nil {
		return nil, err
	}
	tbl.RLock()
	defer tbl.RUnlock()

	rs := make([]resource.Resource, len(tbl.rows))
	copy(rs, tbl.rows)
	return rs, nil
}

func (repo *resourceRepository) GetResource(_ context.Context, c resource.Category, id string) (resource.Resource, error) {
	tbl, err := repo.table(c)
	if err != nil {
		return resource.Resource{}, err
	}
	tbl.RLock()
	defer tbl.RUnlock()

	if i := tbl.index(id); i >= 0 {
		return tbl.rows[i], nil
	}
	return resource.Resource{}, resource.NotFoundError(id)
}

func (repo *resourceRepository) CreateResource(_ context.Context, c resource.Category, r resource.Resource) (resource.Resource, error) {
	tbl, err := repo.table(c)
	if err != nil {
		return resource.Resource{}, err
	}
	tbl.Lock()
	defer tbl.Unlock()

	if r.ID == "" {
		r.ID = tbl.next()
	} else {
		tbl.seen(r.ID)
	}
	r.Category = c
	tbl.rows = append(tbl.rows, r)
	return r, nil
}

func (repo *resourceRepository) IncrementStat(_ context.Context, c resource.Category, id string, act resource.Action) (resource.Resource, error) {
	tbl, err := repo.table(c)
	if err != nil {
		return resource.Resource{}, err
	}
	tbl.Lock()
	defer tbl.Unlock()

	i := tbl.index(id)
	if i < 0 {
		return resource.Resource{}, resource.NotFoundError(id)
	}
	if counter := tbl.rows[i].Stats.Counter(act); counter != nil {
		*counter++
	}
	return tbl.rows[i], nil
}

func (repo *resourceRepository) DeleteResource(_ context.Context, c resource.Category, id string) error {
	tbl, err := repo.table(c)
	if err != nil {
		return err
	}
	tbl.Lock()
	defer tbl.Unlock()

	i := tbl.index(id)
	if i < 0 {
		return resource.NotFoundError(id)
	}
	tbl.rows = append(tbl.rows[:i:i], tbl.rows[i+1:]...)
	return nil
}
