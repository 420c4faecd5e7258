package local

import (
	"context"
	"sort"
	"time"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/projects"
)

type ProjectStore struct {
	s *Store
}

var _ projects.Store = (*ProjectStore)(nil)

func (ps *ProjectStore) List(ctx context.Context) (list []projects.Project, err error) {
	defer func(start time.Time) { ps.s.observe("projects.list", start, err) }(time.Now())
	list, err = loadList[projects.Project](ctx, ps.s.backend, projectsKey)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (ps *ProjectStore) Get(ctx context.Context, id string) (projects.Project, error) {
	list, err := ps.List(ctx)
	if err != nil {
		return projects.Project{}, err
	}
	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return projects.Project{}, apperr.ErrNotFound
}

func (ps *ProjectStore) Create(ctx context.Context, project projects.Project) (created projects.Project, err error) {
	defer func(start time.Time) { ps.s.observe("projects.create", start, err) }(time.Now())
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	list, err := loadList[projects.Project](ctx, ps.s.backend, projectsKey)
	if err != nil {
		return projects.Project{}, err
	}
	list = append(list, project)
	if err := saveList(ctx, ps.s.backend, projectsKey, list); err != nil {
		return projects.Project{}, err
	}
	return project, nil
}

func (ps *ProjectStore) Update(ctx context.Context, id string, patch projects.Patch) (updated projects.Project, err error) {
	defer func(start time.Time) { ps.s.observe("projects.update", start, err) }(time.Now())
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	list, err := loadList[projects.Project](ctx, ps.s.backend, projectsKey)
	if err != nil {
		return projects.Project{}, err
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		list[i] = patch.Apply(list[i])
		if err := saveList(ctx, ps.s.backend, projectsKey, list); err != nil {
			return projects.Project{}, err
		}
		return list[i], nil
	}
	return projects.Project{}, apperr.ErrNotFound
}
