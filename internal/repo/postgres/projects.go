package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"worklog/internal/domain/projects"
)

const projectColumns = `id, name, is_active, created_at`

type ProjectStore struct {
	s *Store
}

var _ projects.Store = (*ProjectStore)(nil)

func scanProject(row pgx.Row) (projects.Project, error) {
	var p projects.Project
	err := row.Scan(&p.ID, &p.Name, &p.IsActive, &p.CreatedAt)
	return p, err
}

func (ps *ProjectStore) List(ctx context.Context) (list []projects.Project, err error) {
	defer func(start time.Time) { ps.s.observe("projects.list", start, err) }(time.Now())
	rows, err := ps.s.DB.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, classify("list projects", err)
	}
	defer rows.Close()

	list = []projects.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, classify("scan project", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list projects", err)
	}
	return list, nil
}

func (ps *ProjectStore) Get(ctx context.Context, id string) (p projects.Project, err error) {
	defer func(start time.Time) { ps.s.observe("projects.get", start, err) }(time.Now())
	p, err = scanProject(ps.s.DB.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		return projects.Project{}, classify("get project", err)
	}
	return p, nil
}

func (ps *ProjectStore) Create(ctx context.Context, project projects.Project) (created projects.Project, err error) {
	defer func(start time.Time) { ps.s.observe("projects.create", start, err) }(time.Now())
	created, err = scanProject(ps.s.DB.QueryRow(ctx, `
    INSERT INTO projects (id, name, is_active, created_at)
    VALUES ($1, $2, $3, $4)
    RETURNING `+projectColumns,
		project.ID, project.Name, project.IsActive, project.CreatedAt))
	if err != nil {
		return projects.Project{}, classify("create project", err)
	}
	return created, nil
}

func (ps *ProjectStore) Update(ctx context.Context, id string, patch projects.Patch) (updated projects.Project, err error) {
	defer func(start time.Time) { ps.s.observe("projects.update", start, err) }(time.Now())
	updated, err = scanProject(ps.s.DB.QueryRow(ctx, `
    UPDATE projects SET
      name = COALESCE($2, name),
      is_active = COALESCE($3, is_active)
    WHERE id = $1
    RETURNING `+projectColumns,
		id, patch.Name, patch.IsActive))
	if err != nil {
		return projects.Project{}, classify("update project", err)
	}
	return updated, nil
}
