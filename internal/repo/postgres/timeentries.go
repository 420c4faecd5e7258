package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/timeentries"
)

const entryColumns = `id, user_id, to_char(date, 'YYYY-MM-DD'), start_time, end_time,
       hours_worked::float8, project_id, description, created_at`

type EntryStore struct {
	s *Store
}

var _ timeentries.Store = (*EntryStore)(nil)

func scanEntry(row pgx.Row) (timeentries.Entry, error) {
	var e timeentries.Entry
	err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.StartTime, &e.EndTime,
		&e.HoursWorked, &e.ProjectID, &e.Description, &e.CreatedAt)
	return e, err
}

func (es *EntryStore) List(ctx context.Context) (list []timeentries.Entry, err error) {
	defer func(start time.Time) { es.s.observe("time_entries.list", start, err) }(time.Now())
	rows, err := es.s.DB.Query(ctx, `SELECT `+entryColumns+` FROM time_entries ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, classify("list time entries", err)
	}
	defer rows.Close()

	list = []timeentries.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, classify("scan time entry", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list time entries", err)
	}
	return list, nil
}

func (es *EntryStore) Get(ctx context.Context, id string) (e timeentries.Entry, err error) {
	defer func(start time.Time) { es.s.observe("time_entries.get", start, err) }(time.Now())
	e, err = scanEntry(es.s.DB.QueryRow(ctx, `SELECT `+entryColumns+` FROM time_entries WHERE id = $1`, id))
	if err != nil {
		return timeentries.Entry{}, classify("get time entry", err)
	}
	return e, nil
}

func (es *EntryStore) Create(ctx context.Context, entry timeentries.Entry) (created timeentries.Entry, err error) {
	defer func(start time.Time) { es.s.observe("time_entries.create", start, err) }(time.Now())
	created, err = scanEntry(es.s.DB.QueryRow(ctx, `
    INSERT INTO time_entries (id, user_id, date, start_time, end_time, hours_worked,
                              project_id, description, created_at)
    VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9)
    RETURNING `+entryColumns,
		entry.ID, entry.UserID, entry.Date, entry.StartTime, entry.EndTime, entry.HoursWorked,
		entry.ProjectID, entry.Description, entry.CreatedAt))
	if err != nil {
		return timeentries.Entry{}, classify("create time entry", err)
	}
	return created, nil
}

func (es *EntryStore) Update(ctx context.Context, id string, patch timeentries.Patch) (updated timeentries.Entry, err error) {
	defer func(start time.Time) { es.s.observe("time_entries.update", start, err) }(time.Now())
	updated, err = scanEntry(es.s.DB.QueryRow(ctx, `
    UPDATE time_entries SET
      date = COALESCE($2::date, date),
      start_time = COALESCE($3, start_time),
      end_time = COALESCE($4, end_time),
      hours_worked = COALESCE($5, hours_worked),
      project_id = COALESCE($6, project_id),
      description = COALESCE($7, description)
    WHERE id = $1
    RETURNING `+entryColumns,
		id, patch.Date, patch.StartTime, patch.EndTime, patch.HoursWorked, patch.ProjectID, patch.Description))
	if err != nil {
		return timeentries.Entry{}, classify("update time entry", err)
	}
	return updated, nil
}

func (es *EntryStore) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { es.s.observe("time_entries.delete", start, err) }(time.Now())
	tag, err := es.s.DB.Exec(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return classify("delete time entry", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
