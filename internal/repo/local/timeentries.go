package local

import (
	"context"
	"time"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/timeentries"
)

type EntryStore struct {
	s *Store
}

var _ timeentries.Store = (*EntryStore)(nil)

func (es *EntryStore) List(ctx context.Context) (list []timeentries.Entry, err error) {
	defer func(start time.Time) { es.s.observe("time_entries.list", start, err) }(time.Now())
	list, err = loadList[timeentries.Entry](ctx, es.s.backend, entriesKey)
	if err != nil {
		return nil, err
	}
	timeentries.SortByDateDesc(list)
	return list, nil
}

func (es *EntryStore) Get(ctx context.Context, id string) (timeentries.Entry, error) {
	list, err := es.List(ctx)
	if err != nil {
		return timeentries.Entry{}, err
	}
	for _, e := range list {
		if e.ID == id {
			return e, nil
		}
	}
	return timeentries.Entry{}, apperr.ErrNotFound
}

func (es *EntryStore) Create(ctx context.Context, entry timeentries.Entry) (created timeentries.Entry, err error) {
	defer func(start time.Time) { es.s.observe("time_entries.create", start, err) }(time.Now())
	es.s.mu.Lock()
	defer es.s.mu.Unlock()

	list, err := loadList[timeentries.Entry](ctx, es.s.backend, entriesKey)
	if err != nil {
		return timeentries.Entry{}, err
	}
	list = append(list, entry)
	if err := saveList(ctx, es.s.backend, entriesKey, list); err != nil {
		return timeentries.Entry{}, err
	}
	return entry, nil
}

func (es *EntryStore) Update(ctx context.Context, id string, patch timeentries.Patch) (updated timeentries.Entry, err error) {
	defer func(start time.Time) { es.s.observe("time_entries.update", start, err) }(time.Now())
	es.s.mu.Lock()
	defer es.s.mu.Unlock()

	list, err := loadList[timeentries.Entry](ctx, es.s.backend, entriesKey)
	if err != nil {
		return timeentries.Entry{}, err
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		list[i] = patch.Apply(list[i])
		if err := saveList(ctx, es.s.backend, entriesKey, list); err != nil {
			return timeentries.Entry{}, err
		}
		return list[i], nil
	}
	return timeentries.Entry{}, apperr.ErrNotFound
}

func (es *EntryStore) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { es.s.observe("time_entries.delete", start, err) }(time.Now())
	es.s.mu.Lock()
	defer es.s.mu.Unlock()

	list, err := loadList[timeentries.Entry](ctx, es.s.backend, entriesKey)
	if err != nil {
		return err
	}
	kept := list[:0]
	found := false
	for _, e := range list {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return apperr.ErrNotFound
	}
	return saveList(ctx, es.s.backend, entriesKey, kept)
}
