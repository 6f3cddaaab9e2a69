package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/timetable/internal/catalog"
)

// Schedule returns the schedule entries passing filter, joined with course
// names and room buildings.
func (s *Service) Schedule(ctx context.Context, filter catalog.ScheduleFilter) ([]catalog.ScheduleRow, error) {
	entries, courses, rooms, err := s.scheduleData(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Enrich(filter.Apply(entries), courses, rooms), nil
}

func (s *Service) scheduleData(ctx context.Context) ([]catalog.ScheduleEntry, []catalog.Course, []catalog.Room, error) {
	entries, err := listAs[catalog.ScheduleEntry](ctx, s, catalog.Schedule)
	if err != nil {
		return nil, nil, nil, err
	}
	courses, err := listAs[catalog.Course](ctx, s, catalog.Courses)
	if err != nil {
		return nil, nil, nil, err
	}
	rooms, err := listAs[catalog.Room](ctx, s, catalog.Rooms)
	if err != nil {
		return nil, nil, nil, err
	}
	return entries, courses, rooms, nil
}

// listAs loads every record of entity as T. Records of another type are
// ignored.
func listAs[T catalog.Record](ctx context.Context, s *Service, entity string) ([]T, error) {
	recs, err := s.store.List(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", entity, err)
	}
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		if v, ok := rec.(T); ok {
			out = append(out, v)
		}
	}
	return out, nil
}
