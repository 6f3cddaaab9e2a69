package core

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
)

// Summary describes the stored data and the current schedule.
type Summary struct {
	Counts map[string]int `json:"counts"`

	Sections        int     `json:"sections"`
	MeanClassSize   float64 `json:"meanClassSize"`
	MedianClassSize float64 `json:"medianClassSize"`
	MaxClassSize    float64 `json:"maxClassSize"`

	// MeanUtilization is the mean of students/capacity over entries whose
	// room is known, in percent.
	MeanUtilization float64 `json:"meanUtilization"`
	OverCapacity    int     `json:"overCapacity"`

	SectionsPerDay map[string]int `json:"sectionsPerDay"`
}

// Summary computes record counts and schedule statistics.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	counts, err := s.Counts(ctx)
	if err != nil {
		return nil, err
	}
	sum := &Summary{
		Counts:         counts,
		SectionsPerDay: make(map[string]int),
	}

	entries, _, rooms, err := s.scheduleData(ctx)
	if err != nil {
		return nil, err
	}
	capacity := make(map[string]int, len(rooms))
	for _, r := range rooms {
		capacity[r.ID] = r.Capacity
	}

	sizes := make(stats.Float64Data, 0, len(entries))
	var utilization stats.Float64Data
	for _, e := range entries {
		sizes = append(sizes, float64(e.Students))
		sum.SectionsPerDay[e.Day]++

		c, ok := capacity[e.Room]
		if !ok || c <= 0 {
			continue
		}
		utilization = append(utilization, float64(e.Students)/float64(c)*100)
		if e.Students > c {
			sum.OverCapacity++
		}
	}
	sum.Sections = len(entries)

	if len(sizes) > 0 {
		if sum.MeanClassSize, err = roundedMean(sizes); err != nil {
			return nil, err
		}
		median, err := sizes.Median()
		if err != nil {
			return nil, fmt.Errorf("median class size: %w", err)
		}
		sum.MedianClassSize = median
		if sum.MaxClassSize, err = sizes.Max(); err != nil {
			return nil, fmt.Errorf("max class size: %w", err)
		}
	}
	if len(utilization) > 0 {
		if sum.MeanUtilization, err = roundedMean(utilization); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

// roundedMean is the mean of data rounded to one decimal place.
func roundedMean(data stats.Float64Data) (float64, error) {
	mean, err := data.Mean()
	if err != nil {
		return 0, fmt.Errorf("mean: %w", err)
	}
	return stats.Round(mean, 1)
}

// Counts returns the number of stored records per entity.
func (s *Service) Counts(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int)
	for _, def := range s.registry.All() {
		n, err := s.store.Count(ctx, def.Info.Key)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", def.Info.Key, err)
		}
		out[def.Info.Key] = n
	}
	return out, nil
}
