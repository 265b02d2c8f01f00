package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(DateFormat, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return parsed
}

func TestResolutionQueryValidate(t *testing.T) {
	valid := ResolutionQuery{
		CityID:       "la",
		StartDate:    time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2021, 7, 5, 0, 0, 0, 0, time.UTC),
		MinMagnitude: 5.0,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid query rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(q *ResolutionQuery)
	}{
		{"missing city", func(q *ResolutionQuery) { q.CityID = "" }},
		{"missing start date", func(q *ResolutionQuery) { q.StartDate = time.Time{} }},
		{"missing end date", func(q *ResolutionQuery) { q.EndDate = time.Time{} }},
		{"inverted range", func(q *ResolutionQuery) { q.StartDate, q.EndDate = q.EndDate, q.StartDate }},
		{"negative threshold", func(q *ResolutionQuery) { q.MinMagnitude = -0.1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := valid
			tc.mutate(&q)
			if err := q.Validate(); !errors.Is(err, ErrInvalidQuery) {
				t.Fatalf("expected ErrInvalidQuery, got %v", err)
			}
		})
	}
}

func TestResolutionQueryValidate_SingleDayRange(t *testing.T) {
	q := ResolutionQuery{
		CityID:       "la",
		StartDate:    time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC),
		MinMagnitude: 5.0,
	}
	if err := q.Validate(); err != nil {
		t.Fatalf("single-day range must be valid: %v", err)
	}
}

func TestErrCacheMiss_Sentinel(t *testing.T) {
	wrapped := fmt.Errorf("cache get %q: %w", "resolution:la:2021-06-01:2021-07-05:5.00", ErrCacheMiss)
	if !errors.Is(wrapped, ErrCacheMiss) {
		t.Fatalf("wrapped miss must match the sentinel")
	}
	if errors.Is(ErrCacheMiss, ErrInvalidQuery) || errors.Is(ErrCacheMiss, ErrUpstreamUnavailable) {
		t.Fatalf("cache miss must be distinct from the other sentinels")
	}
}

func TestCacheKey_Deterministic(t *testing.T) {
	a := ResolutionQuery{
		CityID:       "la",
		StartDate:    mustDate(t, "2021-06-01"),
		EndDate:      mustDate(t, "2021-07-05"),
		MinMagnitude: 5,
	}
	// Same logical query assembled differently: timestamps with a time-of-day
	// component in a non-UTC zone, threshold written with trailing precision.
	zone := time.FixedZone("UTC+2", 2*60*60)
	b := ResolutionQuery{
		CityID:       "la",
		StartDate:    time.Date(2021, 6, 1, 2, 0, 0, 0, zone),
		EndDate:      time.Date(2021, 7, 5, 2, 0, 0, 0, zone),
		MinMagnitude: 5.00,
	}

	if a.CacheKey() != b.CacheKey() {
		t.Errorf("logically identical queries must share a key:\n %s\n %s", a.CacheKey(), b.CacheKey())
	}
	want := "resolution:la:2021-06-01:2021-07-05:5.00"
	if a.CacheKey() != want {
		t.Errorf("unexpected key %q, want %q", a.CacheKey(), want)
	}
}

func TestCacheKey_DistinguishesQueries(t *testing.T) {
	base := ResolutionQuery{
		CityID:       "la",
		StartDate:    mustDate(t, "2021-06-01"),
		EndDate:      mustDate(t, "2021-07-05"),
		MinMagnitude: 5,
	}
	variants := []ResolutionQuery{
		{CityID: "sf", StartDate: base.StartDate, EndDate: base.EndDate, MinMagnitude: base.MinMagnitude},
		{CityID: base.CityID, StartDate: mustDate(t, "2021-06-02"), EndDate: base.EndDate, MinMagnitude: base.MinMagnitude},
		{CityID: base.CityID, StartDate: base.StartDate, EndDate: mustDate(t, "2021-07-04"), MinMagnitude: base.MinMagnitude},
		{CityID: base.CityID, StartDate: base.StartDate, EndDate: base.EndDate, MinMagnitude: 5.5},
	}
	for _, v := range variants {
		if v.CacheKey() == base.CacheKey() {
			t.Errorf("distinct query must not share key %q", base.CacheKey())
		}
	}
}
