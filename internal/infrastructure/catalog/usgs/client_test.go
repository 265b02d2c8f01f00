package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
)

func testDates(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	start, err := time.Parse(domain.DateFormat, "2021-06-01")
	require.NoError(t, err)
	end, err := time.Parse(domain.DateFormat, "2021-07-05")
	require.NoError(t, err)
	return start, end
}

func featureJSON(id string, mag *float64, place string, epochMs int64, coords []float64) map[string]any {
	return map[string]any{
		"id": id,
		"properties": map[string]any{
			"mag":   mag,
			"place": place,
			"time":  epochMs,
		},
		"geometry": map[string]any{
			"coordinates": coords,
		},
	}
}

func writeFeatures(t *testing.T, w http.ResponseWriter, features []map[string]any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{"features": features})
	require.NoError(t, err)
}

func floatPtr(v float64) *float64 { return &v }

func TestFetchEvents_QueryParameters(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		writeFeatures(t, w, nil)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zerolog.Nop())
	start, end := testDates(t)

	_, err := client.FetchEvents(context.Background(), start, end, 5.0)
	require.NoError(t, err)

	assert.Equal(t, "geojson", gotQuery["format"])
	assert.Equal(t, "2021-06-01", gotQuery["starttime"])
	assert.Equal(t, "2021-07-05", gotQuery["endtime"])
	assert.Equal(t, "5", gotQuery["minmagnitude"])
	assert.Equal(t, "time-asc", gotQuery["orderby"])
	assert.Equal(t, "20000", gotQuery["limit"])
	assert.Equal(t, "1", gotQuery["offset"])
}

func TestFetchEvents_NormalizesAndSkipsUnusable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFeatures(t, w, []map[string]any{
			featureJSON("good", floatPtr(6.1), "40km N of Los Angeles, CA", 1623727800000, []float64{-118.2437, 34.4119, 8.2}),
			featureJSON("no-mag", nil, "somewhere", 1623727800000, []float64{-118.0, 34.0, 5.0}),
			featureJSON("short-coords", floatPtr(5.5), "elsewhere", 1623727800000, []float64{-118.0}),
			featureJSON("out-of-range", floatPtr(5.5), "nowhere", 1623727800000, []float64{-118.0, 95.0, 5.0}),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zerolog.Nop())
	start, end := testDates(t)

	events, err := client.FetchEvents(context.Background(), start, end, 5.0)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "good", ev.ID)
	assert.Equal(t, "40km N of Los Angeles, CA", ev.Place)
	assert.Equal(t, 6.1, ev.Magnitude)
	// GeoJSON order is [lng, lat]; the domain record is lat/lng.
	assert.Equal(t, 34.4119, ev.Coordinates.Lat)
	assert.Equal(t, -118.2437, ev.Coordinates.Lng)
	assert.Equal(t, time.UnixMilli(1623727800000).UTC(), ev.Time)
	assert.Equal(t, time.UTC, ev.Time.Location())
}

func TestFetchEvents_EmptyFeedIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFeatures(t, w, nil)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zerolog.Nop())
	start, end := testDates(t)

	events, err := client.FetchEvents(context.Background(), start, end, 5.0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFetchEvents_RetriesOnceOnServerError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeFeatures(t, w, []map[string]any{
			featureJSON("ev1", floatPtr(5.2), "offshore", 1623727800000, []float64{-119.0, 35.0, 10.0}),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zerolog.Nop())
	start, end := testDates(t)

	events, err := client.FetchEvents(context.Background(), start, end, 5.0)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, events, 1)
	assert.Equal(t, "ev1", events[0].ID)
}

func TestFetchEvents_PersistentServerError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zerolog.Nop())
	start, end := testDates(t)

	_, err := client.FetchEvents(context.Background(), start, end, 5.0)
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, 2, calls, "exactly one retry")
}

func TestFetchEvents_RangeTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "Error 400: the request would exceed the maximum allowed event count")
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zerolog.Nop())
	start, end := testDates(t)

	_, err := client.FetchEvents(context.Background(), start, end, 5.0)
	require.ErrorIs(t, err, domain.ErrRangeTooLarge)
}

func TestFetchEvents_PlainBadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "Error 400: bad starttime")
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zerolog.Nop())
	start, end := testDates(t)

	_, err := client.FetchEvents(context.Background(), start, end, 5.0)
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	require.NotErrorIs(t, err, domain.ErrRangeTooLarge)
}

func TestFetchEvents_PagesThroughLargeRanges(t *testing.T) {
	var offsets []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
		require.NoError(t, err)
		offsets = append(offsets, offset)

		// First page is full, second is the tail.
		count := 3
		if offset == 1 {
			count = pageLimit
		}
		features := make([]map[string]any, 0, count)
		for i := 0; i < count; i++ {
			id := fmt.Sprintf("ev-%d-%d", offset, i)
			features = append(features, featureJSON(id, floatPtr(5.0), "somewhere", 1623727800000, []float64{-119.0, 35.0, 10.0}))
		}
		writeFeatures(t, w, features)
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second, zerolog.Nop())
	start, end := testDates(t)

	events, err := client.FetchEvents(context.Background(), start, end, 5.0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, pageLimit + 1}, offsets)
	assert.Len(t, events, pageLimit+3)
}

func TestFetchEvents_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFeatures(t, w, nil)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zerolog.Nop())
	start, end := testDates(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchEvents(ctx, start, end, 5.0)
	require.Error(t, err)
}
