package incident

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ewill123/nec-callcenter/internal/cache"
	"github.com/ewill123/nec-callcenter/internal/model"
	"github.com/ewill123/nec-callcenter/internal/store"
	"github.com/ewill123/nec-callcenter/internal/validator"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReport(t *testing.T, overrides map[string]any) model.IncidentReport {
	t.Helper()
	raw := map[string]any{
		"date":          "2024-01-01",
		"caller_name":   "Jane Doe",
		"caller_mobile": "+231555123",
		"sex":           "Female",
		"precinct_name": "P1",
		"location":      "City Hall",
	}
	for k, v := range overrides {
		raw[k] = v
	}
	r, err := validator.New().Validate(raw)
	require.NoError(t, err)
	return r
}

// failingStore rejects every call with the same message.
type failingStore struct {
	msg   string
	calls int
}

func (f *failingStore) Insert(context.Context, model.IncidentReport) (*model.IncidentReport, error) {
	f.calls++
	return nil, errors.New(f.msg)
}

func (f *failingStore) Select(context.Context, store.Filter) ([]model.IncidentReport, error) {
	f.calls++
	return nil, errors.New(f.msg)
}

func (f *failingStore) Update(context.Context, string, store.Patch) error {
	f.calls++
	return errors.New(f.msg)
}

func TestSubmitValidScenario(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), Options{})

	stored, err := svc.Submit(context.Background(), validReport(t, nil))
	require.NoError(t, err)

	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, model.StatusPending, stored.Status)
}

func TestSubmitRoundTrip(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), Options{})
	ctx := context.Background()
	in := validReport(t, map[string]any{
		"time_of_incident":     "09:30",
		"precinct_code":        "  0042 ",
		"polling_place_number": "3",
		"witness_choice":       "arrived_after",
		"witness_role":         "Observer",
		"incident_choice":      "no_security",
		"incident_other":       "gate locked",
	})

	stored, err := svc.Submit(ctx, in)
	require.NoError(t, err)

	got, err := svc.Get(ctx, stored.ID)
	require.NoError(t, err)

	normalized := *got
	normalized.ID = ""
	normalized.Status = ""
	normalized.CreatedAt = in.CreatedAt
	normalized.UpdatedAt = in.UpdatedAt
	assert.Equal(t, in, normalized)
	assert.Equal(t, "0042", got.PrecinctCode)
}

func TestSubmitDropsResolution(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), Options{})

	stored, err := svc.Submit(context.Background(), validReport(t, map[string]any{"resolution": "already fixed"}))
	require.NoError(t, err)

	assert.Empty(t, stored.Resolution)
	assert.Equal(t, model.StatusPending, stored.Status)
}

func TestSubmitStorageErrorPassesMessageThrough(t *testing.T) {
	fs := &failingStore{msg: `duplicate key value violates unique constraint "call_center_reports_pkey"`}
	svc := NewService(fs, Options{})

	_, err := svc.Submit(context.Background(), validReport(t, nil))

	var serr *model.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, fs.msg, serr.Error())
	assert.Equal(t, 1, fs.calls)
}

func TestListOrderAndIdempotence(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), Options{})
	ctx := context.Background()
	for _, date := range []string{"2024-01-01", "2024-01-03", "2024-01-02"} {
		_, err := svc.Submit(ctx, validReport(t, map[string]any{"date": date}))
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, nil)
	require.NoError(t, err)
	second, err := svc.List(ctx, nil)
	require.NoError(t, err)

	require.Len(t, first, 3)
	assert.Equal(t, "2024-01-03", first[0].Date)
	assert.Equal(t, "2024-01-01", first[2].Date)
	assert.Equal(t, first, second)
}

func TestListFilter(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), Options{})
	ctx := context.Background()
	_, err := svc.Submit(ctx, validReport(t, map[string]any{"incident_choice": "hate_speech"}))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, validReport(t, map[string]any{"incident_choice": "overcrowding"}))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, validReport(t, nil))
	require.NoError(t, err)

	flag := model.IncidentHateSpeech
	got, err := svc.List(ctx, &flag)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.IncidentHateSpeech, got[0].IncidentChoice)

	empty := model.IncidentTensionUnrest
	none, err := svc.List(ctx, &empty)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUpdateResolvesOnlyTarget(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), Options{})
	ctx := context.Background()
	target, err := svc.Submit(ctx, validReport(t, nil))
	require.NoError(t, err)
	other, err := svc.Submit(ctx, validReport(t, map[string]any{"caller_name": "John"}))
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, target.ID, "fixed", model.StatusResolved))

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	for _, r := range all {
		switch r.ID {
		case target.ID:
			assert.Equal(t, model.StatusResolved, r.Status)
			assert.Equal(t, "fixed", r.Resolution)
		case other.ID:
			assert.Equal(t, model.StatusPending, r.Status)
			assert.Empty(t, r.Resolution)
		}
	}
}

func TestUpdateEmptyResolutionStaysPending(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), Options{})
	ctx := context.Background()
	stored, err := svc.Submit(ctx, validReport(t, nil))
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, stored.ID, "", model.StatusResolved))

	got, err := svc.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestUpdateUnknownID(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), Options{})

	err := svc.Update(context.Background(), "missing", "fixed", model.StatusResolved)

	var serr *model.StorageError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetUnknownID(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), Options{})

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListReadsThroughCacheAndInvalidates(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := cache.NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { rc.Close() })

	svc := NewService(store.NewMemoryStore(), Options{Cache: rc})
	ctx := context.Background()

	_, err := svc.Submit(ctx, validReport(t, nil))
	require.NoError(t, err)

	got, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, mr.Exists(cache.ListKey("")))

	flag := model.IncidentCampaigning
	_, err = svc.List(ctx, &flag)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.ListKey("campaigning")))

	_, err = svc.Submit(ctx, validReport(t, map[string]any{"incident_choice": "campaigning"}))
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.ListKey("")))
	assert.False(t, mr.Exists(cache.ListKey("campaigning")))

	got, err = svc.List(ctx, &flag)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListFailsOpenWhenCacheDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rc := cache.NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	t.Cleanup(func() { rc.Close() })
	mr.Close()

	svc := NewService(store.NewMemoryStore(), Options{Cache: rc})
	ctx := context.Background()

	_, err = svc.Submit(ctx, validReport(t, nil))
	require.NoError(t, err)
	got, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStats(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), Options{})
	ctx := context.Background()
	first, err := svc.Submit(ctx, validReport(t, map[string]any{"incident_choice": "no_security"}))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, validReport(t, map[string]any{"date": "2024-01-02"}))
	require.NoError(t, err)
	require.NoError(t, svc.Update(ctx, first.ID, "guards sent", model.StatusResolved))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStatus["resolved"])
	assert.Equal(t, 1, stats.ByStatus["pending"])
	assert.Equal(t, 1, stats.ByCategory["no_security"])
	assert.Equal(t, 1, stats.ByCategory["other"])
	assert.Equal(t, 0, stats.ByCategory["overcrowding"])
	assert.Equal(t, 1, stats.ByDate["2024-01-02"])
}

func TestStatsStorageError(t *testing.T) {
	svc := NewService(&failingStore{msg: "connection refused"}, Options{})

	_, err := svc.Stats(context.Background())
	assert.EqualError(t, err, "connection refused")
}
