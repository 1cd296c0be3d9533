package core_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mikey/mail-triage/internal/classifier"
	"github.com/mikey/mail-triage/internal/core"
)

type fakeStore struct {
	mu      sync.Mutex
	entries map[string]*core.VerdictEntry
	getErr  error
	setErr  error
	sets    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]*core.VerdictEntry)}
}

func (f *fakeStore) Get(_ context.Context, id string) (*core.VerdictEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	e, ok := f.entries[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) Set(_ context.Context, e *core.VerdictEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[e.MessageID] = e
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, id)
	return nil
}

func (f *fakeStore) Cleanup(context.Context) error { return nil }

type countingRecorder struct {
	mu       sync.Mutex
	byCat    map[core.Category]int
	meetings int
	cached   int
}

func (r *countingRecorder) ObserveTriage(c core.Category, meeting, cached bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byCat == nil {
		r.byCat = make(map[core.Category]int)
	}
	r.byCat[c]++
	if meeting {
		r.meetings++
	}
	if cached {
		r.cached++
	}
}

func newService(t *testing.T, store core.VerdictStore, opts core.TriageOptions) *core.TriageService {
	return core.NewTriageService(
		classifier.NewDefault(),
		classifier.NewMeetingDetector(nil),
		store,
		zaptest.NewLogger(t),
		opts,
	)
}

func TestTriage(t *testing.T) {
	svc := newService(t, nil, core.TriageOptions{})

	r := svc.Triage(context.Background(), &core.Email{
		Subject: "Can we schedule a call tomorrow?",
		From:    "pm@company.com",
	})
	assert.Equal(t, core.CategoryProfessional, r.Category)
	assert.True(t, r.HasMeeting)
	assert.False(t, r.Cached)
	assert.False(t, r.ProcessedAt.IsZero())

	r = svc.Triage(context.Background(), &core.Email{})
	assert.Equal(t, core.CategoryProfessional, r.Category)
	assert.False(t, r.HasMeeting)
}

func TestTriageUsesVerdictStore(t *testing.T) {
	store := newFakeStore()
	rec := &countingRecorder{}
	svc := newService(t, store, core.TriageOptions{StoreEnabled: true, StoreTTL: time.Hour, Metrics: rec})

	email := &core.Email{ID: "m1", Subject: "Free prize, click here"}
	first := svc.Triage(context.Background(), email)
	require.Equal(t, core.CategorySpam, first.Category)
	require.Contains(t, store.entries, "m1")
	assert.WithinDuration(t, first.ProcessedAt.Add(time.Hour), store.entries["m1"].ExpiresAt, time.Second)

	second := svc.Triage(context.Background(), email)
	assert.True(t, second.Cached)
	assert.Equal(t, core.CategorySpam, second.Category)
	assert.Equal(t, 1, store.sets)
	assert.Equal(t, 2, rec.byCat[core.CategorySpam])
	assert.Equal(t, 1, rec.cached)
}

func TestTriageSkipsStoreWithoutMessageID(t *testing.T) {
	store := newFakeStore()
	svc := newService(t, store, core.TriageOptions{StoreEnabled: true})

	svc.Triage(context.Background(), &core.Email{Subject: "hello"})
	assert.Zero(t, store.sets)
}

func TestTriageSurvivesStoreFailures(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("database is locked")
	store.setErr = errors.New("disk full")

	obs, logs := observer.New(zapcore.WarnLevel)
	svc := core.NewTriageService(
		classifier.NewDefault(),
		classifier.NewMeetingDetector(nil),
		store,
		zap.New(obs),
		core.TriageOptions{StoreEnabled: true, StoreTTL: time.Hour},
	)

	r := svc.Triage(context.Background(), &core.Email{ID: "m2", Body: "let's grab lunch this weekend", From: "pal@gmail.com"})
	assert.Equal(t, core.CategoryPersonal, r.Category)
	assert.Equal(t, 1, logs.FilterMessage("Failed to read verdict store").Len())
	assert.Equal(t, 1, logs.FilterMessage("Failed to record verdict").Len())
}

func TestTriageBatchPreservesOrder(t *testing.T) {
	svc := newService(t, nil, core.TriageOptions{Workers: 8})

	var emails []*core.Email
	var expected []core.Category
	for i := 0; i < 60; i++ {
		switch i % 3 {
		case 0:
			emails = append(emails, &core.Email{ID: fmt.Sprint(i), Subject: "free offer, claim now"})
			expected = append(expected, core.CategorySpam)
		case 1:
			emails = append(emails, &core.Email{ID: fmt.Sprint(i), Body: "birthday dinner with family"})
			expected = append(expected, core.CategoryPersonal)
		default:
			emails = append(emails, &core.Email{ID: fmt.Sprint(i), Subject: "project report"})
			expected = append(expected, core.CategoryProfessional)
		}
	}

	results, err := svc.TriageBatch(context.Background(), emails)
	require.NoError(t, err)
	require.Len(t, results, len(emails))
	for i, r := range results {
		assert.Same(t, emails[i], r.Email)
		assert.Equal(t, expected[i], r.Category, "message %d", i)
	}
}

func TestTriageBatchCancelled(t *testing.T) {
	svc := newService(t, nil, core.TriageOptions{Workers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := svc.TriageBatch(ctx, []*core.Email{{ID: "a"}, {ID: "b"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, len(results), 2)
}

func TestTriageBatchEmpty(t *testing.T) {
	svc := newService(t, nil, core.TriageOptions{})

	results, err := svc.TriageBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSummarize(t *testing.T) {
	s := core.Summarize([]core.TriageResult{
		{Category: core.CategoryPersonal, HasMeeting: true},
		{Category: core.CategoryProfessional, HasMeeting: true},
		{Category: core.CategoryProfessional},
		{Category: core.CategorySpam},
	})

	assert.Equal(t, core.Summary{Personal: 1, Professional: 2, Spam: 1, Meetings: 2}, s)
}
