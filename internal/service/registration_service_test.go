package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/training-registration-api/internal/dto"
	"github.com/noah-isme/training-registration-api/internal/models"
	"github.com/noah-isme/training-registration-api/internal/repository"
	appErrors "github.com/noah-isme/training-registration-api/pkg/errors"
	"github.com/noah-isme/training-registration-api/pkg/storage"
)

type publisherStub struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *publisherStub) Publish(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.err
}

func (p *publisherStub) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type metricsStub struct {
	created  []string
	statuses []string
}

func (m *metricsStub) RecordRegistrationCreated(department string) {
	m.created = append(m.created, department)
}

func (m *metricsStub) RecordStatusUpdate(status string) {
	m.statuses = append(m.statuses, status)
}

type brokenStore struct {
	getErr error
	putErr error
	value  []byte
}

func (b *brokenStore) Get(ctx context.Context, key string) ([]byte, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	if b.value == nil {
		return nil, storage.ErrNotFound
	}
	return b.value, nil
}

func (b *brokenStore) Put(ctx context.Context, key string, value []byte) error {
	if b.putErr != nil {
		return b.putErr
	}
	b.value = value
	return nil
}

var testNow = time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)

func newRegistrationServiceForTest(t *testing.T, store storage.BlobStore) (*RegistrationService, *publisherStub, *metricsStub) {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStorage()
	}
	var seq int
	pub := &publisherStub{}
	metrics := &metricsStub{}
	svc := NewRegistrationService(
		repository.NewRegistrationRepository(store, "kings_tech_registrations"),
		NewRegistrationValidator(nil, time.UTC, fixedClock(testNow)),
		pub,
		metrics,
		nil,
		RegistrationConfig{
			Clock: fixedClock(testNow),
			NewID: func() string {
				seq++
				return fmt.Sprintf("id-%d", seq)
			},
		},
	)
	return svc, pub, metrics
}

func testFields(t *testing.T, name string) models.RegistrationFields {
	t.Helper()
	date, err := models.ParseDate("2030-05-10")
	require.NoError(t, err)
	return models.RegistrationFields{
		FullName:          name,
		Email:             "ana@kings.tech",
		Department:        models.DepartmentTI,
		FamiliarityLevel:  models.FamiliarityMedio,
		ParticipationDate: date,
	}
}

func TestRegistrationServiceListEmpty(t *testing.T) {
	svc, _, _ := newRegistrationServiceForTest(t, nil)
	items := svc.List(context.Background())
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestRegistrationServiceCreateAppends(t *testing.T) {
	svc, pub, metrics := newRegistrationServiceForTest(t, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, testFields(t, "Ana Souza"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, testFields(t, "Bruno Lima"))
	require.NoError(t, err)

	assert.Equal(t, "id-1", first.ID)
	assert.Equal(t, models.ApprovalPending, first.ApprovalStatus)
	assert.Equal(t, testNow, first.CreatedAt)

	items := svc.List(ctx)
	require.Len(t, items, 2)
	assert.Equal(t, *first, items[0])
	assert.Equal(t, *second, items[1])
	assert.Equal(t, 2, pub.count())
	assert.Equal(t, []string{"ti", "ti"}, metrics.created)
}

func TestRegistrationServiceUpdateStatus(t *testing.T) {
	svc, pub, metrics := newRegistrationServiceForTest(t, nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, testFields(t, "Ana Souza"))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, created.ID, models.ApprovalApproved))
	require.NoError(t, svc.UpdateStatus(ctx, created.ID, models.ApprovalRejected))
	require.NoError(t, svc.UpdateStatus(ctx, created.ID, models.ApprovalPending))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalPending, got.ApprovalStatus)
	assert.Equal(t, created.FullName, got.FullName)
	assert.Equal(t, 4, pub.count())
	assert.Equal(t, []string{"approved", "rejected", "pending"}, metrics.statuses)
}

func TestRegistrationServiceUpdateStatusUnknownIDIsNoop(t *testing.T) {
	store := storage.NewMemoryStorage()
	svc, pub, _ := newRegistrationServiceForTest(t, store)
	ctx := context.Background()
	_, err := svc.Create(ctx, testFields(t, "Ana Souza"))
	require.NoError(t, err)
	before, err := store.Get(ctx, "kings_tech_registrations")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, "missing", models.ApprovalApproved))

	after, err := store.Get(ctx, "kings_tech_registrations")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, pub.count())
}

func TestRegistrationServiceUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newRegistrationServiceForTest(t, nil)
	err := svc.UpdateStatus(context.Background(), "id-1", models.ApprovalStatus("archived"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestRegistrationServiceCorruptBlob(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "kings_tech_registrations", []byte("definitely not json")))
	svc, _, _ := newRegistrationServiceForTest(t, store)

	assert.Empty(t, svc.List(ctx))

	created, err := svc.Create(ctx, testFields(t, "Ana Souza"))
	require.NoError(t, err)
	items := svc.List(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
}

const mixedCollection = `[
	{"id":"a","fullName":"Ana Souza","email":"ana@kings.tech","department":"ti","familiarityLevel":"medio","needsAccessibility":false,"participationDate":"2030-01-10","createdAt":"2029-12-01T10:00:00Z","approvalStatus":"approved"},
	{"id":"b","fullName":"Bruno Lima","email":"bruno@kings.tech","department":"rh","familiarityLevel":"alto","needsAccessibility":false,"participationDate":"2030-01-10T03:00:00.000Z","createdAt":"2029-12-02T10:00:00Z"},
	{"id":"c","fullName":"Caio Reis","email":"caio@kings.tech","department":"vendas","familiarityLevel":"baixo","needsAccessibility":"yes","participationDate":"2030-01-11","createdAt":"2029-12-03T10:00:00Z"}
]`

func TestRegistrationServiceListSkipsUnreadableRecords(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "kings_tech_registrations", []byte(mixedCollection)))
	svc, _, _ := newRegistrationServiceForTest(t, store)

	items := svc.List(ctx)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
	assert.Equal(t, "2030-01-10", items[1].ParticipationDate.String())
	assert.Equal(t, models.ApprovalPending, items[1].ApprovalStatus)
}

func TestRegistrationServiceMutationKeepsUnreadableCollection(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "kings_tech_registrations", []byte(mixedCollection)))
	svc, pub, _ := newRegistrationServiceForTest(t, store)

	_, err := svc.Create(ctx, testFields(t, "Carla Dias"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))

	err = svc.UpdateStatus(ctx, "a", models.ApprovalRejected)
	require.Error(t, err)

	raw, err := store.Get(ctx, "kings_tech_registrations")
	require.NoError(t, err)
	assert.Equal(t, mixedCollection, string(raw))
	assert.Equal(t, 0, pub.count())
}

func TestRegistrationServiceCreatePreservesLegacyTimestampDates(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()
	legacy := `[{"id":"a","fullName":"Ana Souza","email":"ana@kings.tech","department":"ti","familiarityLevel":"medio","needsAccessibility":false,"participationDate":"2030-01-09","createdAt":"2029-12-01T10:00:00Z"},` +
		`{"id":"b","fullName":"Bruno Lima","email":"bruno@kings.tech","department":"rh","familiarityLevel":"alto","needsAccessibility":false,"participationDate":"2030-01-10T03:00:00.000Z","createdAt":"2029-12-02T10:00:00Z"}]`
	require.NoError(t, store.Put(ctx, "kings_tech_registrations", []byte(legacy)))
	svc, _, _ := newRegistrationServiceForTest(t, store)

	created, err := svc.Create(ctx, testFields(t, "Carla Dias"))
	require.NoError(t, err)

	items := svc.List(ctx)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"a", "b", created.ID}, []string{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, "2030-01-10", items[1].ParticipationDate.String())
}

func TestRegistrationServiceBackendUnavailable(t *testing.T) {
	store := &brokenStore{getErr: errors.New("dial tcp: connection refused")}
	svc, pub, _ := newRegistrationServiceForTest(t, store)
	ctx := context.Background()

	assert.Empty(t, svc.List(ctx))

	_, err := svc.Create(ctx, testFields(t, "Ana Souza"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
	assert.Nil(t, store.value)
	assert.Equal(t, 0, pub.count())
}

func TestRegistrationServiceWriteFailure(t *testing.T) {
	store := &brokenStore{putErr: errors.New("disk full")}
	svc, pub, _ := newRegistrationServiceForTest(t, store)

	_, err := svc.Create(context.Background(), testFields(t, "Ana Souza"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Status, appErrors.FromError(err).Status)
	assert.Equal(t, 0, pub.count())
}

func TestRegistrationServicePublishFailureDoesNotFailCreate(t *testing.T) {
	svc, pub, _ := newRegistrationServiceForTest(t, nil)
	pub.err = errors.New("redis down")

	_, err := svc.Create(context.Background(), testFields(t, "Ana Souza"))
	require.NoError(t, err)
	assert.Len(t, svc.List(context.Background()), 1)
}

func TestRegistrationServiceSubmit(t *testing.T) {
	svc, _, _ := newRegistrationServiceForTest(t, nil)
	ctx := context.Background()

	created, err := svc.Submit(ctx, dto.CreateRegistrationRequest{
		FullName:             "  Ana Souza ",
		Email:                "ana@kings.tech",
		Department:           "operacoes",
		FamiliarityLevel:     "alto",
		NeedsAccessibility:   true,
		AccessibilityDetails: " cadeira de rodas ",
		ParticipationDate:    "2030-05-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", created.FullName)
	assert.Equal(t, "cadeira de rodas", created.AccessibilityDetails)
	assert.Equal(t, models.DepartmentOperacoes, created.Department)
	assert.Equal(t, "2030-05-01", created.ParticipationDate.String())
}

func TestRegistrationServiceSubmitInvalidPersistsNothing(t *testing.T) {
	store := storage.NewMemoryStorage()
	svc, pub, _ := newRegistrationServiceForTest(t, store)
	ctx := context.Background()

	_, err := svc.Submit(ctx, dto.CreateRegistrationRequest{FullName: "Al"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, getErr := store.Get(ctx, "kings_tech_registrations")
	assert.ErrorIs(t, getErr, storage.ErrNotFound)
	assert.Equal(t, 0, pub.count())
}

func TestRegistrationServiceSubmitHonoursCancellation(t *testing.T) {
	svc, _, _ := newRegistrationServiceForTest(t, nil)
	svc.cfg.SubmitDelay = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := validRequest()
	_, err := svc.Submit(ctx, req)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, svc.List(context.Background()))
}

func TestRegistrationServiceGetMissing(t *testing.T) {
	svc, _, _ := newRegistrationServiceForTest(t, nil)
	_, err := svc.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestRegistrationServiceConcurrentCreates(t *testing.T) {
	store := storage.NewMemoryStorage()
	pub := &publisherStub{}
	svc := NewRegistrationService(
		repository.NewRegistrationRepository(store, "kings_tech_registrations"),
		nil, pub, nil, nil, RegistrationConfig{},
	)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Create(ctx, testFields(t, fmt.Sprintf("Pessoa %02d", i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	items := svc.List(ctx)
	require.Len(t, items, 20)
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item.ID] = struct{}{}
	}
	assert.Len(t, seen, 20)
}

func TestRegistrationServiceQueryAndStats(t *testing.T) {
	svc, _, _ := newRegistrationServiceForTest(t, nil)
	ctx := context.Background()
	a, err := svc.Create(ctx, testFields(t, "Ana Souza"))
	require.NoError(t, err)
	fields := testFields(t, "Bruno Lima")
	fields.Department = models.DepartmentRH
	fields.NeedsAccessibility = true
	fields.AccessibilityDetails = "rampa"
	_, err = svc.Create(ctx, fields)
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(ctx, a.ID, models.ApprovalApproved))

	filtered, total := svc.Query(ctx, models.RegistrationFilter{Department: "ti"})
	assert.Equal(t, 2, total)
	require.Len(t, filtered, 1)
	assert.Equal(t, a.ID, filtered[0].ID)

	stats := svc.Stats(ctx)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[models.ApprovalApproved])
	assert.Equal(t, 1, stats.ByStatus[models.ApprovalPending])
	assert.Equal(t, 0, stats.ByStatus[models.ApprovalRejected])
	assert.Equal(t, 1, stats.ByDepartment[models.DepartmentRH])
	assert.Equal(t, 0, stats.ByDepartment[models.DepartmentVendas])
	assert.Equal(t, 1, stats.NeedsAccess)
}
