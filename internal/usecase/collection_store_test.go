package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/warehouse-client/internal/domain/apierr"
	"github.com/yourusername/warehouse-client/internal/domain/entity"
	"github.com/yourusername/warehouse-client/internal/domain/repository"
)

func validFields(name string) entity.ProductFields {
	price := decimal.RequireFromString("2.50")
	return entity.ProductFields{Name: entity.Ptr(name), Price: &price, Quantity: entity.Ptr(3)}
}

func loadedStore(t *testing.T, items ...entity.Product) (*ProductStore, *fakeProducts) {
	t.Helper()
	gw := &fakeProducts{list: items}
	s := NewProductStore(gw, quietLogger())
	require.NoError(t, s.Fetch(context.Background()))
	return s, gw
}

func ids(items []entity.Product) []entity.ID {
	out := make([]entity.ID, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func TestProductStoreFetch(t *testing.T) {
	s, _ := loadedStore(t,
		product("3", "C", 1),
		product("1", "A", 1),
		product("3", "dup", 9),
		product("2", "B", 1),
	)

	snap := s.Snapshot()
	assert.Equal(t, entity.StatusSucceeded, snap.Status)
	assert.Nil(t, snap.Err)
	assert.Equal(t, []entity.ID{"3", "1", "2"}, ids(snap.Data))
	assert.Equal(t, "C", snap.Data[0].Name, "first occurrence of a repeated id wins")
}

func TestProductStoreFetchFailureKeepsData(t *testing.T) {
	s, gw := loadedStore(t, product("1", "A", 1))
	before := s.Snapshot().Data

	gw.listErr = errUnreachable
	err := s.Fetch(context.Background())

	require.Error(t, err)
	snap := s.Snapshot()
	assert.Equal(t, entity.StatusFailed, snap.Status)
	assert.Equal(t, errUnreachable.Error(), snap.Message())
	assert.Equal(t, apierr.Transport, snap.Err.Kind)
	assert.Equal(t, before, snap.Data)
}

func TestProductStoreFailedCreateLeavesCollectionUnchanged(t *testing.T) {
	s, gw := loadedStore(t, product("1", "A", 1), product("2", "B", 2))
	before := s.Snapshot().Data

	gw.createErr = &apierr.ResponseError{
		StatusCode: 422,
		Body:       []byte(`{"detail":[{"loc":["body","price"],"msg":"bad price"}]}`),
	}
	_, err := s.Create(context.Background(), validFields("C"))

	ae, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, apierr.Validation, ae.Kind)
	assert.Equal(t, 422, ae.Status)

	snap := s.Snapshot()
	assert.Equal(t, entity.StatusFailed, snap.Status)
	assert.Equal(t, "bad price", snap.Message())
	assert.Equal(t, before, snap.Data)
}

func TestProductStoreCreateValidatesLocally(t *testing.T) {
	s, gw := loadedStore(t, product("1", "A", 1))
	calls := gw.callCount()

	_, err := s.Create(context.Background(), entity.ProductFields{})

	ae, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, apierr.Validation, ae.Kind)
	assert.Equal(t, calls, gw.callCount(), "no backend call for invalid input")
	assert.Equal(t, entity.StatusFailed, s.Snapshot().Status)
	assert.Len(t, s.Snapshot().Data, 1)
}

func TestProductStoreCreateUsesEcho(t *testing.T) {
	s, gw := loadedStore(t, product("1", "A", 1))

	echo := product("7", "C", 3)
	gw.created = &echo
	got, err := s.Create(context.Background(), validFields("C"))
	require.NoError(t, err)
	assert.Equal(t, &echo, got)
	assert.Equal(t, []entity.ID{"1", "7"}, ids(s.Snapshot().Data))

	// no echo: nothing to reconcile with
	gw.created = nil
	_, err = s.Create(context.Background(), validFields("D"))
	require.NoError(t, err)
	assert.Equal(t, []entity.ID{"1", "7"}, ids(s.Snapshot().Data))
	assert.Equal(t, entity.StatusSucceeded, s.Snapshot().Status)
}

func TestProductStoreUpdateReplacesInPlace(t *testing.T) {
	s, gw := loadedStore(t, product("1", "A", 1), product("2", "B", 2), product("3", "C", 3))

	echo := product("2", "B2", 20)
	gw.updated = &echo
	_, err := s.Update(context.Background(), "2", entity.ProductFields{Name: entity.Ptr("B2")})
	require.NoError(t, err)

	data := s.Snapshot().Data
	assert.Equal(t, []entity.ID{"1", "2", "3"}, ids(data))
	assert.Equal(t, "B2", data[1].Name)
	assert.Equal(t, 20, data[1].Quantity)

	_, err = s.Update(context.Background(), "2", entity.ProductFields{})
	require.Error(t, err)
	assert.Equal(t, "B2", s.Snapshot().Data[1].Name)
}

func TestProductStoreDelete(t *testing.T) {
	items := []entity.Product{product("1", "A", 1), product("2", "B", 2), product("3", "C", 3)}

	for _, id := range []entity.ID{"1", "2", "3", "404"} {
		t.Run(id.String(), func(t *testing.T) {
			s, _ := loadedStore(t, items...)
			before := s.Snapshot().Data
			_, present := s.Find(id)

			require.NoError(t, s.Delete(context.Background(), id))

			after := s.Snapshot().Data
			_, still := s.Find(id)
			assert.False(t, still)
			if present {
				assert.Len(t, after, len(before)-1)
			} else {
				assert.Equal(t, before, after)
			}
		})
	}
}

func TestProductStoreDeleteFailure(t *testing.T) {
	s, gw := loadedStore(t, product("1", "A", 1))
	gw.deleteErr = &apierr.ResponseError{StatusCode: 404, Body: []byte(`{"detail":"not found"}`)}

	err := s.Delete(context.Background(), "1")

	assert.Equal(t, "not found", apierr.Message(err))
	assert.Len(t, s.Snapshot().Data, 1)
	assert.Equal(t, apierr.Structured, s.Snapshot().Err.Kind)
}

func gatedList(started chan<- struct{}, release <-chan []entity.Product) func(context.Context) ([]entity.Product, error) {
	return func(ctx context.Context) ([]entity.Product, error) {
		started <- struct{}{}
		select {
		case items := <-release:
			return items, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	s := NewProductStore(&fakeProducts{}, quietLogger())
	ctx := context.Background()
	started := make(chan struct{}, 2)
	first := make(chan []entity.Product)
	second := make(chan []entity.Product)

	firstDone := make(chan error, 1)
	go func() { firstDone <- s.fetch(ctx, gatedList(started, first)) }()
	<-started
	secondDone := make(chan error, 1)
	go func() { secondDone <- s.fetch(ctx, gatedList(started, second)) }()
	<-started

	second <- []entity.Product{product("2", "new", 1)}
	require.NoError(t, <-secondDone)
	first <- []entity.Product{product("1", "old", 1)}
	require.ErrorIs(t, <-firstDone, ErrSuperseded)

	assert.Equal(t, []entity.ID{"2"}, ids(s.Snapshot().Data))
	assert.Equal(t, entity.StatusSucceeded, s.Snapshot().Status)
}

func TestMutationInvalidatesInFlightFetch(t *testing.T) {
	gw := &fakeProducts{}
	s := NewProductStore(gw, quietLogger())
	ctx := context.Background()
	started := make(chan struct{}, 1)
	release := make(chan []entity.Product)

	fetchDone := make(chan error, 1)
	go func() { fetchDone <- s.fetch(ctx, gatedList(started, release)) }()
	<-started

	echo := product("9", "fresh", 1)
	gw.mu.Lock()
	gw.created = &echo
	gw.mu.Unlock()
	_, err := s.Create(ctx, validFields("fresh"))
	require.NoError(t, err)

	release <- []entity.Product{product("1", "pre-create", 1)}
	require.ErrorIs(t, <-fetchDone, ErrSuperseded)
	assert.Equal(t, []entity.ID{"9"}, ids(s.Snapshot().Data))
}

func TestCanceledFetchReturnsToIdle(t *testing.T) {
	s := NewProductStore(&fakeProducts{}, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() { done <- s.fetch(ctx, gatedList(started, nil)) }()
	<-started
	cancel()

	require.ErrorIs(t, <-done, ErrCanceled)
	snap := s.Snapshot()
	assert.Equal(t, entity.StatusIdle, snap.Status)
	assert.Nil(t, snap.Err)
}

func TestCanceledFetchKeepsPendingWhileCreateInFlight(t *testing.T) {
	l := newLifecycle[[]int](nil, nil)

	fetch, ok := l.begin("fetch")
	require.True(t, ok)
	create, ok := l.begin("create#1")
	require.True(t, ok)

	l.abandon("fetch", fetch)
	assert.Equal(t, entity.StatusPending, l.snapshot().Status)

	require.True(t, l.succeed("create#1", create, func(v []int) []int { return append(v, 1) }))
	snap := l.snapshot()
	assert.Equal(t, entity.StatusSucceeded, snap.Status)
	assert.Equal(t, []int{1}, snap.Data)

	update, ok := l.begin("update:1")
	require.True(t, ok)
	l.abandon("update:1", update)
	assert.Equal(t, entity.StatusIdle, l.snapshot().Status)
}

func TestSubscriptionDeliversLatestSnapshot(t *testing.T) {
	s := NewProductStore(&fakeProducts{list: []entity.Product{product("1", "A", 1)}}, quietLogger())
	sub := s.Subscribe()

	first := <-sub.C
	assert.Equal(t, entity.StatusIdle, first.Status)
	assert.Empty(t, first.Data)

	require.NoError(t, s.Fetch(context.Background()))
	latest := <-sub.C
	assert.Equal(t, entity.StatusSucceeded, latest.Status)
	assert.Len(t, latest.Data, 1)
	assert.Greater(t, latest.Revision, first.Revision)

	// snapshots are copies
	latest.Data[0].Name = "mutated"
	assert.Equal(t, "A", s.Snapshot().Data[0].Name)

	sub.Close()
	_, open := <-sub.C
	assert.False(t, open)
	sub.Close()
}

func TestClearErrorAcknowledgesFailure(t *testing.T) {
	s := NewProductStore(&fakeProducts{listErr: errUnreachable}, quietLogger())
	require.Error(t, s.Fetch(context.Background()))
	require.Equal(t, entity.StatusFailed, s.Snapshot().Status)

	s.ClearError()
	snap := s.Snapshot()
	assert.Equal(t, entity.StatusIdle, snap.Status)
	assert.Nil(t, snap.Err)
	assert.Empty(t, snap.Message())
}

func TestClosedStoreRejectsCalls(t *testing.T) {
	s, _ := loadedStore(t, product("1", "A", 1))
	sub := s.Subscribe()
	<-sub.C

	s.Close()
	_, open := <-sub.C
	assert.False(t, open)
	assert.ErrorIs(t, s.Fetch(context.Background()), ErrClosed)
	assert.ErrorIs(t, s.Delete(context.Background(), "1"), ErrClosed)
	assert.Len(t, s.Snapshot().Data, 1)
}

func TestProductStoreImport(t *testing.T) {
	gw := &fakeProducts{}
	s := NewProductStore(gw, quietLogger())
	echo := product("5", "Bolt", 3)
	gw.created = &echo

	results := s.Import(context.Background(), []repository.ProductRow{
		{Row: 2, Fields: validFields("Bolt")},
		{Row: 3, Fields: entity.ProductFields{Name: entity.Ptr("no price")}},
	})

	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].Row)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, &echo, results[0].Product)
	assert.Equal(t, 3, results[1].Row)
	assert.Error(t, results[1].Err)
	assert.Equal(t, []entity.ID{"5"}, ids(s.Snapshot().Data))
}

func TestAdminStore(t *testing.T) {
	gw := &fakeAdmins{list: []entity.Admin{{ID: "1", Email: "a@x.io"}}}
	s := NewAdminStore(gw, quietLogger())
	ctx := context.Background()

	require.NoError(t, s.Fetch(ctx))
	created, err := s.Create(ctx, entity.AdminFields{Email: "b@x.io", Name: "Bea", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, entity.ID("a-new"), created.ID)
	assert.Len(t, s.Snapshot().Data, 2)

	_, err = s.Create(ctx, entity.AdminFields{Email: "c@x.io"})
	require.Error(t, err)
	assert.Len(t, s.Snapshot().Data, 2)

	require.NoError(t, s.Delete(ctx, "1"))
	data := s.Snapshot().Data
	require.Len(t, data, 1)
	assert.Equal(t, "b@x.io", data[0].Email)
}
