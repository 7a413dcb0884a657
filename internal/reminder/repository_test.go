package reminder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pathakanu/taskDigest/internal/database"
	"github.com/pathakanu/taskDigest/internal/model"
	"github.com/pathakanu/taskDigest/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	log := zap.NewNop().Sugar()
	db, err := database.OpenMemory(t.Name(), log)
	require.NoError(t, err)
	return NewRepository(store.New(db, log), log)
}

func TestAddGeneratesUniqueIDs(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		id, err := repo.Add(ctx, Item{Recipient: "a@x.com", DueDate: "01/01/2024", Message: fmt.Sprint(i)})
		require.NoError(t, err)
		require.NotEmpty(t, id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestListByRecipientReturnsExactSubset(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.AddMany(ctx, []Item{
		{Recipient: "a@x.com", DueDate: "01/01/2024", Message: "alpha"},
		{Recipient: "b@y.com", DueDate: "01/01/2024", Message: "beta"},
		{Recipient: "a@x.com", DueDate: "02/01/2024", Message: "gamma"},
		{Recipient: "A@x.com", DueDate: "02/01/2024", Message: "delta"},
	})
	require.NoError(t, err)

	listing, err := repo.ListByRecipient(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 2, listing.Count)
	assert.Len(t, listing.Records, listing.Count)

	var messages []string
	for _, r := range listing.Records {
		assert.Equal(t, "a@x.com", r.Recipient)
		messages = append(messages, r.Message)
	}
	assert.ElementsMatch(t, []string{"alpha", "gamma"}, messages)

	empty, err := repo.ListByRecipient(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Count)
	assert.NotNil(t, empty.Records)
}

func TestUpdateReplacesAllFields(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.Add(ctx, Item{Recipient: "a@x.com", DueDate: "01/01/2024", Message: "buy milk"})
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, id, Item{Recipient: "a@x.com", DueDate: "03/01/2024", Message: "buy milky milk"}))

	listing, err := repo.ListByRecipient(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, model.Reminder{ID: id, Recipient: "a@x.com", DueDate: "03/01/2024", Message: "buy milky milk"},
		withoutTimestamps(listing.Records[0]))
}

func TestUpdateCreatesMissingRecord(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Update(ctx, "3fcd8903-c488-4ea2-940c-7da5352bf343", Item{Recipient: "a@x.com", DueDate: "01/01/2024", Message: "fresh"}))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "3fcd8903-c488-4ea2-940c-7da5352bf343", all[0].ID)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.Add(ctx, Item{Recipient: "a@x.com", DueDate: "01/01/2024", Message: "once"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))
	require.NoError(t, repo.Delete(ctx, id))
	require.NoError(t, repo.Delete(ctx, "2d545938-714a-4e57-aed1-bb7498684674"))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListDueOn(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.AddMany(ctx, []Item{
		{Recipient: "a@x.com", DueDate: "01/01/2024", Message: "today"},
		{Recipient: "a@x.com", DueDate: "02/01/2024", Message: "tomorrow"},
	})
	require.NoError(t, err)

	due, err := repo.ListDueOn(ctx, "01/01/2024")
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "today", due[0].Message)
}

type failingStore struct {
	store.RecordStore
	failAfter int
	puts      int
}

func (f *failingStore) Put(ctx context.Context, r *model.Reminder) error {
	f.puts++
	if f.puts > f.failAfter {
		return fmt.Errorf("%w: put: throttled", store.ErrStoreOperationFailed)
	}
	return nil
}

func TestAddManyStopsAtFirstFailure(t *testing.T) {
	repo := NewRepository(&failingStore{failAfter: 1}, zap.NewNop().Sugar())

	ids, err := repo.AddMany(context.Background(), []Item{
		{Recipient: "a@x.com", DueDate: "01/01/2024", Message: "one"},
		{Recipient: "a@x.com", DueDate: "01/01/2024", Message: "two"},
		{Recipient: "a@x.com", DueDate: "01/01/2024", Message: "three"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrStoreOperationFailed))
	assert.Len(t, ids, 1)
}

func withoutTimestamps(r model.Reminder) model.Reminder {
	r.CreatedAt = model.Reminder{}.CreatedAt
	return r
}
