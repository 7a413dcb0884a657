// Package reminder provides typed reminder operations on top of a record store.
package reminder

import (
	"context"

	"github.com/google/uuid"
	"github.com/pathakanu/taskDigest/internal/model"
	"github.com/pathakanu/taskDigest/internal/store"
	"go.uber.org/zap"
)

// Item is the caller-supplied content of a reminder.
type Item struct {
	Recipient string
	DueDate   string
	Message   string
}

// Listing is the result of a recipient lookup.
type Listing struct {
	Records []model.Reminder `json:"data"`
	Count   int              `json:"count"`
}

// Repository owns id generation and exposes reminder operations.
type Repository struct {
	store  store.RecordStore
	logger *zap.SugaredLogger
	newID  func() string
}

// NewRepository returns a repository that generates random UUIDs for new reminders.
func NewRepository(s store.RecordStore, logger *zap.SugaredLogger) *Repository {
	return &Repository{
		store:  s,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Add stores a new reminder and returns its generated id.
func (r *Repository) Add(ctx context.Context, item Item) (string, error) {
	id := r.newID()
	if err := r.put(ctx, id, item); err != nil {
		return "", err
	}
	r.logger.Infow("reminder added", "id", id, "recipient", item.Recipient, "dueDate", item.DueDate)
	return id, nil
}

// AddMany adds items in order and stops at the first failure.
// The ids of the reminders stored before the failure are returned with the error.
func (r *Repository) AddMany(ctx context.Context, items []Item) ([]string, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id, err := r.Add(ctx, item)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Update replaces every field of the reminder with id, creating it if absent.
func (r *Repository) Update(ctx context.Context, id string, item Item) error {
	if err := r.put(ctx, id, item); err != nil {
		return err
	}
	r.logger.Infow("reminder updated", "id", id, "recipient", item.Recipient, "dueDate", item.DueDate)
	return nil
}

// Delete removes the reminder with id. Unknown ids are ignored.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}
	r.logger.Infow("reminder deleted", "id", id)
	return nil
}

// ListByRecipient returns every reminder addressed to recipient.
func (r *Repository) ListByRecipient(ctx context.Context, recipient string) (Listing, error) {
	records, err := r.store.Scan(ctx, store.ByRecipient(recipient))
	if err != nil {
		return Listing{}, err
	}
	return Listing{Records: records, Count: len(records)}, nil
}

// ListAll returns every stored reminder.
func (r *Repository) ListAll(ctx context.Context) ([]model.Reminder, error) {
	return r.store.Scan(ctx, store.Filter{})
}

// ListDueOn returns the reminders whose due date equals date.
func (r *Repository) ListDueOn(ctx context.Context, date string) ([]model.Reminder, error) {
	return r.store.Scan(ctx, store.DueOn(date))
}

func (r *Repository) put(ctx context.Context, id string, item Item) error {
	return r.store.Put(ctx, &model.Reminder{
		ID:        id,
		Recipient: item.Recipient,
		DueDate:   item.DueDate,
		Message:   item.Message,
	})
}
