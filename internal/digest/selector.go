package digest

import (
	"sort"
	"time"

	"github.com/pathakanu/taskDigest/internal/model"
)

// DateLayout is the DD/MM/YYYY format reminders are stored with.
const DateLayout = "02/01/2006"

// istOffset is UTC+5:30 in seconds.
const istOffset = 5*60*60 + 30*60

// IST is the reference zone (Asia/Kolkata) that defines "today".
var IST = loadIST()

// loadIST falls back to a fixed UTC+5:30 zone when tzdata is unavailable.
func loadIST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", istOffset)
	}
	return loc
}

// Today formats now as a due date in IST.
func Today(now time.Time) string {
	return now.In(IST).Format(DateLayout)
}

// Item is one reminder contributing to a digest.
type Item struct {
	ID      string
	Message string
}

// Batch maps a recipient to their due items in scan order.
type Batch map[string][]Item

// SelectDue groups the records whose due date is exactly today by recipient.
// Records with any other due date, including malformed ones, are left out.
func SelectDue(records []model.Reminder, today string) Batch {
	batch := Batch{}
	for _, r := range records {
		if r.DueDate != today {
			continue
		}
		batch[r.Recipient] = append(batch[r.Recipient], Item{ID: r.ID, Message: r.Message})
	}
	return batch
}

// Recipients returns the batch's recipients in lexical order.
func (b Batch) Recipients() []string {
	out := make([]string, 0, len(b))
	for recipient := range b {
		out = append(out, recipient)
	}
	sort.Strings(out)
	return out
}

// Messages returns the message bodies of items in order.
func Messages(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Message
	}
	return out
}
