package dbx

import "context"

// Journal accumulates undo steps for mutations performed against in-memory
// repositories. If the enclosing operation fails, Rollback replays the steps
// in reverse order, restoring the pre-transaction state.
//
// A Journal is not safe for concurrent use; the in-memory repository manager
// holds its write lock for the lifetime of the journal.
type Journal struct {
	undo []func()
}

func NewJournal() *Journal {
	return &Journal{}
}

// Record registers a compensating action for a mutation just performed.
func (j *Journal) Record(undo func()) {
	j.undo = append(j.undo, undo)
}

// Rollback undoes all recorded mutations, most recent first.
func (j *Journal) Rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

type journalKey struct{}

// WithJournal returns a context carrying the journal for the current
// in-memory transaction.
func WithJournal(ctx context.Context, j *Journal) context.Context {
	return context.WithValue(ctx, journalKey{}, j)
}

// JournalFrom extracts the current journal, or nil when the operation runs
// outside a transaction (reads, or SQL-backed repositories).
func JournalFrom(ctx context.Context) *Journal {
	j, _ := ctx.Value(journalKey{}).(*Journal)
	return j
}
