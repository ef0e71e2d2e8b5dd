package imports

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contact-importer/contacts"
	"contact-importer/parsers"
)

func testBatch(n int) []contacts.Contact {
	batch := make([]contacts.Contact, n)
	for i := range batch {
		batch[i] = contacts.FromCSVRecord(parsers.Record{
			"first_name": "Contact",
			"last_name":  "Test",
			"email":      "contact@x.com",
		}, time.Now())
	}
	return batch
}

func succeedingCreate(ctx context.Context, contact contacts.Contact) (*contacts.Contact, error) {
	created := contact
	created.ContactID = "remote-id"
	return &created, nil
}

func TestSessionUpload_AllSucceed(t *testing.T) {
	session := NewSession(testBatch(3), succeedingCreate, nil, nil)
	session.Upload(context.Background())

	assert.Equal(t, StateCompleted, session.State())
	assert.Equal(t, Progress{ProcessedCount: 3, SuccessCount: 3, FailureCount: 0, Total: 3}, session.Progress())

	for _, item := range session.Snapshot() {
		assert.Equal(t, contacts.StatusSuccess, item.Status)
		assert.Equal(t, "remote-id", item.Contact.ContactID)
		assert.Empty(t, item.ErrorMessage)
	}
}

func TestSessionUpload_FailureDoesNotStopLoop(t *testing.T) {
	calls := 0
	create := func(ctx context.Context, contact contacts.Contact) (*contacts.Contact, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("email_address: invalid")
		}
		return succeedingCreate(ctx, contact)
	}

	session := NewSession(testBatch(3), create, nil, nil)
	session.Upload(context.Background())

	assert.Equal(t, StateCompleted, session.State())
	assert.Equal(t, Progress{ProcessedCount: 3, SuccessCount: 2, FailureCount: 1, Total: 3}, session.Progress())

	items := session.Snapshot()
	require.Len(t, items, 3)
	assert.Equal(t, contacts.StatusSuccess, items[0].Status)
	assert.Equal(t, contacts.StatusError, items[1].Status)
	assert.Equal(t, "email_address: invalid", items[1].ErrorMessage)
	assert.Equal(t, contacts.StatusSuccess, items[2].Status)
}

type blankError struct{}

func (blankError) Error() string { return "" }

func TestSessionUpload_FallbackErrorMessage(t *testing.T) {
	create := func(ctx context.Context, contact contacts.Contact) (*contacts.Contact, error) {
		return nil, blankError{}
	}

	session := NewSession(testBatch(1), create, nil, nil)
	session.Upload(context.Background())

	items := session.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, "Failed to upload contact", items[0].ErrorMessage)
}

func TestSessionUpload_PublishesProgressPerItem(t *testing.T) {
	var published []Progress
	onProgress := func(p Progress) { published = append(published, p) }

	session := NewSession(testBatch(3), succeedingCreate, onProgress, nil)
	session.Upload(context.Background())

	require.Len(t, published, 3, "One update per settled item")
	for i, p := range published {
		assert.Equal(t, i+1, p.ProcessedCount)
		assert.Equal(t, 3, p.Total)
	}
}

func TestSessionUpload_CancelMidBatch(t *testing.T) {
	session := NewSession(testBatch(4), nil, nil, nil)

	calls := 0
	session.create = func(ctx context.Context, contact contacts.Contact) (*contacts.Contact, error) {
		calls++
		if calls == 2 {
			// Cancel lands while this call is in flight
			session.Cancel()
			return nil, ctx.Err()
		}
		return succeedingCreate(ctx, contact)
	}

	session.Upload(context.Background())

	assert.Equal(t, StateCanceled, session.State())
	assert.Equal(t, 2, calls, "No further create calls after cancellation")

	items := session.Snapshot()
	require.Len(t, items, 4)
	assert.Equal(t, contacts.StatusSuccess, items[0].Status, "Settled items keep their status")
	assert.Equal(t, contacts.StatusPending, items[1].Status, "The aborted in-flight item stays pending")
	assert.Equal(t, contacts.StatusPending, items[2].Status)
	assert.Equal(t, contacts.StatusPending, items[3].Status)

	p := session.Progress()
	assert.Equal(t, 1, p.ProcessedCount)
	assert.Equal(t, 1, p.SuccessCount)
	assert.Equal(t, 0, p.FailureCount)
}

func TestSessionUpload_CanceledParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	create := func(ctx context.Context, contact contacts.Contact) (*contacts.Contact, error) {
		calls++
		return succeedingCreate(ctx, contact)
	}

	session := NewSession(testBatch(2), create, nil, nil)
	session.Upload(ctx)

	assert.Equal(t, StateCanceled, session.State())
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, session.Progress().ProcessedCount)
}

func TestSessionUpload_ReentryGuard(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	var mu sync.Mutex

	create := func(ctx context.Context, contact contacts.Contact) (*contacts.Contact, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(started)
			<-release
		}
		return succeedingCreate(ctx, contact)
	}

	session := NewSession(testBatch(2), create, nil, nil)

	done := make(chan struct{})
	go func() {
		session.Upload(context.Background())
		close(done)
	}()

	<-started
	session.Upload(context.Background()) // returns immediately, session already running
	close(release)
	<-done

	assert.Equal(t, StateCompleted, session.State())
	assert.Equal(t, 2, calls, "The second Upload call must not re-drive the batch")
}

func TestSessionUpload_RerunResetsState(t *testing.T) {
	failing := true
	create := func(ctx context.Context, contact contacts.Contact) (*contacts.Contact, error) {
		if failing {
			return nil, errors.New("temporarily unavailable")
		}
		return succeedingCreate(ctx, contact)
	}

	session := NewSession(testBatch(2), create, nil, nil)
	session.Upload(context.Background())
	assert.Equal(t, 2, session.Progress().FailureCount)

	failing = false
	session.Upload(context.Background())

	assert.Equal(t, StateCompleted, session.State())
	assert.Equal(t, Progress{ProcessedCount: 2, SuccessCount: 2, FailureCount: 0, Total: 2}, session.Progress())
	for _, item := range session.Snapshot() {
		assert.Equal(t, contacts.StatusSuccess, item.Status)
		assert.Empty(t, item.ErrorMessage)
	}
}

func TestSessionUpload_EmptyBatchCompletes(t *testing.T) {
	session := NewSession(nil, succeedingCreate, nil, nil)
	session.Upload(context.Background())

	assert.Equal(t, StateCompleted, session.State())
	assert.Equal(t, Progress{}, session.Progress())
}

func TestSessionSnapshot_ReturnsCopy(t *testing.T) {
	session := NewSession(testBatch(1), succeedingCreate, nil, nil)

	snapshot := session.Snapshot()
	snapshot[0].Status = contacts.StatusError

	assert.Equal(t, contacts.StatusPending, session.Snapshot()[0].Status)
}

func TestSessionCancel_IdleIsNoop(t *testing.T) {
	session := NewSession(testBatch(1), succeedingCreate, nil, nil)
	session.Cancel()

	assert.Equal(t, StateIdle, session.State())
}
