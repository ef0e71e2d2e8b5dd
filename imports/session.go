package imports

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"contact-importer/common"
	"contact-importer/contacts"
)

// Batch-level states of an upload session
const (
	StateIdle      = "idle"
	StateRunning   = "running"
	StateCompleted = "completed"
	StateCanceled  = "canceled"
)

// fallbackUploadError is shown when a failed create call carries no message
const fallbackUploadError = "Failed to upload contact"

// CreateContactFunc is the external create-contact operation the session
// drives. The context carries the session's cancel signal, so an in-flight
// call must abort when the session is canceled.
type CreateContactFunc func(ctx context.Context, contact contacts.Contact) (*contacts.Contact, error)

// Progress is the counter tuple published after every settled item
type Progress struct {
	ProcessedCount int `json:"processed_count"`
	SuccessCount   int `json:"success_count"`
	FailureCount   int `json:"failure_count"`
	Total          int `json:"total"`
}

// ProgressFunc consumes progress updates; called once per settled item
type ProgressFunc func(p Progress)

// Session drives the upload of one validated, deduplicated batch. Items are
// uploaded strictly sequentially in batch order; each transitions
// pending → success or pending → error exactly once. A per-item failure
// never stops the loop, only cancellation does. The session is the sole
// writer of the item slice while running; readers get copies.
type Session struct {
	mu       sync.Mutex
	items    []contacts.ContactWithStatus
	state    string
	progress Progress
	cancel   context.CancelFunc

	create     CreateContactFunc
	onProgress ProgressFunc
	notifier   common.Notifier
}

// NewSession prepares an idle session for the batch. onProgress and notifier
// may be nil.
func NewSession(batch []contacts.Contact, create CreateContactFunc, onProgress ProgressFunc, notifier common.Notifier) *Session {
	items := make([]contacts.ContactWithStatus, len(batch))
	for i, contact := range batch {
		items[i] = contacts.ContactWithStatus{Contact: contact, Status: contacts.StatusPending}
	}

	return &Session{
		items:      items,
		state:      StateIdle,
		progress:   Progress{Total: len(batch)},
		create:     create,
		onProgress: onProgress,
		notifier:   notifier,
	}
}

// Upload runs the sequential upload loop to completion or cancellation. It
// blocks until the batch settles and must not be called while the session is
// already running.
func (s *Session) Upload(ctx context.Context) {
	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		return
	}

	// Entering running resets all statuses and counters
	for i := range s.items {
		s.items[i].Status = contacts.StatusPending
		s.items[i].ErrorMessage = ""
	}
	s.state = StateRunning
	s.progress = Progress{Total: len(s.items)}

	// One single-use cancel signal per upload session
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	total := len(s.items)
	s.mu.Unlock()

	defer cancel()

	for i := 0; i < total; i++ {
		// Cancellation is checked before starting each item; items not yet
		// attempted stay pending
		if runCtx.Err() != nil {
			s.finish(StateCanceled)
			return
		}

		s.mu.Lock()
		contact := s.items[i].Contact
		s.mu.Unlock()

		created, err := s.create(runCtx, contact)

		if err != nil && errors.Is(err, context.Canceled) {
			// The in-flight call was aborted by the cancel signal; the item
			// stays pending and the loop halts without further calls
			s.finish(StateCanceled)
			return
		}

		s.mu.Lock()
		if err != nil {
			s.items[i].Status = contacts.StatusError
			s.items[i].ErrorMessage = uploadErrorMessage(err)
			s.progress.FailureCount++
		} else {
			if created != nil && created.ContactID != "" {
				s.items[i].Contact.ContactID = created.ContactID
			}
			s.items[i].Status = contacts.StatusSuccess
			s.progress.SuccessCount++
		}
		s.progress.ProcessedCount++
		published := s.progress
		s.mu.Unlock()

		s.publish(published)
	}

	s.finish(StateCompleted)
}

// Cancel requests a halt of the running upload. It is advisory and
// idempotent: the in-flight call aborts through the shared signal, settled
// items keep their status and unattempted items stay pending.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning && s.cancel != nil {
		s.cancel()
	}
}

// State returns the batch-level state
func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Progress returns a copy of the current counters
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Snapshot returns a copy of the per-item statuses; the session never shares
// its own slice with readers
func (s *Session) Snapshot() []contacts.ContactWithStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]contacts.ContactWithStatus, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Session) finish(state string) {
	s.mu.Lock()
	s.state = state
	p := s.progress
	s.mu.Unlock()

	if s.notifier == nil {
		return
	}

	switch state {
	case StateCanceled:
		s.notifier.Notify(common.Notification{
			Level:   common.NotifyInfo,
			Message: fmt.Sprintf("Upload canceled after %d of %d contacts", p.ProcessedCount, p.Total),
		})
	default:
		level := common.NotifySuccess
		if p.FailureCount > 0 {
			level = common.NotifyError
		}
		s.notifier.Notify(common.Notification{
			Level:   level,
			Message: fmt.Sprintf("Upload finished: %d succeeded, %d failed", p.SuccessCount, p.FailureCount),
		})
	}
}

func (s *Session) publish(p Progress) {
	if s.onProgress != nil {
		s.onProgress(p)
	}
}

// uploadErrorMessage extracts a user-facing message from a failed create
// call. Structured API errors already prefer their first error_message.
func uploadErrorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return fallbackUploadError
	}
	return err.Error()
}
