package view

import (
	"fmt"
	"io"
	"sync"
)

// ErrorState shows an error message with a retry control. The zero value is
// ready to use.
type ErrorState struct {
	Message string

	once  sync.Once
	retry chan struct{}
}

// NewErrorState creates an ErrorState. An empty message renders the default.
func NewErrorState(message string) *ErrorState {
	return &ErrorState{Message: message}
}

func (e *ErrorState) init() {
	e.once.Do(func() {
		e.retry = make(chan struct{}, 1)
	})
}

// Text returns the message to display.
func (e *ErrorState) Text() string {
	if e.Message == "" {
		return T("common.error")
	}
	return e.Message
}

// Render writes the message followed by the retry control.
func (e *ErrorState) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n[ %s ]\n", e.Text(), T("common.retry"))
	return err
}

// Retry delivers one event per retry request.
func (e *ErrorState) Retry() <-chan struct{} {
	e.init()
	return e.retry
}

// PressRetry emits a retry event. Presses are coalesced while one is pending.
func (e *ErrorState) PressRetry() {
	e.init()
	select {
	case e.retry <- struct{}{}:
	default:
	}
}

// EmptyState tells the user that no brick sets matched.
type EmptyState struct{}

// Render writes the empty-results message and guidance.
func (EmptyState) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", T("bricksets.noResults"), T("bricksets.noResultsHelp"))
	return err
}
