package mbox

import "sync"

var (
	defaultOnce sync.Once
	defaultMbox *Mailbox
	defaultErr  error
)

// Default returns the process-wide shared Mailbox, constructing it on the
// first call. Concurrent first-time callers block until construction
// completes and then all receive the same instance. A construction error
// is sticky: every caller observes the same failure, and there is no
// retry, matching the transport's fail-fast policy.
//
// The shared instance lives until process exit; Default installs no
// teardown. Callers needing explicit lifetime control should construct
// their own Mailbox with [New].
func Default() (*Mailbox, error) {
	defaultOnce.Do(func() {
		defaultMbox, defaultErr = New()
	})
	return defaultMbox, defaultErr
}
