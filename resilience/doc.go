// Package resilience provides the waiting loops speechkit relies on.
//
//   - Poll: fixed-interval status polling with attempt and time budgets
//   - Retry: exponential backoff for idempotent requests
//   - Bulkhead: caps the number of concurrent long-running calls
//
// Every loop honours context cancellation during its waits, and the wait
// itself can be replaced (PollConfig.Sleep, RetryConfig.Sleep) so tests run
// without real delays.
//
//	snap, err := resilience.Poll(ctx, resilience.DefaultPollConfig(),
//	    func(ctx context.Context, attempt int) (*Transcript, bool, error) {
//	        t, err := client.Get(ctx, id)
//	        if err != nil {
//	            return nil, false, err
//	        }
//	        return t, t.Status.Terminal(), nil
//	    })
package resilience
