// Package retry runs an operation under a bounded retry budget.
//
// Each call to Do drives a small explicit state machine:
//
//	Idle -> Attempting(1) -> Succeeded
//	                      -> Delaying(1) -> Attempting(2) -> ... -> Failed
//
// Delays come from a Strategy (exponential 1s, 2s, 4s by default) and are
// waited through a SleepFunc that honours context cancellation, so a delay
// only ever blocks the goroutine that called Do. Errors wrapped with Permanent
// move the machine straight to Failed.
//
//	out := retry.Do(ctx, retry.Policy{MaxAttempts: 3},
//	    func(ctx context.Context, attempt int) (string, error) {
//	        return transport.Send(ctx, msg)
//	    })
//	if out.Err != nil {
//	    // out.Attempts holds one record per attempt
//	}
package retry
