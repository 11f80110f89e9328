package reviews

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BatchConcurrency limits the number of in-flight calls of a batch operation.
const BatchConcurrency = 5

// BatchError records a failed item of a batch operation
type BatchError struct {
	ReviewID string
	Err      error
}

// BatchResult summarizes a batch operation
type BatchResult struct {
	Requested int
	Succeeded []string
	Failed    []BatchError
}

// HasFailures reports whether any item failed
func (r BatchResult) HasFailures() bool {
	return len(r.Failed) > 0
}

// BatchApprove approves each review concurrently. A failed item does not stop the others.
func BatchApprove(ctx context.Context, api API, reviewIDs []string) BatchResult {
	return runBatch(ctx, reviewIDs, func(ctx context.Context, id string) error {
		_, err := api.Approve(ctx, id)
		return err
	})
}

// BatchDelete deletes each review concurrently. A failed item does not stop the others.
func BatchDelete(ctx context.Context, api API, reviewIDs []string) BatchResult {
	return runBatch(ctx, reviewIDs, func(ctx context.Context, id string) error {
		_, err := api.Delete(ctx, id)
		return err
	})
}

func runBatch(ctx context.Context, reviewIDs []string, fn func(context.Context, string) error) BatchResult {
	result := BatchResult{Requested: len(reviewIDs)}
	if len(reviewIDs) == 0 {
		return result
	}

	// Item errors are collected rather than returned so one failure does not cancel the group.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(BatchConcurrency)

	var mu sync.Mutex
	for _, id := range reviewIDs {
		g.Go(func() error {
			err := fn(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, BatchError{ReviewID: id, Err: err})
			} else {
				result.Succeeded = append(result.Succeeded, id)
			}
			return nil
		})
	}
	_ = g.Wait()

	// Keep output stable regardless of completion order
	order := make(map[string]int, len(reviewIDs))
	for i, id := range reviewIDs {
		if _, seen := order[id]; !seen {
			order[id] = i
		}
	}
	slices.SortStableFunc(result.Succeeded, func(a, b string) int { return order[a] - order[b] })
	slices.SortStableFunc(result.Failed, func(a, b BatchError) int { return order[a.ReviewID] - order[b.ReviewID] })

	return result
}
