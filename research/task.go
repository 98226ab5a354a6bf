package research

import (
	"context"
	"errors"
	"fmt"
)

// TaskResult carries what one search task contributed to the run. It is
// consumed by the scheduler only; findings and sources are already in the
// collector by the time the result is returned.
type TaskResult struct {
	Findings  []Finding
	FollowUps []string
	Err       error
}

// runTask executes one sub-query end to end: search the provider under the
// task timeout, register every returned source, summarize, register the
// findings. Sources are registered before summarization on purpose: a
// summarizer failure must not lose the record of what was visited.
func (r *run) runTask(ctx context.Context, sq SubQuery) TaskResult {
	docs, err := r.searchWithTimeout(ctx, sq.Text)
	if err != nil {
		kind := ProviderFailure
		if errors.Is(err, context.DeadlineExceeded) {
			kind = ProviderTimeout
		}
		return TaskResult{Err: &TaskError{Kind: kind, Query: sq.Text, Err: err}}
	}

	for _, doc := range docs {
		r.collector.AddSource(SourceRef{URL: doc.URL, Title: doc.Title})
	}

	if len(docs) == 0 {
		r.eng.cfg.Logger.Debug("no documents for %q", sq.Text)
		return TaskResult{}
	}

	summary, err := r.eng.cfg.Summarizer.Summarize(ctx, docs, sq.ParentContext)
	if err != nil {
		return TaskResult{Err: &TaskError{Kind: SummarizerFailure, Query: sq.Text, Err: err}}
	}

	res := TaskResult{FollowUps: summary.FollowUps}
	for _, f := range summary.Findings {
		merged := r.collector.AddFinding(f)
		if merged.Text != "" {
			res.Findings = append(res.Findings, merged)
		}
	}
	return res
}

// searchWithTimeout runs the provider with retries under the per-task
// timeout.
func (r *run) searchWithTimeout(ctx context.Context, query string) ([]Document, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.eng.cfg.TaskTimeout)
	defer cancel()

	type result struct {
		docs []Document
		err  error
	}
	resultChan := make(chan result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				resultChan <- result{err: fmt.Errorf("panic in search provider: %v", rec)}
			}
		}()
		docs, err := retrySearch(timeoutCtx, r.eng.cfg.Retry, query, func(ctx context.Context) ([]Document, error) {
			return r.eng.cfg.Provider.Search(ctx, query)
		})
		resultChan <- result{docs: docs, err: err}
	}()

	select {
	case res := <-resultChan:
		return res.docs, res.err
	case <-timeoutCtx.Done():
		return nil, timeoutCtx.Err()
	}
}
