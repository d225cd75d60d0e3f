package usecase

import (
	"context"
	"fmt"
	"time"

	"ProductImporter/internal/domain"
)

type recordingSleeper struct {
	slept []time.Duration
	err   error
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.slept = append(s.slept, d)
	return s.err
}

type fakeResolver struct {
	result domain.Enrichment
	calls  []string
}

func (f *fakeResolver) Resolve(_ context.Context, name, _, _ string) domain.Enrichment {
	f.calls = append(f.calls, name)
	return f.result
}

type fakeSubmitter struct {
	failAt map[int]domain.SubmitResult
	calls  []string
	shops  []string
}

func (f *fakeSubmitter) CreateProduct(_ context.Context, p domain.Product, _, shopID string) domain.SubmitResult {
	f.calls = append(f.calls, p.Name)
	f.shops = append(f.shops, shopID)
	if res, ok := f.failAt[len(f.calls)]; ok {
		return res
	}
	return domain.SubmitResult{Success: true, StatusCode: 201, Data: []byte(fmt.Sprintf(`{"id":%d}`, len(f.calls)))}
}

type fakeTokens struct {
	token domain.Token
	err   error
	calls int
}

func (f *fakeTokens) FetchToken(context.Context, string, string) (domain.Token, error) {
	f.calls++
	return f.token, f.err
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) PublishSummary(_ context.Context, text string) error {
	f.messages = append(f.messages, text)
	return f.err
}

func products(names ...string) []domain.Product {
	out := make([]domain.Product, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Product{Name: n, SKU: n})
	}
	return out
}

func collect(events *[]domain.ProgressEvent) domain.ProgressFunc {
	return func(e domain.ProgressEvent) {
		*events = append(*events, e)
	}
}
