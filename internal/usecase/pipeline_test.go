package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ProductImporter/internal/domain"
)

func sampleTable() domain.Table {
	return domain.Table{
		Headers: []string{"Ürün Adı", "Fiyat", "Stok"},
		Rows: []domain.Row{
			{"Ürün Adı": "Widget", "Fiyat": "99,90 TL", "Stok": "5"},
			{"Ürün Adı": "Gadget", "Fiyat": "1.234,56", "Stok": "2"},
		},
	}
}

func newTestPipeline(submitter *fakeSubmitter, tokens *fakeTokens, notifier *fakeNotifier) *Pipeline {
	deps := PipelineDeps{
		Enricher: NewEnricher(EnricherDeps{
			Resolver: &fakeResolver{result: domain.Enrichment{Description: "Zenginleştirilmiş açıklama metni.", Image: "https://img.example.com/x.jpg"}},
			Sleeper:  &recordingSleeper{},
		}),
		Importer: NewImporter(ImporterDeps{Submitter: submitter, Sleeper: &recordingSleeper{}}),
	}
	if tokens != nil {
		deps.Tokens = tokens
	}
	if notifier != nil {
		deps.Notifier = notifier
	}
	return NewPipeline(deps)
}

func TestPipelineRunImportsAndNotifies(t *testing.T) {
	t.Parallel()

	submitter := &fakeSubmitter{failAt: map[int]domain.SubmitResult{2: {Error: "SKU exists", StatusCode: 400}}}
	notifier := &fakeNotifier{}
	p := newTestPipeline(submitter, nil, notifier)

	var events []domain.ProgressEvent
	report, err := p.Run(context.Background(), Request{
		Table:       sampleTable(),
		Enrich:      true,
		AccessToken: "tok",
		ShopID:      "shop",
		OnProgress:  collect(&events),
	})
	require.NoError(t, err)

	_, parseErr := uuid.Parse(report.SessionID)
	assert.NoError(t, parseErr)

	require.Len(t, report.Products, 2)
	assert.Equal(t, "widget", report.Products[0].SKU)
	assert.Equal(t, "https://img.example.com/x.jpg", report.Products[1].Image)

	assert.Equal(t, domain.ImportSummary{Total: 2, Succeeded: 1, Failed: 1}, report.Summary)
	assert.Len(t, events, 4, "two enrichment and two import events")

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "1 başarılı, 1 başarısız (toplam 2)")
	assert.Contains(t, notifier.messages[0], "- #2 Gadget: SKU exists (400)")
}

func TestPipelineDryRunSkipsImport(t *testing.T) {
	t.Parallel()

	submitter := &fakeSubmitter{}
	p := newTestPipeline(submitter, nil, nil)

	report, err := p.Run(context.Background(), Request{Table: sampleTable(), DryRun: true})
	require.NoError(t, err)
	assert.Len(t, report.Products, 2)
	assert.Empty(t, report.Outcomes)
	assert.Empty(t, submitter.calls)
	assert.Empty(t, report.Products[0].Description, "enrichment is opt-in")
}

func TestPipelineFetchesTokenWhenMissing(t *testing.T) {
	t.Parallel()

	submitter := &fakeSubmitter{}
	tokens := &fakeTokens{token: domain.Token{AccessToken: "fetched"}}
	p := newTestPipeline(submitter, tokens, nil)

	report, err := p.Run(context.Background(), Request{
		Table:        sampleTable(),
		ClientID:     "id",
		ClientSecret: "secret",
		ShopID:       "shop",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, tokens.calls)
	assert.Equal(t, 2, report.Summary.Succeeded)
}

func TestPipelineCredentialErrors(t *testing.T) {
	t.Parallel()

	submitter := &fakeSubmitter{}

	_, err := newTestPipeline(submitter, nil, nil).Run(context.Background(), Request{Table: sampleTable(), ShopID: "shop"})
	assert.True(t, errors.Is(err, ErrMissingCredentials))

	_, err = newTestPipeline(submitter, nil, nil).Run(context.Background(), Request{Table: sampleTable(), AccessToken: "tok"})
	assert.True(t, errors.Is(err, ErrMissingCredentials))

	tokens := &fakeTokens{err: errors.New("invalid_client")}
	_, err = newTestPipeline(submitter, tokens, nil).Run(context.Background(), Request{
		Table: sampleTable(), ClientID: "id", ClientSecret: "bad", ShopID: "shop",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_client")

	assert.Empty(t, submitter.calls)
}

func TestPipelineEmptyTable(t *testing.T) {
	t.Parallel()

	report, err := newTestPipeline(&fakeSubmitter{}, nil, nil).Run(context.Background(), Request{})
	require.NoError(t, err)
	assert.Empty(t, report.Products)
	assert.NotEmpty(t, report.SessionID)
}
