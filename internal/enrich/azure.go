package enrich

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/johnwards/caseseed/internal/domain"
	"github.com/johnwards/caseseed/internal/provider"
)

const (
	analyzePath       = "/language/:analyze-text?api-version=2023-04-01"
	kindSentiment     = "SentimentAnalysis"
	kindKeyPhrases    = "KeyPhraseExtraction"
	kindEntities      = "EntityRecognition"
	subscriptionKeyHd = "Ocp-Apim-Subscription-Key"
)

// Azure analyses text with the Azure AI Language analyze-text API.
type Azure struct {
	api *provider.Client
}

// NewAzure creates an Analyzer for the Language resource at endpoint.
func NewAzure(endpoint, key string, timeout time.Duration) *Azure {
	header := http.Header{}
	header.Set(subscriptionKeyHd, key)
	return &Azure{api: provider.NewClient(provider.ClientOptions{
		BaseURL: endpoint,
		Header:  header,
		Timeout: timeout,
	})}
}

type analyzeDocument struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

type analyzeRequest struct {
	Kind          string `json:"kind"`
	AnalysisInput struct {
		Documents []analyzeDocument `json:"documents"`
	} `json:"analysisInput"`
}

type documentError struct {
	ID    string `json:"id"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type analyzeResponse[D any] struct {
	Kind    string `json:"kind"`
	Results struct {
		Documents []D             `json:"documents"`
		Errors    []documentError `json:"errors"`
	} `json:"results"`
}

type sentimentDocument struct {
	Sentiment        string             `json:"sentiment"`
	ConfidenceScores map[string]float64 `json:"confidenceScores"`
}

type keyPhraseDocument struct {
	KeyPhrases []string `json:"keyPhrases"`
}

type entityDocument struct {
	Entities []domain.TextEntity `json:"entities"`
}

// Analyze runs the three analyses concurrently. Any failure fails the whole
// analysis.
func (a *Azure) Analyze(ctx context.Context, text string) (domain.Analysis, error) {
	var (
		out       domain.Analysis
		sentiment sentimentDocument
		phrases   keyPhraseDocument
		entities  entityDocument
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return analyze(ctx, a.api, kindSentiment, text, &sentiment) })
	g.Go(func() error { return analyze(ctx, a.api, kindKeyPhrases, text, &phrases) })
	g.Go(func() error { return analyze(ctx, a.api, kindEntities, text, &entities) })
	if err := g.Wait(); err != nil {
		return domain.Analysis{}, err
	}

	out.Sentiment = sentiment.Sentiment
	out.ConfidenceScores = sentiment.ConfidenceScores
	out.KeyPhrases = phrases.KeyPhrases
	out.Entities = entities.Entities
	return out, nil
}

func analyze[D any](ctx context.Context, api *provider.Client, kind, text string, doc *D) error {
	var req analyzeRequest
	req.Kind = kind
	req.AnalysisInput.Documents = []analyzeDocument{{ID: "1", Language: "en", Text: text}}

	var resp analyzeResponse[D]
	if err := api.PostJSON(ctx, analyzePath, req, &resp); err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	if len(resp.Results.Errors) > 0 {
		e := resp.Results.Errors[0].Error
		return fmt.Errorf("%s: %s: %s", kind, e.Code, e.Message)
	}
	if len(resp.Results.Documents) == 0 {
		return fmt.Errorf("%s: no document in response", kind)
	}
	*doc = resp.Results.Documents[0]
	return nil
}
