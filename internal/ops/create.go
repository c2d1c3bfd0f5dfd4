package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/rankwatch/internal/api"
	"github.com/hpungsan/rankwatch/internal/errors"
	"github.com/hpungsan/rankwatch/internal/keyword"
)

// CreateKeywordInput contains parameters for the CreateKeyword operation.
// TargetNames and TargetDomains are comma-separated as typed in the form.
type CreateKeywordInput struct {
	Query         string
	Category      string
	TargetNames   string
	TargetDomains string
	Notes         string
}

// CreateKeywordOutput contains the result of the CreateKeyword operation.
type CreateKeywordOutput struct {
	Keyword *keyword.Detail `json:"keyword"`
}

// CreateKeyword registers a new keyword to monitor. No cache entry is
// pre-populated: the subsequent detail view performs a fresh fetch.
func CreateKeyword(ctx context.Context, env *Env, input CreateKeywordInput) (*CreateKeywordOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewValidationFailed("query is required")
	}

	created, err := env.Client.CreateKeyword(ctx, api.CreateKeywordPayload{
		Query:         query,
		Category:      optional(input.Category),
		TargetNames:   parseCommaSeparated(input.TargetNames),
		TargetDomains: parseCommaSeparated(input.TargetDomains),
		Notes:         optional(input.Notes),
	})
	if err != nil {
		return nil, err
	}

	return &CreateKeywordOutput{Keyword: created}, nil
}
