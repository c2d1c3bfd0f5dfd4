package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/rankwatch/internal/errors"
)

// TriggerCrawlInput contains parameters for the TriggerCrawl operation.
type TriggerCrawlInput struct {
	ID string
}

// TriggerCrawlOutput contains the result of the TriggerCrawl operation.
type TriggerCrawlOutput struct {
	ID string `json:"id"`
}

// TriggerCrawl asks the server to re-crawl one keyword. On success the
// keyword's detail entry and the list entry are invalidated: status, flag,
// and latest-run timestamp may all have changed.
func TriggerCrawl(ctx context.Context, env *Env, input TriggerCrawlInput) (*TriggerCrawlOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewValidationFailed("keyword id is required")
	}

	if err := env.Client.TriggerCrawl(ctx, isGuest(env), id); err != nil {
		return nil, err
	}

	env.Cache.Invalidate(detailResource(id))
	env.Cache.Invalidate(ResourceKeywords)

	return &TriggerCrawlOutput{ID: id}, nil
}
