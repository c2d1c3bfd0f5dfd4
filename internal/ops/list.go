package ops

import (
	"context"

	"github.com/hpungsan/rankwatch/internal/cache"
	"github.com/hpungsan/rankwatch/internal/keyword"
)

// ListKeywordsOutput contains the result of the ListKeywords operation.
type ListKeywordsOutput struct {
	Items []keyword.Summary `json:"items"`
}

// ListKeywords fetches the keyword list for the current mode, memoized until
// a mutation invalidates it. Concurrent calls share one network request.
func ListKeywords(ctx context.Context, env *Env) (*ListKeywordsOutput, error) {
	guest := isGuest(env)
	items, err := cache.Fetch(ctx, env.Cache, cacheKey(env, ResourceKeywords),
		func(ctx context.Context) ([]keyword.Summary, error) {
			return env.Client.ListKeywords(ctx, guest)
		})
	if err != nil {
		return nil, err
	}
	return &ListKeywordsOutput{Items: items}, nil
}
