package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/rankwatch/internal/cache"
	"github.com/hpungsan/rankwatch/internal/errors"
	"github.com/hpungsan/rankwatch/internal/keyword"
)

// KeywordDetailInput contains parameters for the KeywordDetail operation.
type KeywordDetailInput struct {
	ID string
}

// KeywordDetailOutput contains the result of the KeywordDetail operation.
type KeywordDetailOutput struct {
	Detail *keyword.Detail `json:"detail"`
}

// KeywordDetail fetches the detail projection for one keyword, memoized per
// mode until invalidated.
func KeywordDetail(ctx context.Context, env *Env, input KeywordDetailInput) (*KeywordDetailOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewValidationFailed("keyword id is required")
	}

	guest := isGuest(env)
	detail, err := cache.Fetch(ctx, env.Cache, cacheKey(env, detailResource(id)),
		func(ctx context.Context) (*keyword.Detail, error) {
			return env.Client.KeywordDetail(ctx, guest, id)
		})
	if err != nil {
		return nil, err
	}
	return &KeywordDetailOutput{Detail: detail}, nil
}
