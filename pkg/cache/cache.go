package cache

import (
	"context"
	"errors"

	"devevents/pkg/model"
)

var ErrCacheMiss = errors.New("cache miss")

// EventCache holds events keyed by slug. Implementations must treat a
// missing entry as ErrCacheMiss and never as a nil event with nil error.
type EventCache interface {
	Get(ctx context.Context, slug string) (*model.Event, error)
	Set(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, slugs ...string) error
}

type NopEventCache struct{}

func (NopEventCache) Get(context.Context, string) (*model.Event, error) {
	return nil, ErrCacheMiss
}

func (NopEventCache) Set(context.Context, *model.Event) error {
	return nil
}

func (NopEventCache) Delete(context.Context, ...string) error {
	return nil
}
