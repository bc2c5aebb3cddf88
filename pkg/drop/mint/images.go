package mint

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/candy-drop/pkg/cache"
	"github.com/code-payments/candy-drop/pkg/drop"
)

// cachingImageFetcher remembers resolved image references by metadata URI.
// Failures are not cached so the next refresh retries them.
type cachingImageFetcher struct {
	log   *logrus.Entry
	next  drop.ImageFetcher
	cache *cache.Cache[string]
}

func newCachingImageFetcher(next drop.ImageFetcher, budget int) *cachingImageFetcher {
	return &cachingImageFetcher{
		log:   logrus.StandardLogger().WithField("type", "mint/images"),
		next:  next,
		cache: cache.New[string](budget),
	}
}

func (f *cachingImageFetcher) FetchImage(ctx context.Context, uri string) (string, error) {
	if image, ok := f.cache.Retrieve(uri); ok {
		return image, nil
	}

	image, err := f.next.FetchImage(ctx, uri)
	if err != nil {
		return "", err
	}

	// Concurrent refreshes can race to insert the same uri
	if err := f.cache.Insert(uri, image, 1); err != nil && !errors.Is(err, cache.ErrKeyExists) {
		f.log.WithError(err).WithField("uri", uri).Warn("failed to cache image")
	}
	return image, nil
}
