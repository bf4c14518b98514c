package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prasetyoadi/admin-directory/internal/cache"
	"github.com/prasetyoadi/admin-directory/internal/domain/entity"
	"github.com/prasetyoadi/admin-directory/internal/domain/repository"
	"github.com/prasetyoadi/admin-directory/internal/monitoring"
)

// Page-size bounds for paginated reads; anything outside is clamped, never
// rejected.
const (
	MinPerPage = 10
	MaxPerPage = 50
)

// DefaultCollectionLimit applies when a collection read passes a non-positive
// limit; MaxCollectionLimit caps it.
const (
	DefaultCollectionLimit = 20
	MaxCollectionLimit     = 50
)

// streamBatchSize is the keyset batch for Stream; large enough to amortize
// round trips, small enough to stay memory-bounded.
const streamBatchSize = 500

// SearchService answers directory searches through the cache. A nil cache
// means every read computes directly.
type SearchService struct {
	repo   repository.UserRepository
	cache  cache.Cache
	logger *logrus.Logger
	ttl    time.Duration
}

func NewSearchService(repo repository.UserRepository, c cache.Cache, logger *logrus.Logger, ttl time.Duration) *SearchService {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &SearchService{repo: repo, cache: c, logger: logger, ttl: ttl}
}

func clampPerPage(perPage int) int {
	if perPage < MinPerPage {
		return MinPerPage
	}
	if perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

// Paginated returns one page of users matching query, served from cache when
// possible. Identical arguments within the TTL window return identical
// results even if the store changed in between.
func (s *SearchService) Paginated(ctx context.Context, query string, perPage, page int) (*entity.UserPage, error) {
	query = strings.TrimSpace(query)
	perPage = clampPerPage(perPage)
	if page < 1 {
		page = 1
	}

	key := cache.SearchKey(cache.KindPaginated, query, perPage, page)
	result, hit, err := cache.Remember(ctx, s.cache, key, s.ttl, cache.SearchTags(), func(ctx context.Context) (*entity.UserPage, error) {
		return s.paginatedDirect(ctx, query, perPage, page)
	})
	if err != nil {
		return nil, err
	}
	monitoring.ObserveCacheLookup(cache.KindPaginated, hit)
	return result, nil
}

// paginatedDirect always hits the repository; it is also the uncached
// fallback for the dashboard read.
func (s *SearchService) paginatedDirect(ctx context.Context, query string, perPage, page int) (*entity.UserPage, error) {
	users, total, err := s.repo.SearchPage(ctx, query, perPage, page)
	if err != nil {
		return nil, err
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &entity.UserPage{
		Items:      users,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		Search:     query,
	}, nil
}

// SearchCollection returns up to limit matching users without pagination
// metadata, for lightweight API consumers.
func (s *SearchService) SearchCollection(ctx context.Context, query string, limit int) ([]entity.User, error) {
	query = strings.TrimSpace(query)
	if limit < 1 {
		limit = DefaultCollectionLimit
	}
	if limit > MaxCollectionLimit {
		limit = MaxCollectionLimit
	}

	key := cache.SearchKey(cache.KindCollection, query, limit, 0)
	users, hit, err := cache.Remember(ctx, s.cache, key, s.ttl, cache.SearchTags(), func(ctx context.Context) ([]entity.User, error) {
		return s.repo.SearchCollection(ctx, query, limit)
	})
	if err != nil {
		return nil, err
	}
	monitoring.ObserveCacheLookup(cache.KindCollection, hit)
	return users, nil
}

// Stream iterates the full matching set in ascending id order via keyset
// batches, never holding more than one batch in memory. Results bypass the
// cache. Rows mutated during iteration may be seen or skipped; that race is
// accepted.
func (s *SearchService) Stream(ctx context.Context, query string) *UserIterator {
	return &UserIterator{
		ctx:       ctx,
		repo:      s.repo,
		query:     strings.TrimSpace(query),
		batchSize: streamBatchSize,
	}
}

// ClearCache drops every cached search result. The query is accepted for
// symmetry with the read API but keys are dimensioned by page and size, so
// the whole tag set is flushed; over-flushing is within the best-effort
// contract.
func (s *SearchService) ClearCache(ctx context.Context, query string) error {
	if s.cache == nil {
		return nil
	}
	if err := cache.FlushTags(ctx, s.cache, cache.SearchTags()...); err != nil {
		if s.logger != nil {
			s.logger.WithError(err).WithField("query", query).Warn("search cache clear failed")
		}
		return err
	}
	monitoring.ObserveCacheFlush()
	return nil
}

// UserIterator walks search results scanner-style:
//
//	it := svc.Stream(ctx, "ada")
//	for it.Next() {
//		u := it.User()
//	}
//	if err := it.Err(); err != nil { ... }
type UserIterator struct {
	ctx       context.Context
	repo      repository.UserRepository
	query     string
	batchSize int

	batch   []entity.User
	idx     int
	afterID int64
	current entity.User
	done    bool
	err     error
}

// Next advances the iterator, fetching the next keyset batch when the current
// one is exhausted. It returns false at the end of the set or on error.
func (it *UserIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if it.idx >= len(it.batch) {
		if it.done {
			return false
		}
		batch, err := it.repo.SearchAfter(it.ctx, it.query, it.afterID, it.batchSize)
		if err != nil {
			it.err = err
			return false
		}
		if len(batch) == 0 {
			it.done = true
			return false
		}
		if len(batch) < it.batchSize {
			it.done = true
		}
		it.batch = batch
		it.idx = 0
		it.afterID = batch[len(batch)-1].ID
	}
	it.current = it.batch[it.idx]
	it.idx++
	return true
}

// User returns the current element; valid only after Next reported true.
func (it *UserIterator) User() entity.User {
	return it.current
}

// Err returns the first error encountered, if any.
func (it *UserIterator) Err() error {
	return it.err
}
