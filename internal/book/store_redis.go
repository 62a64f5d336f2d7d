// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zgbooks/books-api/internal/platform/constants"
)

// RedisContentCache implements [ContentCache] using Redis. Payloads are the
// already-serialized client trees, stored verbatim so hits skip both the
// database and JSON marshalling.
type RedisContentCache struct {
	client *redis.Client
}

// NewRedisContentCache creates a new Redis-backed [ContentCache].
func NewRedisContentCache(client *redis.Client) *RedisContentCache {
	return &RedisContentCache{client: client}
}

// contentKey builds the cache key: books:content:<book_id>:<lang>.
func contentKey(bookID int64, lang string) string {
	return fmt.Sprintf("%s%d:%s", constants.RedisPrefixContent, bookID, lang)
}

/*
Get retrieves the rendered content for (book, lang).

Description: a cache miss is reported through the found flag, never as an
error — the caller falls back to rendering.
*/
func (cache *RedisContentCache) Get(context context.Context, bookID int64, lang string) ([]byte, bool, error) {

	// Fetch the serialized tree
	payload, err := cache.client.Get(context, contentKey(bookID, lang)).Bytes()

	// Handle errors, treating absence as a miss
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_content_get_failed: %w", err)
	}

	// Return the payload
	return payload, true, nil
}

/*
Set stores the rendered content for (book, lang) with the given TTL.
*/
func (cache *RedisContentCache) Set(context context.Context, bookID int64, lang string, payload []byte, ttl time.Duration) error {

	// Store the serialized tree with TTL
	if err := cache.client.Set(context, contentKey(bookID, lang), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_content_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Delete evicts the rendered content for (book, lang).
*/
func (cache *RedisContentCache) Delete(context context.Context, bookID int64, lang string) error {

	// Evict the cached tree
	if err := cache.client.Del(context, contentKey(bookID, lang)).Err(); err != nil {
		return fmt.Errorf("redis_content_delete_failed: %w", err)
	}

	// Return nil on success
	return nil
}
