// Package autocom suggests product names for the search box. Names are
// indexed as products pass through the listing, so suggestions only cover
// what shoppers have already been shown.
package autocom

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"storefront/models"
)

const (
	RedisKey     = "autocomplete:products"
	MinPrefix    = 2
	DefaultLimit = 8
)

type Suggestion struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Index interface {
	Add(ctx context.Context, ps []models.Product) error
	Suggest(ctx context.Context, prefix string, limit int) ([]Suggestion, error)
}

// member sorts by the folded name and carries the id and display name.
func member(p models.Product) string {
	return fmt.Sprintf("%s|%d|%s", fold(p.Name), p.ID, p.Name)
}

func parseMember(m string) (Suggestion, bool) {
	parts := strings.SplitN(m, "|", 3)
	if len(parts) != 3 {
		return Suggestion{}, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Suggestion{}, false
	}
	return Suggestion{ID: id, Name: parts[2]}, true
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RedisIndex keeps members in a sorted set scored 0 and queries it by range.
type RedisIndex struct {
	Conn *redis.Client
}

func (x *RedisIndex) Add(ctx context.Context, ps []models.Product) error {
	if len(ps) == 0 {
		return nil
	}
	zs := make([]redis.Z, 0, len(ps))
	for _, p := range ps {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		zs = append(zs, redis.Z{Score: 0, Member: member(p)})
	}
	if err := x.Conn.ZAdd(ctx, RedisKey, zs...).Err(); err != nil {
		return fmt.Errorf("index products: %w", err)
	}
	return nil
}

func (x *RedisIndex) Suggest(ctx context.Context, prefix string, limit int) ([]Suggestion, error) {
	prefix = fold(prefix)
	results, err := x.Conn.ZRangeByLex(ctx, RedisKey, &redis.ZRangeBy{
		Min:   "[" + prefix,
		Max:   "[" + prefix + "\xff",
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("search suggestions: %w", err)
	}
	out := make([]Suggestion, 0, len(results))
	for _, m := range results {
		if s, ok := parseMember(m); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// MemoryIndex is the in-process equivalent of RedisIndex.
type MemoryIndex struct {
	mu      sync.RWMutex
	members []string
}

func (x *MemoryIndex) Add(_ context.Context, ps []models.Product) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, p := range ps {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		m := member(p)
		i := sort.SearchStrings(x.members, m)
		if i < len(x.members) && x.members[i] == m {
			continue
		}
		x.members = append(x.members, "")
		copy(x.members[i+1:], x.members[i:])
		x.members[i] = m
	}
	return nil
}

func (x *MemoryIndex) Suggest(_ context.Context, prefix string, limit int) ([]Suggestion, error) {
	prefix = fold(prefix)
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := []Suggestion{}
	for i := sort.SearchStrings(x.members, prefix); i < len(x.members) && len(out) < limit; i++ {
		if !strings.HasPrefix(x.members[i], prefix) {
			break
		}
		if s, ok := parseMember(x.members[i]); ok {
			out = append(out, s)
		}
	}
	return out, nil
}
