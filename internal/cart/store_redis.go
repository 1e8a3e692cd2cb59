package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// removeScript replies with {cart_id, HGETALL items}, or an empty array when
// the cart does not exist. Deltas arrive negated so the arithmetic stays in
// HINCRBY's integers.
var removeScript = redis.NewScript(`
local id = redis.call('GET', KEYS[2])
if not id then
	return {}
end
for i = 1, #ARGV, 2 do
	if redis.call('HEXISTS', KEYS[1], ARGV[i]) == 1 then
		local left = redis.call('HINCRBY', KEYS[1], ARGV[i], ARGV[i + 1])
		if left <= 0 then
			redis.call('HDEL', KEYS[1], ARGV[i])
		end
	end
end
return {id, redis.call('HGETALL', KEYS[1])}
`)

// maxTxRetries bounds optimistic retries of Add under contention on one cart.
const maxTxRetries = 1000

type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) keys(userID string) []string {
	base := s.prefix + "cart:{" + userID + "}"
	return []string{base + ":items", base + ":id"}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Add watches the cart keys, checks the new quantities and commits every
// increment in one MULTI/EXEC. A concurrent change aborts and retries.
func (s *RedisStore) Add(ctx context.Context, userID string, items []Item) (Cart, error) {
	if err := checkItems(items); err != nil {
		return Cart{}, err
	}

	k := s.keys(userID)
	itemsKey, idKey := k[0], k[1]

	var c Cart
	apply := func(tx *redis.Tx) error {
		id, err := tx.Get(ctx, idKey).Result()
		if err != nil && err != redis.Nil {
			return err
		}

		raw, err := tx.HGetAll(ctx, itemsKey).Result()
		if err != nil {
			return err
		}
		lines, err := parseLines(raw)
		if err != nil {
			return err
		}

		next, err := addLines(lines, items)
		if err != nil {
			return err
		}
		if id == "" {
			id = newCartID()
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, idKey, id, 0)
			for _, it := range items {
				p.HIncrBy(ctx, itemsKey, it.ProductID, int64(it.Quantity))
			}
			return nil
		})
		if err != nil {
			return err
		}

		c = Cart{ID: id, UserID: userID, Lines: next}
		return nil
	}

	for range maxTxRetries {
		err := s.client.Watch(ctx, apply, itemsKey, idKey)
		if err == redis.TxFailedErr {
			continue
		}
		if errors.Is(err, ErrQuantityOverflow) {
			return Cart{}, err
		}
		if err != nil {
			return Cart{}, fmt.Errorf("cart add: %w", err)
		}
		return c, nil
	}
	return Cart{}, fmt.Errorf("cart add: %w", redis.TxFailedErr)
}

func (s *RedisStore) Remove(ctx context.Context, userID string, items []Item) (Cart, error) {
	if err := checkItems(items); err != nil {
		return Cart{}, err
	}

	args := make([]any, 0, 2*len(items))
	for _, it := range items {
		args = append(args, it.ProductID, -int64(it.Quantity))
	}

	reply, err := removeScript.Run(ctx, s.client, s.keys(userID), args...).Slice()
	if err != nil {
		return Cart{}, fmt.Errorf("cart remove: %w", err)
	}
	return parseReply(userID, reply)
}

func (s *RedisStore) Get(ctx context.Context, userID string) (Cart, error) {
	k := s.keys(userID)

	var (
		idCmd    *redis.StringCmd
		itemsCmd *redis.MapStringStringCmd
	)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		idCmd = p.Get(ctx, k[1])
		itemsCmd = p.HGetAll(ctx, k[0])
		return nil
	})
	if err != nil && err != redis.Nil {
		return Cart{}, fmt.Errorf("cart get: %w", err)
	}

	id, err := idCmd.Result()
	if err == redis.Nil {
		return emptyCart(userID), nil
	}
	if err != nil {
		return Cart{}, fmt.Errorf("cart get: %w", err)
	}

	lines, err := parseLines(itemsCmd.Val())
	if err != nil {
		return Cart{}, fmt.Errorf("cart get: %w", err)
	}
	return Cart{ID: id, UserID: userID, Lines: lines}, nil
}

func parseLines(raw map[string]string) (map[string]int, error) {
	lines := make(map[string]int, len(raw))
	for pid, v := range raw {
		qty, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("bad quantity for %q: %w", pid, err)
		}
		lines[pid] = qty
	}
	return lines, nil
}

func parseReply(userID string, reply []any) (Cart, error) {
	if len(reply) == 0 {
		return emptyCart(userID), nil
	}
	if len(reply) != 2 {
		return Cart{}, fmt.Errorf("unexpected script reply of %d elements", len(reply))
	}

	id, _ := reply[0].(string)
	flat, _ := reply[1].([]any)

	c := Cart{ID: id, UserID: userID, Lines: make(map[string]int, len(flat)/2)}
	for i := 0; i+1 < len(flat); i += 2 {
		pid, _ := flat[i].(string)
		raw, _ := flat[i+1].(string)
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return Cart{}, fmt.Errorf("bad quantity for %q: %w", pid, err)
		}
		c.Lines[pid] = qty
	}
	return c, nil
}
