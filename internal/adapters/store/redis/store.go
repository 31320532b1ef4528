// Package redis provides a Repository backed by Redis.
//
// Each entity is a hash holding its state and version, with its history in a
// companion list of JSON records. Inserts and commits run as Lua scripts, so
// the version check and the write happen in one atomic step on the server.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/option"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/result"
)

const defaultPrefix = "fsm:entity:"

// KEYS: entity hash, history list. ARGV: state, version, records...
var insertScript = backend.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'state', ARGV[1], 'version', ARGV[2])
for i = 3, #ARGV do
	redis.call('RPUSH', KEYS[2], ARGV[i])
end
return 1
`)

// KEYS: entity hash, history list. ARGV: expected version, new version,
// new state, record. Versions are compared as decimal strings; Lua numbers
// are doubles and lose precision above 2^53.
// Returns {-1} when the entity is missing, {0, actual} on a version
// mismatch and {1, history} on success.
var commitScript = backend.NewScript(`
local current = redis.call('HGET', KEYS[1], 'version')
if not current then
	return {-1}
end
if current ~= ARGV[1] then
	return {0, current}
end
redis.call('HSET', KEYS[1], 'state', ARGV[3], 'version', ARGV[2])
redis.call('RPUSH', KEYS[2], ARGV[4])
return {1, redis.call('LRANGE', KEYS[2], 0, -1)}
`)

// Store is a Repository for entities whose state is a string kind.
type Store[S ~string] struct {
	client *backend.Client
	prefix string
}

// Option configures a Store.
type Option func(*options)

type options struct {
	prefix string
}

// WithPrefix sets the key prefix for entities.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// New creates a Store with its own client.
func New[S ~string](address, password string, db int, opts ...Option) *Store[S] {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient[S](rdb, opts...)
}

// NewFromClient creates a Store from an existing client.
func NewFromClient[S ~string](client *backend.Client, opts ...Option) *Store[S] {
	o := &options{prefix: defaultPrefix}
	for _, opt := range opts {
		opt(o)
	}
	return &Store[S]{client: client, prefix: o.prefix}
}

// Close closes the redis client.
func (s *Store[S]) Close() error {
	return s.client.Close()
}

// Name returns the store name used in health reports.
func (s *Store[S]) Name() string { return "store" }

// HealthCheck pings the server.
func (s *Store[S]) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *Store[S]) key(id fsm.EntityID) string {
	return s.prefix + id.String()
}

func (s *Store[S]) historyKey(id fsm.EntityID) string {
	return s.prefix + id.String() + ":history"
}

// record is the stored form of a TransitionRecord.
type record struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	Event   string    `json:"event"`
	At      time.Time `json:"at"`
	Version uint64    `json:"version"`
}

func encodeRecord[S ~string](rec fsm.TransitionRecord[S]) (string, error) {
	data, err := json.Marshal(record{
		From:    string(rec.From),
		To:      string(rec.To),
		Event:   rec.Event,
		At:      rec.At.UTC(),
		Version: rec.Version,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal transition record: %w", err)
	}
	return string(data), nil
}

func decodeHistory[S ~string](raw []string) ([]fsm.TransitionRecord[S], error) {
	if len(raw) == 0 {
		return nil, nil
	}
	history := make([]fsm.TransitionRecord[S], 0, len(raw))
	for _, item := range raw {
		var r record
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transition record: %w", err)
		}
		history = append(history, fsm.TransitionRecord[S]{
			From:    S(r.From),
			To:      S(r.To),
			Event:   r.Event,
			At:      r.At,
			Version: r.Version,
		})
	}
	return history, nil
}

// Load implements ports.Repository. The hash and the history are read in
// one MULTI block so the snapshot is consistent.
func (s *Store[S]) Load(ctx context.Context, id fsm.EntityID) (option.Option[fsm.Entity[S]], error) {
	var (
		fields  *backend.MapStringStringCmd
		history *backend.StringSliceCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		fields = pipe.HGetAll(ctx, s.key(id))
		history = pipe.LRange(ctx, s.historyKey(id), 0, -1)
		return nil
	})
	if err != nil {
		return option.None[fsm.Entity[S]](), fmt.Errorf("failed to load entity %s: %w", id, err)
	}

	m := fields.Val()
	if len(m) == 0 {
		return option.None[fsm.Entity[S]](), nil
	}

	version, err := strconv.ParseUint(m["version"], 10, 64)
	if err != nil {
		return option.None[fsm.Entity[S]](), fmt.Errorf("failed to parse version of %s: %w", id, err)
	}

	records, err := decodeHistory[S](history.Val())
	if err != nil {
		return option.None[fsm.Entity[S]](), err
	}

	return option.Some(fsm.Entity[S]{
		ID:      id,
		State:   S(m["state"]),
		Version: version,
		History: records,
	}), nil
}

// Insert implements ports.Repository.
func (s *Store[S]) Insert(ctx context.Context, entity fsm.Entity[S]) error {
	args := make([]any, 0, 2+len(entity.History))
	args = append(args, string(entity.State), entity.Version)
	for _, rec := range entity.History {
		encoded, err := encodeRecord(rec)
		if err != nil {
			return err
		}
		args = append(args, encoded)
	}

	created, err := insertScript.Run(ctx, s.client,
		[]string{s.key(entity.ID), s.historyKey(entity.ID)}, args...).Int()
	if err != nil {
		return fmt.Errorf("failed to insert entity %s: %w", entity.ID, err)
	}
	if created == 0 {
		return fmt.Errorf("insert entity %s: %w", entity.ID, domain.ErrConflict)
	}
	return nil
}

// TryCommit implements ports.Repository.
func (s *Store[S]) TryCommit(
	ctx context.Context,
	id fsm.EntityID,
	expectedVersion uint64,
	newState S,
	rec fsm.TransitionRecord[S],
) (result.Result[fsm.Entity[S], fsm.VersionConflict], error) {
	var zero result.Result[fsm.Entity[S], fsm.VersionConflict]

	rec.To = newState
	rec.Version = expectedVersion + 1
	encoded, err := encodeRecord(rec)
	if err != nil {
		return zero, err
	}

	reply, err := commitScript.Run(ctx, s.client,
		[]string{s.key(id), s.historyKey(id)},
		expectedVersion, rec.Version, string(newState), encoded,
	).Slice()
	if err != nil {
		return zero, fmt.Errorf("failed to commit entity %s: %w", id, err)
	}

	code, ok := replyInt(reply, 0)
	if !ok {
		return zero, fmt.Errorf("commit entity %s: %w", id, errMalformedReply)
	}

	switch code {
	case -1:
		return zero, fmt.Errorf("commit entity %s: %w", id, domain.ErrNotFound)
	case 0:
		actual, err := replyVersion(reply, 1)
		if err != nil {
			return zero, fmt.Errorf("commit entity %s: %w", id, err)
		}
		return result.Failure[fsm.Entity[S]](fsm.VersionConflict{
			Expected: expectedVersion,
			Actual:   actual,
		}), nil
	}

	raw, err := replyStrings(reply, 1)
	if err != nil {
		return zero, fmt.Errorf("commit entity %s: %w", id, err)
	}
	history, err := decodeHistory[S](raw)
	if err != nil {
		return zero, err
	}

	return result.Success[fsm.Entity[S], fsm.VersionConflict](fsm.Entity[S]{
		ID:      id,
		State:   newState,
		Version: rec.Version,
		History: history,
	}), nil
}

var errMalformedReply = errors.New("malformed script reply")

func replyInt(reply []any, i int) (int64, bool) {
	if i >= len(reply) {
		return 0, false
	}
	n, ok := reply[i].(int64)
	return n, ok
}

func replyVersion(reply []any, i int) (uint64, error) {
	if i >= len(reply) {
		return 0, errMalformedReply
	}
	str, ok := reply[i].(string)
	if !ok {
		return 0, errMalformedReply
	}
	v, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: version %q", errMalformedReply, str)
	}
	return v, nil
}

func replyStrings(reply []any, i int) ([]string, error) {
	if i >= len(reply) {
		return nil, errMalformedReply
	}
	items, ok := reply[i].([]any)
	if !ok {
		return nil, errMalformedReply
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		str, ok := item.(string)
		if !ok {
			return nil, errMalformedReply
		}
		out = append(out, str)
	}
	return out, nil
}
