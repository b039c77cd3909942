package commands

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/fuad-daoud/discord-cache/logger/dlog"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type processor interface {
	Process(ctx context.Context, cmd redis.Cmder) error
	Close() error
}

type job struct {
	ctx  context.Context
	cmd  *redis.Cmd
	done chan struct{}
}

// ErrClosed is returned for commands issued after Close.
var ErrClosed = errors.New("commands: commander is closed")

// Redis implements Commander over a single dedicated go-redis connection.
// One worker goroutine owns the connection and drains a submit channel, so
// commands complete in issue order whether or not the caller awaited them.
type Redis struct {
	id   string
	conn processor
	jobs chan job
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

var _ Commander = (*Redis)(nil)

func NewRedis(client *redis.Client) *Redis {
	return newRedis(client.Conn())
}

func newRedis(conn processor) *Redis {
	r := &Redis{
		id:   uuid.NewString(),
		conn: conn,
		jobs: make(chan job, 256),
	}
	r.wg.Add(1)
	go r.run()
	dlog.Info("Opened store connection", "conn", r.id)
	return r
}

func (r *Redis) run() {
	defer r.wg.Done()
	for j := range r.jobs {
		err := r.conn.Process(j.ctx, j.cmd)
		if j.done != nil {
			close(j.done)
			continue
		}
		if err != nil && !errors.Is(err, redis.Nil) {
			dlog.Error("Unacknowledged command failed", "conn", r.id, "command", j.cmd.Name(), "err", err)
		}
	}
}

// Close stops the worker after draining queued commands and closes the
// underlying connection. Commands issued afterwards fail with ErrClosed
// instead of reaching the channel.
func (r *Redis) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.jobs)
	r.mu.Unlock()

	r.wg.Wait()
	return r.conn.Close()
}

// submit hands a job to the worker, serialized against Close so the channel
// is never written to after it is closed.
func (r *Redis) submit(j job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.jobs <- j
	return nil
}

func (r *Redis) send(ctx context.Context, args ...any) (*redis.Cmd, error) {
	cmd := redis.NewCmd(ctx, args...)
	j := job{ctx: ctx, cmd: cmd, done: make(chan struct{})}
	if err := r.submit(j); err != nil {
		return cmd, err
	}
	<-j.done
	if err := cmd.Err(); err != nil && !errors.Is(err, redis.Nil) {
		return cmd, err
	}
	return cmd, nil
}

// forget submits with a background context: a caller abandoning its task must
// not cancel a write that was already issued.
func (r *Redis) forget(args ...any) {
	ctx := context.Background()
	if err := r.submit(job{ctx: ctx, cmd: redis.NewCmd(ctx, args...)}); err != nil {
		dlog.Warn("Dropped command issued after close", "conn", r.id)
	}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	cmd, err := r.send(ctx, "GET", key)
	if err != nil {
		return "", false, err
	}
	if errors.Is(cmd.Err(), redis.Nil) {
		return "", false, nil
	}
	value, err := cmd.Text()
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	_, err := r.send(ctx, "SET", key, value)
	return err
}

func (r *Redis) Del(ctx context.Context, keys ...string) error {
	_, err := r.send(ctx, prepend("DEL", keys)...)
	return err
}

func (r *Redis) SAdd(ctx context.Context, key string, members ...string) (int64, error) {
	if len(members) == 0 {
		return 0, nil
	}
	cmd, err := r.send(ctx, prepend2("SADD", key, members)...)
	if err != nil {
		return 0, err
	}
	return cmd.Int64()
}

func (r *Redis) SRem(ctx context.Context, key string, members ...string) (int64, error) {
	if len(members) == 0 {
		return 0, nil
	}
	cmd, err := r.send(ctx, prepend2("SREM", key, members)...)
	if err != nil {
		return 0, err
	}
	return cmd.Int64()
}

func (r *Redis) SMembers(ctx context.Context, key string) ([]string, error) {
	cmd, err := r.send(ctx, "SMEMBERS", key)
	if err != nil {
		return nil, err
	}
	return flatten(cmd.Val())
}

func (r *Redis) HGetAll(ctx context.Context, key string) ([]string, error) {
	cmd, err := r.send(ctx, "HGETALL", key)
	if err != nil {
		return nil, err
	}
	return flatten(cmd.Val())
}

func (r *Redis) HSet(ctx context.Context, key string, fieldValues ...string) error {
	_, err := r.send(ctx, prepend2("HSET", key, fieldValues)...)
	return err
}

func (r *Redis) HDel(ctx context.Context, key string, fields ...string) error {
	_, err := r.send(ctx, prepend2("HDEL", key, fields)...)
	return err
}

func (r *Redis) RPush(ctx context.Context, key string, values ...string) error {
	_, err := r.send(ctx, prepend2("RPUSH", key, values)...)
	return err
}

func (r *Redis) LPush(ctx context.Context, key string, values ...string) error {
	_, err := r.send(ctx, prepend2("LPUSH", key, values)...)
	return err
}

func (r *Redis) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	cmd, err := r.send(ctx, "LRANGE", key, start, stop)
	if err != nil {
		return nil, err
	}
	return flatten(cmd.Val())
}

func (r *Redis) MGet(ctx context.Context, keys ...string) ([][]byte, error) {
	cmd, err := r.send(ctx, prepend("MGET", keys)...)
	if err != nil {
		return nil, err
	}
	values, ok := cmd.Val().([]any)
	if !ok {
		return nil, errors.New("commands: unexpected MGET reply shape")
	}
	out := make([][]byte, len(values))
	for i, value := range values {
		if value == nil {
			continue
		}
		s, err := stringify(value)
		if err != nil {
			return nil, err
		}
		out[i] = []byte(s)
	}
	return out, nil
}

func (r *Redis) SetForget(key, value string) {
	r.forget("SET", key, value)
}

func (r *Redis) DelForget(keys ...string) {
	r.forget(prepend("DEL", keys)...)
}

func (r *Redis) SAddForget(key string, members ...string) {
	if len(members) == 0 {
		return
	}
	r.forget(prepend2("SADD", key, members)...)
}

func (r *Redis) SRemForget(key string, members ...string) {
	if len(members) == 0 {
		return
	}
	r.forget(prepend2("SREM", key, members)...)
}

func (r *Redis) HSetForget(key string, fieldValues ...string) {
	r.forget(prepend2("HSET", key, fieldValues)...)
}

func (r *Redis) HDelForget(key string, fields ...string) {
	r.forget(prepend2("HDEL", key, fields)...)
}

func prepend(name string, args []string) []any {
	out := make([]any, 0, len(args)+1)
	out = append(out, name)
	for _, arg := range args {
		out = append(out, arg)
	}
	return out
}

func prepend2(name, key string, args []string) []any {
	out := make([]any, 0, len(args)+2)
	out = append(out, name, key)
	for _, arg := range args {
		out = append(out, arg)
	}
	return out
}

// flatten normalizes an array reply to a string slice. Hash replies arrive as
// a flattened array on RESP2 and as a map on RESP3; both end up as the same
// field, value sequence.
func flatten(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, err := stringify(e)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	case map[any]any:
		out := make([]string, 0, len(v)*2)
		for k, e := range v {
			ks, err := stringify(k)
			if err != nil {
				return nil, err
			}
			es, err := stringify(e)
			if err != nil {
				return nil, err
			}
			out = append(out, ks, es)
		}
		return out, nil
	case map[string]any:
		out := make([]string, 0, len(v)*2)
		for k, e := range v {
			es, err := stringify(e)
			if err != nil {
				return nil, err
			}
			out = append(out, k, es)
		}
		return out, nil
	default:
		return nil, errors.New("commands: unexpected array reply shape")
	}
}

func stringify(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return "", errors.New("commands: unexpected reply element")
	}
}
