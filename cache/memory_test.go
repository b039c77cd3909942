package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/fuad-daoud/discord-cache/commands"
)

// memoryCommander implements commands.Commander over plain maps. Forget
// variants apply immediately, which matches the real facade's guarantee that
// commands execute in issue order.
type memoryCommander struct {
	mu      sync.Mutex
	strings map[string]string
	hashes  map[string]map[string]string
	sets    map[string]map[string]struct{}
	lists   map[string][]string
}

var _ commands.Commander = (*memoryCommander)(nil)

func newMemoryCommander() *memoryCommander {
	return &memoryCommander{
		strings: make(map[string]string),
		hashes:  make(map[string]map[string]string),
		sets:    make(map[string]map[string]struct{}),
		lists:   make(map[string][]string),
	}
}

func (m *memoryCommander) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, found := m.strings[key]
	return value, found, nil
}

func (m *memoryCommander) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strings[key] = value
	return nil
}

func (m *memoryCommander) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.strings, key)
		delete(m.hashes, key)
		delete(m.sets, key)
		delete(m.lists, key)
	}
	return nil
}

func (m *memoryCommander) SAdd(_ context.Context, key string, members ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(members) == 0 {
		return 0, nil
	}
	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	var added int64
	for _, member := range members {
		if _, ok := set[member]; !ok {
			set[member] = struct{}{}
			added++
		}
	}
	return added, nil
}

func (m *memoryCommander) SRem(_ context.Context, key string, members ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.sets[key]
	var removed int64
	for _, member := range members {
		if _, ok := set[member]; ok {
			delete(set, member)
			removed++
		}
	}
	if len(set) == 0 {
		delete(m.sets, key)
	}
	return removed, nil
}

func (m *memoryCommander) SMembers(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := make([]string, 0, len(m.sets[key]))
	for member := range m.sets[key] {
		members = append(members, member)
	}
	sort.Strings(members)
	return members, nil
}

func (m *memoryCommander) HGetAll(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	flat := make([]string, 0, len(m.hashes[key])*2)
	for field, value := range m.hashes[key] {
		flat = append(flat, field, value)
	}
	return flat, nil
}

func (m *memoryCommander) HSet(_ context.Context, key string, fieldValues ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hset(key, fieldValues)
	return nil
}

func (m *memoryCommander) hset(key string, fieldValues []string) {
	hash, ok := m.hashes[key]
	if !ok {
		hash = make(map[string]string)
		m.hashes[key] = hash
	}
	for i := 0; i+1 < len(fieldValues); i += 2 {
		hash[fieldValues[i]] = fieldValues[i+1]
	}
}

func (m *memoryCommander) HDel(_ context.Context, key string, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hdel(key, fields)
	return nil
}

func (m *memoryCommander) hdel(key string, fields []string) {
	hash := m.hashes[key]
	for _, field := range fields {
		delete(hash, field)
	}
	if len(hash) == 0 {
		delete(m.hashes, key)
	}
}

func (m *memoryCommander) RPush(_ context.Context, key string, values ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = append(m.lists[key], values...)
	return nil
}

func (m *memoryCommander) LPush(_ context.Context, key string, values ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, value := range values {
		m.lists[key] = append([]string{value}, m.lists[key]...)
	}
	return nil
}

func (m *memoryCommander) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.lists[key]
	n := int64(len(list))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || n == 0 {
		return nil, nil
	}
	out := make([]string, stop-start+1)
	copy(out, list[start:stop+1])
	return out, nil
}

func (m *memoryCommander) MGet(_ context.Context, keys ...string) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(keys))
	for i, key := range keys {
		if value, found := m.strings[key]; found {
			out[i] = []byte(value)
		}
	}
	return out, nil
}

func (m *memoryCommander) SetForget(key, value string) {
	_ = m.Set(context.Background(), key, value)
}

func (m *memoryCommander) DelForget(keys ...string) {
	_ = m.Del(context.Background(), keys...)
}

func (m *memoryCommander) SAddForget(key string, members ...string) {
	_, _ = m.SAdd(context.Background(), key, members...)
}

func (m *memoryCommander) SRemForget(key string, members ...string) {
	_, _ = m.SRem(context.Background(), key, members...)
}

func (m *memoryCommander) HSetForget(key string, fieldValues ...string) {
	_ = m.HSet(context.Background(), key, fieldValues...)
}

func (m *memoryCommander) HDelForget(key string, fields ...string) {
	_ = m.HDel(context.Background(), key, fields...)
}

func (m *memoryCommander) setMembers(key string) []string {
	members, _ := m.SMembers(context.Background(), key)
	return members
}

func (m *memoryCommander) hashExists(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.hashes[key]
	return ok
}
