// Package cache keeps a set of independently addressable store keys
// consistent with the platform's authoritative guild state, and rebuilds
// typed objects from those keys on read. Writes are best effort: ordered on
// the connection, but never atomic across keys.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fuad-daoud/discord-cache/commands"
	"github.com/fuad-daoud/discord-cache/keys"
)

type Cache struct {
	cmd commands.Commander
}

func New(cmd commands.Commander) *Cache {
	return &Cache{cmd: cmd}
}

// Commander exposes the underlying command facade for lower level data
// manipulation.
func (c *Cache) Commander() commands.Commander {
	return c.cmd
}

// UpsertChannel stores the channel as one opaque serialized blob.
func (c *Cache) UpsertChannel(ctx context.Context, channel Channel) error {
	if !channel.Type.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidChannelType, channel.Type)
	}
	blob, err := json.Marshal(channel)
	if err != nil {
		return err
	}
	return c.cmd.Set(ctx, keys.Channel(channel.ID), string(blob))
}

// Channels fetches several channels in one multi-get. Missing channels are
// left out of the result rather than reported as errors.
func (c *Cache) Channels(ctx context.Context, ids ...uint64) (map[uint64]Channel, error) {
	channelKeys := make([]string, len(ids))
	for i, id := range ids {
		channelKeys[i] = keys.Channel(id)
	}
	blobs, err := c.cmd.MGet(ctx, channelKeys...)
	if err != nil {
		return nil, fmt.Errorf("get channels: %w", err)
	}

	out := make(map[uint64]Channel, len(ids))
	for i, blob := range blobs {
		if blob == nil {
			continue
		}
		var channel Channel
		if err := json.Unmarshal(blob, &channel); err != nil {
			return nil, &MaterializeError{Key: channelKeys[i], Err: err}
		}
		out[ids[i]] = channel
	}
	return out, nil
}

func (c *Cache) DeleteChannel(id uint64) {
	c.cmd.DelForget(keys.Channel(id))
}

func (c *Cache) DeleteChannels(ids ...uint64) {
	for _, id := range ids {
		c.cmd.DelForget(keys.Channel(id))
	}
}

// DeleteGuild removes the guild's scalar hash. Membership sets and child
// entities are keyed separately and torn down by their own operations.
func (c *Cache) DeleteGuild(id uint64) {
	c.cmd.DelForget(keys.Guild(id))
}

func (c *Cache) DeleteGuilds(ids ...uint64) {
	for _, id := range ids {
		c.cmd.DelForget(keys.Guild(id))
	}
}

// Choices returns the whole choice list for a guild.
func (c *Cache) Choices(ctx context.Context, guildID uint64) ([]string, error) {
	return c.cmd.LRange(ctx, keys.Choice(guildID), 0, -1)
}

// ChoicesRanged returns the choices within min <= entry <= max.
func (c *Cache) ChoicesRanged(ctx context.Context, guildID uint64, min, max int64) ([]string, error) {
	return c.cmd.LRange(ctx, keys.Choice(guildID), min, max)
}

func (c *Cache) PushChoices(ctx context.Context, guildID uint64, blobs ...string) error {
	return c.cmd.LPush(ctx, keys.Choice(guildID), blobs...)
}

func (c *Cache) DeleteChoices(ctx context.Context, guildID uint64) error {
	return c.cmd.Del(ctx, keys.Choice(guildID))
}

// Join returns the channel the bot should join in a guild.
func (c *Cache) Join(ctx context.Context, guildID uint64) (uint64, error) {
	value, found, err := c.cmd.Get(ctx, keys.Join(guildID))
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrNotFound
	}
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedID, value)
	}
	return id, nil
}

func (c *Cache) SetJoin(ctx context.Context, guildID, channelID uint64) error {
	return c.cmd.Set(ctx, keys.Join(guildID), u(channelID))
}

func (c *Cache) DeleteJoin(ctx context.Context, guildID uint64) error {
	return c.cmd.Del(ctx, keys.Join(guildID))
}

// SharderMsg pushes a message onto a shard's inbox.
func (c *Cache) SharderMsg(ctx context.Context, shardID uint64, data []byte) error {
	return c.cmd.RPush(ctx, keys.SharderTo(shardID), string(data))
}

// replaceSet swaps a membership set wholesale: delete then add, both
// unacknowledged, ordered by the connection.
func (c *Cache) replaceSet(key string, members []string) {
	c.cmd.DelForget(key)
	c.cmd.SAddForget(key, members...)
}

func u(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func b(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func idStrings(ids []uint64) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = u(id)
	}
	return out
}
