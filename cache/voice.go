package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/fuad-daoud/discord-cache/keys"
	"github.com/fuad-daoud/discord-cache/logger/dlog"
)

// Voice invariants maintained here: a user's voice-state key exists iff the
// user is in the guild's voice-state set, and iff the user is in exactly the
// channel set matching the state's channel id. Every step is its own store
// round trip; a crash mid-sequence can leave the sets transiently out of
// sync, and no cross-key transaction papers over that.

// UpsertVoiceState applies one user's voice-state transition. It reads the
// stored state first so a channel move removes the user from the old
// channel's set before adding to the new one.
func (c *Cache) UpsertVoiceState(ctx context.Context, guildID uint64, state VoiceState) error {
	userID := state.UserID
	key := keys.UserVoiceState(guildID, userID)

	old, err := c.VoiceState(ctx, guildID, userID)
	hasOld := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if state.ChannelID == nil {
		dlog.Debug("Voice state has no channel", "guildID", guildID, "userID", userID)
		if hasOld && old.ChannelID != nil {
			c.cmd.SRemForget(keys.ChannelVoiceStates(*old.ChannelID), u(userID))
		}
		c.cmd.SRemForget(keys.GuildVoiceStates(guildID), u(userID))
		c.cmd.DelForget(key)
		return nil
	}

	c.writeVoiceState(guildID, state)

	addMember := true
	if hasOld && old.ChannelID != nil {
		if *old.ChannelID != *state.ChannelID {
			c.cmd.SRemForget(keys.ChannelVoiceStates(*old.ChannelID), u(userID))
		} else {
			addMember = false
		}
	}
	if addMember {
		c.cmd.SAddForget(keys.ChannelVoiceStates(*state.ChannelID), u(userID))
	}
	c.cmd.SAddForget(keys.GuildVoiceStates(guildID), u(userID))

	return nil
}

// writeVoiceState writes the full voice-state hash. Shared by the transition
// path above and the bulk snapshot path, which skips the read because the
// membership sets were already replaced wholesale.
func (c *Cache) writeVoiceState(guildID uint64, state VoiceState) {
	key := keys.UserVoiceState(guildID, state.UserID)

	if state.Token == nil {
		// An absent token must not be confused with an empty one.
		c.cmd.HDelForget(key, "token")
	}

	fields := []string{
		"channel_id", u(*state.ChannelID),
		"mute", b(state.Mute),
		"self_deaf", b(state.SelfDeaf),
		"self_mute", b(state.SelfMute),
		"session_id", state.SessionID,
		"suppress", b(state.Suppress),
	}
	if state.Token != nil {
		fields = append(fields, "token", *state.Token)
	}
	c.cmd.HSetForget(key, fields...)
}

// UpsertVoiceStateInfo merges voice-server fields onto the state hash when
// the platform delivers them separately from the membership update.
func (c *Cache) UpsertVoiceStateInfo(guildID, userID uint64, endpoint, token string) {
	c.cmd.HSetForget(keys.UserVoiceState(guildID, userID), "endpoint", endpoint, "token", token)
}

// DeleteVoiceState removes a user's voice state and the guild-set entry,
// returning whether a voice state had existed. It does not know the user's
// channel id without a read, so the channel-scoped set is left alone; callers
// needing that cleanup go through UpsertVoiceState with no channel instead.
func (c *Cache) DeleteVoiceState(ctx context.Context, guildID, userID uint64) (bool, error) {
	c.cmd.DelForget(keys.UserVoiceState(guildID, userID))

	removed, err := c.cmd.SRem(ctx, keys.GuildVoiceStates(guildID), u(userID))
	if err != nil {
		return false, fmt.Errorf("delete voice state: %w", err)
	}
	return removed > 0, nil
}

// DeleteVoiceStates tears down every voice state in a guild and the guild set
// itself, returning how many users had been present. Channel-scoped sets are
// not touched: this path assumes a full guild teardown where those keys are
// being discarded too.
func (c *Cache) DeleteVoiceStates(ctx context.Context, guildID uint64) (uint64, error) {
	ids, err := c.VoiceStateList(ctx, guildID)
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		c.cmd.DelForget(keys.UserVoiceState(guildID, id))
	}
	c.cmd.DelForget(keys.GuildVoiceStates(guildID))

	return uint64(len(ids)), nil
}

// VoiceState returns a guild member's voice state, or ErrNotFound if they
// have none.
func (c *Cache) VoiceState(ctx context.Context, guildID, userID uint64) (VoiceState, error) {
	key := keys.UserVoiceState(guildID, userID)
	flat, err := c.cmd.HGetAll(ctx, key)
	if err != nil {
		return VoiceState{}, fmt.Errorf("get voice state: %w", err)
	}

	state, err := materializeVoiceState(key, flat)
	if err != nil {
		return VoiceState{}, err
	}
	state.GuildID = guildID
	state.UserID = userID
	return state, nil
}

// VoiceStates returns all voice states for a guild keyed by user id. A user
// present in the guild set whose own hash is missing is an inconsistency and
// reported as such, not skipped.
func (c *Cache) VoiceStates(ctx context.Context, guildID uint64) (map[uint64]VoiceState, error) {
	ids, err := c.VoiceStateList(ctx, guildID)
	if err != nil {
		return nil, err
	}

	states := make(map[uint64]VoiceState, len(ids))
	for _, id := range ids {
		state, err := c.VoiceState(ctx, guildID, id)
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d in guild %d voice set without a voice state", ErrInconsistent, id, guildID)
		}
		if err != nil {
			return nil, err
		}
		states[id] = state
	}
	return states, nil
}

// ChannelVoiceStates returns the ids of all members with a voice state in a
// channel.
func (c *Cache) ChannelVoiceStates(ctx context.Context, channelID uint64) ([]uint64, error) {
	members, err := c.cmd.SMembers(ctx, keys.ChannelVoiceStates(channelID))
	if err != nil {
		return nil, fmt.Errorf("get channel voice states: %w", err)
	}
	return parseIDs(members)
}

// VoiceStateList returns the ids of all members with a voice state in a
// guild.
func (c *Cache) VoiceStateList(ctx context.Context, guildID uint64) ([]uint64, error) {
	members, err := c.cmd.SMembers(ctx, keys.GuildVoiceStates(guildID))
	if err != nil {
		return nil, fmt.Errorf("get voice state list: %w", err)
	}
	return parseIDs(members)
}
