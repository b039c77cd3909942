package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/fuad-daoud/discord-cache/keys"
	"github.com/fuad-daoud/discord-cache/logger/dlog"
)

// UpsertGuild decomposes a full guild snapshot into per-key writes. This path
// holds the authoritative state, so every membership set is replaced
// wholesale rather than diffed; incremental single-entity events go through
// the transition operations instead. The writes are unacknowledged and
// ordered, not atomic: a reader racing this can observe a mix of old and new
// entities, and a failed run is repaired by upserting the snapshot again.
func (c *Cache) UpsertGuild(guild GuildSnapshot) {
	dlog.Info("Upserting guild", "guildID", guild.ID)

	fields := []string{
		"name", guild.Name,
		"owner_id", u(guild.OwnerID),
		"region", guild.Region,
	}
	if guild.AFKChannelID != nil {
		fields = append(fields, "afk_channel_id", u(*guild.AFKChannelID))
	}
	c.cmd.HSetForget(keys.Guild(guild.ID), fields...)
	if guild.AFKChannelID == nil {
		// Do not leave a stale value from a previous snapshot behind.
		c.cmd.HDelForget(keys.Guild(guild.ID), "afk_channel_id")
	}

	channelIDs := make([]string, len(guild.Channels))
	for i, channel := range guild.Channels {
		channelIDs[i] = u(channel.ID)
	}
	c.replaceSet(keys.GuildChannels(guild.ID), channelIDs)

	c.replaceSet(keys.GuildFeatures(guild.ID), guild.Features)

	memberIDs := make([]string, len(guild.Members))
	for i, member := range guild.Members {
		memberIDs[i] = u(member.UserID)
	}
	c.replaceSet(keys.GuildMembers(guild.ID), memberIDs)

	roleIDs := make([]string, len(guild.Roles))
	for i, role := range guild.Roles {
		roleIDs[i] = u(role.ID)
	}
	c.replaceSet(keys.GuildRoles(guild.ID), roleIDs)

	// A snapshot state without a channel means the user is not in voice, so
	// it contributes to no membership set and gets no hash.
	voiceIDs := make([]string, 0, len(guild.VoiceStates))
	for _, state := range guild.VoiceStates {
		if state.ChannelID != nil {
			voiceIDs = append(voiceIDs, u(state.UserID))
		}
	}
	c.replaceSet(keys.GuildVoiceStates(guild.ID), voiceIDs)

	for _, member := range guild.Members {
		c.upsertMember(guild.ID, member)
	}

	for _, role := range guild.Roles {
		c.upsertRole(guild.ID, role)
	}

	// Group by channel first so each channel set is replaced exactly once.
	byChannel := make(map[uint64][]string)
	for _, state := range guild.VoiceStates {
		if state.ChannelID == nil {
			continue
		}
		byChannel[*state.ChannelID] = append(byChannel[*state.ChannelID], u(state.UserID))
	}
	for channelID, userIDs := range byChannel {
		c.replaceSet(keys.ChannelVoiceStates(channelID), userIDs)
	}

	for _, state := range guild.VoiceStates {
		if state.ChannelID == nil {
			continue
		}
		c.writeVoiceState(guild.ID, state)
	}

	dlog.Info("Guild upsert complete", "guildID", guild.ID)
}

func (c *Cache) upsertMember(guildID uint64, member Member) {
	key := keys.Member(guildID, member.UserID)

	fields := []string{
		"deaf", b(member.Deaf),
		"mute", b(member.Mute),
		"user_id", u(member.UserID),
	}
	if member.JoinedAt != nil {
		fields = append(fields, "joined_at", member.JoinedAt.Format(time.RFC3339Nano))
	}
	if member.Nick != nil {
		fields = append(fields, "nick", *member.Nick)
	} else {
		c.cmd.HDelForget(key, "nick")
	}
	c.cmd.HSetForget(key, fields...)

	c.replaceSet(keys.MemberRoles(guildID, member.UserID), idStrings(member.Roles))
}

func (c *Cache) upsertRole(guildID uint64, role Role) {
	c.cmd.HSetForget(keys.Role(guildID, role.ID),
		"colour", u(uint64(role.Colour)),
		"name", role.Name,
		"permissions", u(role.Permissions),
	)
}

// Guild rebuilds a guild from its hash plus the five membership sets, fetched
// separately and attached as array fields on the same record before decoding.
func (c *Cache) Guild(ctx context.Context, id uint64) (Guild, error) {
	key := keys.Guild(id)
	flat, err := c.cmd.HGetAll(ctx, key)
	if err != nil {
		return Guild{}, fmt.Errorf("get guild: %w", err)
	}
	if len(flat) == 0 {
		return Guild{}, ErrNotFound
	}
	rec := record(flat)

	sets := []struct {
		field string
		key   string
	}{
		{"channels", keys.GuildChannels(id)},
		{"features", keys.GuildFeatures(id)},
		{"members", keys.GuildMembers(id)},
		{"roles", keys.GuildRoles(id)},
		{"voice_states", keys.GuildVoiceStates(id)},
	}
	for _, set := range sets {
		members, err := c.cmd.SMembers(ctx, set.key)
		if err != nil {
			return Guild{}, fmt.Errorf("get guild %s: %w", set.field, err)
		}
		rec[set.field] = coerceAll(members)
	}

	guild, err := materializeGuild(key, rec)
	if err != nil {
		return Guild{}, err
	}
	guild.ID = id
	return guild, nil
}

// Member rebuilds a guild member from its hash and role set.
func (c *Cache) Member(ctx context.Context, guildID, userID uint64) (Member, error) {
	key := keys.Member(guildID, userID)
	flat, err := c.cmd.HGetAll(ctx, key)
	if err != nil {
		return Member{}, fmt.Errorf("get member: %w", err)
	}
	if len(flat) == 0 {
		return Member{}, ErrNotFound
	}
	rec := record(flat)

	roles, err := c.cmd.SMembers(ctx, keys.MemberRoles(guildID, userID))
	if err != nil {
		return Member{}, fmt.Errorf("get member roles: %w", err)
	}
	rec["roles"] = coerceAll(roles)

	member, err := materializeMember(key, rec)
	if err != nil {
		return Member{}, err
	}
	member.GuildID = guildID
	return member, nil
}

// Role rebuilds a role from its hash.
func (c *Cache) Role(ctx context.Context, guildID, roleID uint64) (Role, error) {
	key := keys.Role(guildID, roleID)
	flat, err := c.cmd.HGetAll(ctx, key)
	if err != nil {
		return Role{}, fmt.Errorf("get role: %w", err)
	}
	if len(flat) == 0 {
		return Role{}, ErrNotFound
	}

	role, err := materializeRole(key, record(flat))
	if err != nil {
		return Role{}, err
	}
	role.GuildID = guildID
	role.ID = roleID
	return role, nil
}
