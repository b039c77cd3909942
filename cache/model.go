package cache

import "time"

// Guild is the materialized form of a guild: scalar fields from the guild
// hash plus the five membership sets, each stored under its own key so it can
// be queried and replaced independently.
type Guild struct {
	ID           uint64  `mapstructure:"-"`
	Name         string  `mapstructure:"name"`
	OwnerID      uint64  `mapstructure:"owner_id"`
	Region       string  `mapstructure:"region"`
	AFKChannelID *uint64 `mapstructure:"afk_channel_id"`

	Channels    []uint64 `mapstructure:"channels"`
	Features    []string `mapstructure:"features"`
	Members     []uint64 `mapstructure:"members"`
	Roles       []uint64 `mapstructure:"roles"`
	VoiceStates []uint64 `mapstructure:"voice_states"`
}

// Channel is stored as a single serialized blob, not field by field, because
// channels are read and written wholesale.
type Channel struct {
	ID                   uint64                `json:"id"`
	Type                 ChannelType           `json:"type"`
	Name                 string                `json:"name"`
	Bitrate              *int                  `json:"bitrate,omitempty"`
	ParentID             *uint64               `json:"parent_id,omitempty"`
	UserLimit            *int                  `json:"user_limit,omitempty"`
	PermissionOverwrites []PermissionOverwrite `json:"permission_overwrites,omitempty"`
}

type ChannelType int

// Valid reports whether the channel type is part of the platform's coded
// vocabulary.
func (t ChannelType) Valid() bool {
	return t >= 0 && t <= 16
}

type PermissionOverwrite struct {
	ID    uint64 `json:"id"`
	Kind  int    `json:"type"`
	Allow uint64 `json:"allow"`
	Deny  uint64 `json:"deny"`
}

type Member struct {
	GuildID  uint64     `mapstructure:"-"`
	UserID   uint64     `mapstructure:"user_id"`
	Deaf     bool       `mapstructure:"deaf"`
	Mute     bool       `mapstructure:"mute"`
	Nick     *string    `mapstructure:"nick"`
	JoinedAt *time.Time `mapstructure:"joined_at"`
	Roles    []uint64   `mapstructure:"roles"`
}

type Role struct {
	GuildID     uint64 `mapstructure:"-"`
	ID          uint64 `mapstructure:"-"`
	Name        string `mapstructure:"name"`
	Colour      uint32 `mapstructure:"colour"`
	Permissions uint64 `mapstructure:"permissions"`
}

// VoiceState is a user's voice membership within a guild. A nil ChannelID
// means the user is not in voice; the distinction between an absent token and
// an empty one is preserved in the store.
type VoiceState struct {
	GuildID   uint64  `mapstructure:"-"`
	UserID    uint64  `mapstructure:"-"`
	ChannelID *uint64 `mapstructure:"channel_id"`
	Mute      bool    `mapstructure:"mute"`
	SelfDeaf  bool    `mapstructure:"self_deaf"`
	SelfMute  bool    `mapstructure:"self_mute"`
	Suppress  bool    `mapstructure:"suppress"`
	SessionID string  `mapstructure:"session_id"`
	Token     *string `mapstructure:"token"`
	Endpoint  *string `mapstructure:"endpoint"`
}

// GuildSnapshot is a full, authoritative guild as produced by the platform's
// gateway. Upserting one replaces the guild's membership sets wholesale
// instead of diffing them against prior contents.
type GuildSnapshot struct {
	ID           uint64
	Name         string
	OwnerID      uint64
	Region       string
	AFKChannelID *uint64

	Channels    []Channel
	Features    []string
	Members     []Member
	Roles       []Role
	VoiceStates []VoiceState
}
