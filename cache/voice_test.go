package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestUpsertVoiceStateJoinMoveLeave(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryCommander()
	c := New(mem)

	// Join channel 4.
	err := c.UpsertVoiceState(ctx, 1, VoiceState{UserID: 5, ChannelID: ptr(uint64(4)), SessionID: "s1"})
	require.NoError(t, err)

	state, err := c.VoiceState(ctx, 1, 5)
	require.NoError(t, err)
	require.NotNil(t, state.ChannelID)
	assert.Equal(t, uint64(4), *state.ChannelID)
	assert.Equal(t, "s1", state.SessionID)
	assert.Nil(t, state.Token)
	assert.Equal(t, []string{"5"}, mem.setMembers("ch:4:v"))
	assert.Equal(t, []string{"5"}, mem.setMembers("g:1:v"))

	// Move to channel 7.
	err = c.UpsertVoiceState(ctx, 1, VoiceState{UserID: 5, ChannelID: ptr(uint64(7)), SessionID: "s1"})
	require.NoError(t, err)

	assert.Empty(t, mem.setMembers("ch:4:v"))
	assert.Equal(t, []string{"5"}, mem.setMembers("ch:7:v"))
	assert.Equal(t, []string{"5"}, mem.setMembers("g:1:v"))

	// Leave voice entirely.
	err = c.UpsertVoiceState(ctx, 1, VoiceState{UserID: 5})
	require.NoError(t, err)

	assert.Empty(t, mem.setMembers("ch:7:v"))
	assert.Empty(t, mem.setMembers("g:1:v"))
	_, err = c.VoiceState(ctx, 1, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertVoiceStateIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryCommander()
	c := New(mem)

	state := VoiceState{UserID: 5, ChannelID: ptr(uint64(4)), SessionID: "s1", SelfMute: true}
	require.NoError(t, c.UpsertVoiceState(ctx, 1, state))
	require.NoError(t, c.UpsertVoiceState(ctx, 1, state))

	got, err := c.VoiceState(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), *got.ChannelID)
	assert.True(t, got.SelfMute)
	assert.Equal(t, []string{"5"}, mem.setMembers("ch:4:v"))
	assert.Equal(t, []string{"5"}, mem.setMembers("g:1:v"))
}

func TestUpsertVoiceStateTokenAbsentVersusEmpty(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryCommander()
	c := New(mem)

	require.NoError(t, c.UpsertVoiceState(ctx, 1, VoiceState{UserID: 5, ChannelID: ptr(uint64(4)), SessionID: "s1", Token: ptr("")}))
	state, err := c.VoiceState(ctx, 1, 5)
	require.NoError(t, err)
	require.NotNil(t, state.Token)
	assert.Empty(t, *state.Token)

	// A second upsert without a token must delete the stored field, not keep
	// the old value around.
	require.NoError(t, c.UpsertVoiceState(ctx, 1, VoiceState{UserID: 5, ChannelID: ptr(uint64(4)), SessionID: "s1"}))
	state, err = c.VoiceState(ctx, 1, 5)
	require.NoError(t, err)
	assert.Nil(t, state.Token)
}

func TestUpsertVoiceStateInfo(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryCommander()
	c := New(mem)

	require.NoError(t, c.UpsertVoiceState(ctx, 1, VoiceState{UserID: 5, ChannelID: ptr(uint64(4)), SessionID: "s1"}))
	c.UpsertVoiceStateInfo(1, 5, "voice.example.com", "tok")

	state, err := c.VoiceState(ctx, 1, 5)
	require.NoError(t, err)
	require.NotNil(t, state.Endpoint)
	assert.Equal(t, "voice.example.com", *state.Endpoint)
	require.NotNil(t, state.Token)
	assert.Equal(t, "tok", *state.Token)
}

func TestDeleteVoiceState(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryCommander()
	c := New(mem)

	require.NoError(t, c.UpsertVoiceState(ctx, 1, VoiceState{UserID: 5, ChannelID: ptr(uint64(4)), SessionID: "s1"}))

	deleted, err := c.DeleteVoiceState(ctx, 1, 5)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, mem.hashExists("g:1:v:5"))
	assert.Empty(t, mem.setMembers("g:1:v"))

	deleted, err = c.DeleteVoiceState(ctx, 1, 5)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteVoiceStates(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryCommander()
	c := New(mem)

	require.NoError(t, c.UpsertVoiceState(ctx, 1, VoiceState{UserID: 5, ChannelID: ptr(uint64(4)), SessionID: "s1"}))
	require.NoError(t, c.UpsertVoiceState(ctx, 1, VoiceState{UserID: 6, ChannelID: ptr(uint64(4)), SessionID: "s2"}))

	count, err := c.DeleteVoiceStates(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
	assert.Empty(t, mem.setMembers("g:1:v"))
	assert.False(t, mem.hashExists("g:1:v:5"))
	assert.False(t, mem.hashExists("g:1:v:6"))

	count, err = c.DeleteVoiceStates(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestVoiceStates(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryCommander()
	c := New(mem)

	require.NoError(t, c.UpsertVoiceState(ctx, 1, VoiceState{UserID: 5, ChannelID: ptr(uint64(4)), SessionID: "s1"}))
	require.NoError(t, c.UpsertVoiceState(ctx, 1, VoiceState{UserID: 6, ChannelID: ptr(uint64(7)), SessionID: "s2"}))

	states, err := c.VoiceStates(ctx, 1)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, uint64(4), *states[5].ChannelID)
	assert.Equal(t, uint64(7), *states[6].ChannelID)
	assert.Equal(t, uint64(5), states[5].UserID)
	assert.Equal(t, uint64(1), states[5].GuildID)
}

func TestVoiceStatesInconsistentSet(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryCommander()
	c := New(mem)

	// A member of the guild set without a voice-state hash is an error, not
	// a silent skip.
	mem.SAddForget("g:1:v", "9")

	_, err := c.VoiceStates(ctx, 1)
	assert.ErrorIs(t, err, ErrInconsistent)
}

func TestChannelVoiceStatesMalformedMember(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryCommander()
	c := New(mem)

	mem.SAddForget("ch:4:v", "not-a-number")

	_, err := c.ChannelVoiceStates(ctx, 4)
	assert.ErrorIs(t, err, ErrMalformedID)
}
