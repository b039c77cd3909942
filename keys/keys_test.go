package keys

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestChannel(t *testing.T) {
	assert.Equal(t, "ch:381880193700069377", Channel(381880193700069377))
}

func TestChannelVoiceStates(t *testing.T) {
	assert.Equal(t, "ch:2:v", ChannelVoiceStates(2))
}

func TestChoice(t *testing.T) {
	assert.Equal(t, "c:272410239947767808", Choice(272410239947767808))
}

func TestGuild(t *testing.T) {
	assert.Equal(t, "g:381880193251409931", Guild(381880193251409931))
}

func TestGuildChannels(t *testing.T) {
	assert.Equal(t, "g:2:c", GuildChannels(2))
}

func TestGuildFeatures(t *testing.T) {
	assert.Equal(t, "g:2:f", GuildFeatures(2))
}

func TestGuildMembers(t *testing.T) {
	assert.Equal(t, "g:3:m", GuildMembers(3))
}

func TestGuildPlayer(t *testing.T) {
	assert.Equal(t, "g:4:lhs", GuildPlayer(4))
}

func TestGuildRoles(t *testing.T) {
	assert.Equal(t, "g:3:r", GuildRoles(3))
}

func TestGuildVoiceStates(t *testing.T) {
	assert.Equal(t, "g:1:v", GuildVoiceStates(1))
}

func TestQueue(t *testing.T) {
	assert.Equal(t, "queue:272410239947767808", Queue(272410239947767808))
}

func TestMember(t *testing.T) {
	assert.Equal(t, "g:1:m:2", Member(1, 2))
}

func TestMemberRoles(t *testing.T) {
	assert.Equal(t, "g:1:m:2:r", MemberRoles(1, 2))
}

func TestRole(t *testing.T) {
	assert.Equal(t, "g:1:r:2", Role(1, 2))
}

func TestUserVoiceState(t *testing.T) {
	assert.Equal(t, "g:1:v:2", UserVoiceState(1, 2))
	assert.Equal(t, "g:381880193251409931:v:114941315417899012", UserVoiceState(381880193251409931, 114941315417899012))
}

func TestSharderTo(t *testing.T) {
	assert.Equal(t, "sharder:to:1337", SharderTo(1337))
}
