// Package keys maps entity identities to store key strings. The patterns are
// a fixed contract shared with out-of-process inspection tooling and must not
// change.
package keys

import "strconv"

func Channel(id uint64) string {
	return "ch:" + u(id)
}

func ChannelVoiceStates(id uint64) string {
	return "ch:" + u(id) + ":v"
}

func Choice(guildID uint64) string {
	return "c:" + u(guildID)
}

func Join(guildID uint64) string {
	return "j:" + u(guildID)
}

func Guild(id uint64) string {
	return "g:" + u(id)
}

func GuildChannels(id uint64) string {
	return "g:" + u(id) + ":c"
}

func GuildFeatures(id uint64) string {
	return "g:" + u(id) + ":f"
}

func GuildMembers(id uint64) string {
	return "g:" + u(id) + ":m"
}

func GuildPlayer(id uint64) string {
	return "g:" + u(id) + ":lhs"
}

func GuildRoles(id uint64) string {
	return "g:" + u(id) + ":r"
}

func GuildVoiceStates(guildID uint64) string {
	return "g:" + u(guildID) + ":v"
}

func Queue(guildID uint64) string {
	return "queue:" + u(guildID)
}

func Member(guildID, userID uint64) string {
	return "g:" + u(guildID) + ":m:" + u(userID)
}

func MemberRoles(guildID, userID uint64) string {
	return "g:" + u(guildID) + ":m:" + u(userID) + ":r"
}

func Role(guildID, roleID uint64) string {
	return "g:" + u(guildID) + ":r:" + u(roleID)
}

func UserVoiceState(guildID, userID uint64) string {
	return "g:" + u(guildID) + ":v:" + u(userID)
}

func SharderTo(shardID uint64) string {
	return "sharder:to:" + u(shardID)
}

func u(id uint64) string {
	return strconv.FormatUint(id, 10)
}
