package platform

import (
	"os"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-cache/cache"
	"github.com/fuad-daoud/discord-cache/logger/dlog"
	"golang.org/x/net/context"
)

var client *bot.Client

// Setup connects the gateway events to the cache. Every listener runs as its
// own goroutine so a slow store never backs up the gateway read loop.
func Setup(c *cache.Cache) error {
	clientTmp, err := disgo.New(os.Getenv("TOKEN"),
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMembers,
				gateway.IntentGuildVoiceStates,
			),
		),
		bot.WithEventListenerFunc(readyHandler),
		bot.WithEventListenerFunc(func(e *events.GuildVoiceStateUpdate) {
			go onVoiceStateUpdate(c, e)
		}),
		bot.WithEventListenerFunc(func(e *events.VoiceServerUpdate) {
			go onVoiceServerUpdate(c, e)
		}),
	)
	if err != nil {
		return err
	}
	if err = clientTmp.OpenGateway(context.TODO()); err != nil {
		return err
	}
	client = &clientTmp
	return nil
}

func Client() bot.Client {
	return *client
}

func Close() {
	(*client).Close(context.TODO())
	dlog.Info("disgo close successfully")
}

func readyHandler(event *events.Ready) {
	selfUser, _ := event.Client().Caches().SelfUser()
	dlog.Info("Bot is up", "user", selfUser.Username)
}

func onVoiceStateUpdate(c *cache.Cache, event *events.GuildVoiceStateUpdate) {
	state := convertVoiceState(event.VoiceState)
	err := c.UpsertVoiceState(context.Background(), state.GuildID, state)
	if err != nil {
		dlog.Error("failed to upsert voice state",
			"guildID", state.GuildID, "userID", state.UserID, "err", err)
	}
}

// A voice server update carries no user; it describes the bot's own
// connection, so the info lands on the bot's state hash.
func onVoiceServerUpdate(c *cache.Cache, event *events.VoiceServerUpdate) {
	if event.Endpoint == nil {
		return
	}
	userID := uint64(event.Client().ApplicationID())
	c.UpsertVoiceStateInfo(uint64(event.GuildID), userID, *event.Endpoint, event.Token)
}

func convertVoiceState(state discord.VoiceState) cache.VoiceState {
	return cache.VoiceState{
		GuildID:   uint64(state.GuildID),
		UserID:    uint64(state.UserID),
		ChannelID: convertID(state.ChannelID),
		Mute:      state.GuildMute,
		SelfDeaf:  state.SelfDeaf,
		SelfMute:  state.SelfMute,
		Suppress:  state.Suppress,
		SessionID: state.SessionID,
	}
}

func convertID(id *snowflake.ID) *uint64 {
	if id == nil {
		return nil
	}
	v := uint64(*id)
	return &v
}
