// Package discord adapts the discordgo session to the narrow interfaces the
// services consume: outbound task messages, roster presence reads, channel
// lookup, and command registration.
package discord

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"presencebot/internal/config"
	"presencebot/internal/models"
)

type Gateway struct {
	session *discordgo.Session
	guildID string
	ready   atomic.Bool
}

func New(cfg config.DiscordConfig) (*Gateway, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildPresences
	session.StateEnabled = true
	session.State.TrackPresences = true
	session.State.TrackMembers = true

	g := &Gateway{session: session, guildID: cfg.GuildID}
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		g.ready.Store(true)
		log.Printf("[discord][ready] logged in as %s#%s", r.User.Username, r.User.Discriminator)
		// Pull the full member list into state so roster lookups do not
		// depend on who happened to be online at connect time.
		if err := s.RequestGuildMembers(g.guildID, "", 0, "", true); err != nil {
			log.Printf("[discord][ready][warn] member chunk request: %v", err)
		}
	})
	return g, nil
}

func (g *Gateway) Open() error {
	return g.session.Open()
}

func (g *Gateway) Close() error {
	return g.session.Close()
}

// Session exposes the raw session for the interaction layer.
func (g *Gateway) Session() *discordgo.Session {
	return g.session
}

func (g *Gateway) Ready() bool {
	return g.ready.Load()
}

// ---- services.Messenger ----

func (g *Gateway) SendTaskMessage(channelID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) (string, error) {
	msg, err := g.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (g *Gateway) EditTaskMessage(channelID, messageID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	edit := discordgo.NewMessageEdit(channelID, messageID)
	edit.Embeds = &[]*discordgo.MessageEmbed{embed}
	edit.Components = &components
	_, err := g.session.ChannelMessageEditComplex(edit)
	return err
}

func (g *Gateway) DeleteMessage(channelID, messageID string) error {
	return g.session.ChannelMessageDelete(channelID, messageID)
}

// ---- services.Roster ----

// MemberPresence reads the member and presence from the gateway state cache.
// An unresolvable member yields (nil, nil); the presence service renders the
// sentinel instead. A member without a presence entry is simply offline.
func (g *Gateway) MemberPresence(_ context.Context, userID string) (*models.PresenceView, error) {
	member, err := g.session.State.Member(g.guildID, userID)
	if err != nil || member == nil || member.User == nil {
		return nil, nil
	}
	view := &models.PresenceView{
		ID:         userID,
		Username:   member.User.Username,
		Status:     models.StatusOffline,
		Activities: []models.Activity{},
		AvatarURL:  member.User.AvatarURL("64"),
	}
	presence, err := g.session.State.Presence(g.guildID, userID)
	if err != nil || presence == nil {
		return view, nil
	}
	if s := statusOf(presence.Status); s != "" {
		view.Status = s
	}
	for _, a := range presence.Activities {
		if a == nil {
			continue
		}
		view.Activities = append(view.Activities, models.Activity{
			Name: a.Name,
			Type: strconv.Itoa(int(a.Type)),
		})
	}
	return view, nil
}

func statusOf(s discordgo.Status) models.PresenceStatus {
	switch s {
	case discordgo.StatusOnline:
		return models.StatusOnline
	case discordgo.StatusIdle:
		return models.StatusIdle
	case discordgo.StatusDoNotDisturb:
		return models.StatusDND
	case discordgo.StatusOffline, discordgo.StatusInvisible:
		return models.StatusOffline
	}
	return ""
}

// ---- channel helpers ----

// HasPostPermissions checks the bot can view, send, and embed in a channel.
func (g *Gateway) HasPostPermissions(channelID string) bool {
	if g.session.State.User == nil {
		return false
	}
	perms, err := g.session.UserChannelPermissions(g.session.State.User.ID, channelID)
	if err != nil {
		log.Printf("[discord][perms][warn] channel=%s: %v", channelID, err)
		return false
	}
	need := int64(discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionEmbedLinks)
	return perms&need == need
}

// FindTextChannelByName returns the id of the first guild text channel with
// the given name (case-insensitive), or "" when there is none.
func (g *Gateway) FindTextChannelByName(name string) (string, error) {
	channels, err := g.guildChannels()
	if err != nil {
		return "", err
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && strings.EqualFold(ch.Name, name) {
			return ch.ID, nil
		}
	}
	return "", nil
}

func (g *Gateway) guildChannels() ([]*discordgo.Channel, error) {
	if guild, err := g.session.State.Guild(g.guildID); err == nil && len(guild.Channels) > 0 {
		return guild.Channels, nil
	}
	return g.session.GuildChannels(g.guildID)
}
