package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"presencebot/internal/models"
)

// SentMessage records one mirror post made through the fake messenger.
type SentMessage struct {
	ChannelID  string
	MessageID  string
	Embed      *discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// MessageRef identifies a message touched by an edit or delete.
type MessageRef struct {
	ChannelID string
	MessageID string
}

// FakeMessenger implements services.Messenger and records every call.
// Setting the error fields makes the corresponding operation fail.
type FakeMessenger struct {
	mu sync.Mutex

	SendErr   error
	EditErr   error
	DeleteErr error

	Sent    []SentMessage
	Edits   []MessageRef
	Deletes []MessageRef

	nextID int
}

func (m *FakeMessenger) SendTaskMessage(channelID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return "", m.SendErr
	}
	m.nextID++
	id := fmt.Sprintf("msg-%d", m.nextID)
	m.Sent = append(m.Sent, SentMessage{ChannelID: channelID, MessageID: id, Embed: embed, Components: components})
	return id, nil
}

func (m *FakeMessenger) EditTaskMessage(channelID, messageID string, _ *discordgo.MessageEmbed, _ []discordgo.MessageComponent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EditErr != nil {
		return m.EditErr
	}
	m.Edits = append(m.Edits, MessageRef{ChannelID: channelID, MessageID: messageID})
	return nil
}

func (m *FakeMessenger) DeleteMessage(channelID, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deletes = append(m.Deletes, MessageRef{ChannelID: channelID, MessageID: messageID})
	return nil
}

// FakeRoster implements services.Roster from a fixed member map. Members
// absent from the map resolve to nil, the "unknown" case.
type FakeRoster struct {
	Connected bool
	Members   map[string]models.PresenceView
	Err       error

	Lookups int
}

func (r *FakeRoster) Ready() bool { return r.Connected }

func (r *FakeRoster) MemberPresence(_ context.Context, userID string) (*models.PresenceView, error) {
	r.Lookups++
	if r.Err != nil {
		return nil, r.Err
	}
	if v, ok := r.Members[userID]; ok {
		return &v, nil
	}
	return nil, nil
}
