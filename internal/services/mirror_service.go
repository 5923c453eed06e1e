package services

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"presencebot/internal/models"
	"presencebot/internal/presenter"
)

// Messenger is the slice of the gateway the mirror needs.
type Messenger interface {
	SendTaskMessage(channelID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) (string, error)
	EditTaskMessage(channelID, messageID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error
	DeleteMessage(channelID, messageID string) error
}

// MirrorService keeps a task's chat message in step with its record.
// Post failures are the caller's problem (creation rolls back on them);
// Refresh and Remove are best-effort and never propagate errors.
type MirrorService struct {
	msgr Messenger
}

func NewMirrorService(msgr Messenger) *MirrorService {
	return &MirrorService{msgr: msgr}
}

// Post sends the mirror message for a freshly created task and returns its id.
func (m *MirrorService) Post(t *models.Task) (string, error) {
	return m.msgr.SendTaskMessage(t.ChannelID, presenter.Embed(t), presenter.Buttons(t))
}

// Refresh edits the mirror message to match the task's current state. A
// vanished message or channel is logged and otherwise ignored; no retries.
func (m *MirrorService) Refresh(t *models.Task) {
	if t.Ghost() {
		return
	}
	if err := m.msgr.EditTaskMessage(t.ChannelID, t.MessageID, presenter.Embed(t), presenter.Buttons(t)); err != nil {
		log.Printf("[mirror][refresh][warn] task=%s message=%s: %v", t.ShortID(), t.MessageID, err)
	}
}

// Remove deletes the mirror message, with the same swallow-and-log policy.
func (m *MirrorService) Remove(t *models.Task) {
	if t.Ghost() {
		return
	}
	if err := m.msgr.DeleteMessage(t.ChannelID, t.MessageID); err != nil {
		log.Printf("[mirror][remove][warn] task=%s message=%s: %v", t.ShortID(), t.MessageID, err)
	}
}
