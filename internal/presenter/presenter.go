// Package presenter turns task records into their chat representation.
// Everything here is pure; nothing talks to the gateway or the store.
package presenter

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"presencebot/internal/models"
)

// Button custom-ID actions, wire format "task:<action>:<taskId>".
const (
	ActionClaim  = "claim"
	ActionDone   = "done"
	ActionDelete = "del"

	customIDPrefix = "task"
)

// CustomID builds the component id for a task action button.
func CustomID(action, taskID string) string {
	return customIDPrefix + ":" + action + ":" + taskID
}

// ParseCustomID splits a component id into action and task id. ok is false
// for ids that did not come from a task button.
func ParseCustomID(id string) (action, taskID string, ok bool) {
	parts := strings.SplitN(id, ":", 3)
	if len(parts) != 3 || parts[0] != customIDPrefix || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// PriorityGlyph renders the fixed symbol per priority level.
func PriorityGlyph(p int) string {
	switch models.ClampPriority(p) {
	case models.PriorityHigh:
		return "🔥"
	case models.PriorityLow:
		return "⬇️"
	}
	return "•"
}

// StatusText picks the status line: done wins over claimed wins over open.
func StatusText(t *models.Task) string {
	if t.Done {
		if t.CompletedBy != nil {
			return fmt.Sprintf("✅ Done by <@%s>", *t.CompletedBy)
		}
		return "✅ Done"
	}
	if t.ClaimedBy != nil {
		return fmt.Sprintf("🧑‍💻 Claimed by <@%s>", *t.ClaimedBy)
	}
	return "🟢 Open"
}

// DueText renders the due date as a Discord timestamp marker, or an em-dash
// when the task has no due date.
func DueText(t *models.Task) string {
	if t.DueAt == nil {
		return "—"
	}
	return fmt.Sprintf("<t:%d:f>", t.DueAt.Unix())
}

func dueRelative(t *models.Task) string {
	if t.DueAt == nil {
		return ""
	}
	return fmt.Sprintf("— <t:%d:R>", t.DueAt.Unix())
}

// MessageLink is the jump link to the task's mirror message, empty for ghosts.
func MessageLink(t *models.Task) string {
	if t.Ghost() {
		return ""
	}
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", t.GuildID, t.ChannelID, t.MessageID)
}

// Embed builds the mirror message body for a task.
func Embed(t *models.Task) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s", PriorityGlyph(t.Priority), t.Title),
		Description: t.Notes,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: StatusText(t), Inline: true},
			{Name: "Due", Value: DueText(t), Inline: true},
			{Name: "Created by", Value: fmt.Sprintf("<@%s>", t.CreatedBy), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "ID: " + t.ShortID()},
		Timestamp: t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Buttons builds the action row for a task. All buttons are disabled once
// the task is done.
func Buttons(t *models.Task) []discordgo.MessageComponent {
	claimLabel := "Claim"
	if t.ClaimedBy != nil {
		claimLabel = "Unclaim"
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: CustomID(ActionClaim, t.ID),
					Style:    discordgo.PrimaryButton,
					Label:    claimLabel,
					Disabled: t.Done,
				},
				discordgo.Button{
					CustomID: CustomID(ActionDone, t.ID),
					Style:    discordgo.SuccessButton,
					Label:    "Done",
					Disabled: t.Done,
				},
				discordgo.Button{
					CustomID: CustomID(ActionDelete, t.ID),
					Style:    discordgo.DangerButton,
					Label:    "Delete",
					Disabled: t.Done,
				},
			},
		},
	}
}

// ListLine renders one row of a /task list reply. Ghost tasks get a warning
// marker; tasks with a live mirror link to it, others show the short id.
func ListLine(t *models.Task) string {
	who := "🟢"
	if t.Done {
		who = "✅"
		if t.CompletedBy != nil {
			who = fmt.Sprintf("✅ <@%s>", *t.CompletedBy)
		}
	} else if t.ClaimedBy != nil {
		who = fmt.Sprintf("🧑‍💻 <@%s>", *t.ClaimedBy)
	}

	tail := MessageLink(t)
	if tail == "" {
		tail = fmt.Sprintf("(ID: %s)", t.ShortID())
	}
	ghost := ""
	if t.Ghost() {
		ghost = "⚠️ "
	}

	line := fmt.Sprintf("%s%s %s **%s**", ghost, who, PriorityGlyph(t.Priority), t.Title)
	if rel := dueRelative(t); rel != "" {
		line += " " + rel
	}
	return line + " " + tail
}

// Listing renders the full /task list reply body.
func Listing(filter models.ListFilter, tasks []models.Task) string {
	if len(tasks) == 0 {
		return fmt.Sprintf("**Tasks (%s)**\nNo tasks.", filter)
	}
	lines := make([]string, 0, len(tasks))
	for i := range tasks {
		lines = append(lines, ListLine(&tasks[i]))
	}
	return fmt.Sprintf("**Tasks (%s)**\n%s", filter, strings.Join(lines, "\n"))
}
