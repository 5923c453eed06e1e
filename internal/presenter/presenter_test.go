package presenter

import (
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presencebot/internal/models"
)

func sampleTask() *models.Task {
	return &models.Task{
		ID:        "a1b2c3d4-0000-0000-0000-000000000000",
		GuildID:   "g1",
		ChannelID: "c1",
		Title:     "Ship report",
		Priority:  models.PriorityNormal,
		CreatedBy: "u-creator",
		CreatedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		MessageID: "m1",
	}
}

func TestStatusText(t *testing.T) {
	actor := "u-actor"

	t.Run("open", func(t *testing.T) {
		assert.Equal(t, "🟢 Open", StatusText(sampleTask()))
	})

	t.Run("claimed", func(t *testing.T) {
		task := sampleTask()
		task.ClaimedBy = &actor
		assert.Equal(t, "🧑‍💻 Claimed by <@u-actor>", StatusText(task))
	})

	t.Run("done wins over claimed", func(t *testing.T) {
		task := sampleTask()
		task.ClaimedBy = &actor
		task.Done = true
		task.CompletedBy = &actor
		assert.Equal(t, "✅ Done by <@u-actor>", StatusText(task))
	})
}

func TestDueText(t *testing.T) {
	task := sampleTask()
	assert.Equal(t, "—", DueText(task))

	due := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	task.DueAt = &due
	assert.Equal(t, fmt.Sprintf("<t:%d:f>", due.Unix()), DueText(task))
}

func TestPriorityGlyph(t *testing.T) {
	assert.Equal(t, "🔥", PriorityGlyph(1))
	assert.Equal(t, "•", PriorityGlyph(2))
	assert.Equal(t, "⬇️", PriorityGlyph(3))
	// out-of-range input is clamped, same as storage
	assert.Equal(t, "🔥", PriorityGlyph(0))
	assert.Equal(t, "⬇️", PriorityGlyph(9))
}

func TestEmbed(t *testing.T) {
	task := sampleTask()
	task.Notes = "bring the numbers"

	embed := Embed(task)
	assert.Equal(t, "• Ship report", embed.Title)
	assert.Equal(t, "bring the numbers", embed.Description)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "🟢 Open", embed.Fields[0].Value)
	assert.Equal(t, "—", embed.Fields[1].Value)
	assert.Equal(t, "<@u-creator>", embed.Fields[2].Value)
	assert.Equal(t, "ID: a1b2c3", embed.Footer.Text)
}

func TestButtons(t *testing.T) {
	t.Run("open task: claim label, all enabled", func(t *testing.T) {
		row := Buttons(sampleTask())[0].(discordgo.ActionsRow)
		require.Len(t, row.Components, 3)
		claim := row.Components[0].(discordgo.Button)
		assert.Equal(t, "Claim", claim.Label)
		assert.Equal(t, "task:claim:a1b2c3d4-0000-0000-0000-000000000000", claim.CustomID)
		for _, c := range row.Components {
			assert.False(t, c.(discordgo.Button).Disabled)
		}
	})

	t.Run("claimed task flips the label", func(t *testing.T) {
		task := sampleTask()
		actor := "u-actor"
		task.ClaimedBy = &actor
		row := Buttons(task)[0].(discordgo.ActionsRow)
		assert.Equal(t, "Unclaim", row.Components[0].(discordgo.Button).Label)
	})

	t.Run("done task disables everything", func(t *testing.T) {
		task := sampleTask()
		task.Done = true
		row := Buttons(task)[0].(discordgo.ActionsRow)
		for _, c := range row.Components {
			assert.True(t, c.(discordgo.Button).Disabled)
		}
	})
}

func TestParseCustomID(t *testing.T) {
	action, id, ok := ParseCustomID(CustomID(ActionDone, "task-1"))
	require.True(t, ok)
	assert.Equal(t, ActionDone, action)
	assert.Equal(t, "task-1", id)

	for _, bad := range []string{"", "task:", "task:claim:", "other:claim:x", "task:claim"} {
		_, _, ok := ParseCustomID(bad)
		assert.False(t, ok, "input %q", bad)
	}
}

func TestListLine(t *testing.T) {
	t.Run("live mirror links to the message", func(t *testing.T) {
		line := ListLine(sampleTask())
		assert.Contains(t, line, "**Ship report**")
		assert.Contains(t, line, "https://discord.com/channels/g1/c1/m1")
		assert.NotContains(t, line, "⚠️")
	})

	t.Run("ghost gets a warning marker and the short id", func(t *testing.T) {
		task := sampleTask()
		task.MessageID = ""
		line := ListLine(task)
		assert.Contains(t, line, "⚠️")
		assert.Contains(t, line, "(ID: a1b2c3)")
	})
}

func TestListing(t *testing.T) {
	assert.Equal(t, "**Tasks (open)**\nNo tasks.", Listing(models.FilterOpen, nil))

	out := Listing(models.FilterAll, []models.Task{*sampleTask()})
	assert.Contains(t, out, "**Tasks (all)**")
	assert.Contains(t, out, "Ship report")
}
