package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// taskCommand is the /task application command schema.
func taskCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "task",
		Description: "Server to-do (only in the task channel)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add a task",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "title", Description: "Title", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "notes", Description: "Notes"},
					{Type: discordgo.ApplicationCommandOptionString, Name: "due", Description: "YYYY-MM-DD or YYYY-MM-DD HH:mm"},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "priority", Description: "1=High, 2=Normal, 3=Low"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List tasks",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "filter",
						Description: "open|claimed|done|all",
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "open", Value: "open"},
							{Name: "claimed", Value: "claimed"},
							{Name: "done", Value: "done"},
							{Name: "all", Value: "all"},
						},
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "delete",
				Description: "Delete a task by id or id prefix (6+ chars)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "Task id or prefix", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "cleanup",
				Description: "Remove ghost tasks without a message (mods)",
			},
		},
	}
}

// RegisterCommands uploads the /task command, scoped to the guild when one
// is configured and globally otherwise.
func (g *Gateway) RegisterCommands(appID, guildID string) error {
	if appID == "" {
		return fmt.Errorf("discord.app_id is required to register commands")
	}
	_, err := g.session.ApplicationCommandBulkOverwrite(appID, guildID, []*discordgo.ApplicationCommand{taskCommand()})
	return err
}
