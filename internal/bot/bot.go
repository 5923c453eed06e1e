// Package bot is the interaction layer: it routes slash commands and button
// clicks into the task lifecycle controller and translates its outcomes into
// ephemeral replies. Every handler is wrapped so one failing interaction can
// never take the process down.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"presencebot/internal/authz"
	"presencebot/internal/config"
	"presencebot/internal/discord"
	"presencebot/internal/models"
	"presencebot/internal/presenter"
	"presencebot/internal/services"
)

const apology = "Something went wrong 🤕"

type Bot struct {
	gw      *discord.Gateway
	tasks   *services.TaskService
	guildID string
	todo    *todoChannel
}

func New(gw *discord.Gateway, tasks *services.TaskService, cfg config.DiscordConfig) *Bot {
	return &Bot{
		gw:      gw,
		tasks:   tasks,
		guildID: cfg.GuildID,
		todo:    newTodoChannel(cfg.TodoChannelID, gw),
	}
}

// Start hooks the bot into the gateway's interaction stream.
func (b *Bot) Start() {
	b.gw.Session().AddHandler(b.onInteraction)
}

func (b *Bot) onInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[bot][panic] %v", r)
		}
	}()
	if ic.GuildID != b.guildID || ic.Member == nil || ic.Member.User == nil {
		return
	}
	switch ic.Type {
	case discordgo.InteractionApplicationCommand:
		data := ic.ApplicationCommandData()
		if data.Name != "task" || len(data.Options) == 0 {
			return
		}
		b.handleSlash(s, ic, data.Options[0])
	case discordgo.InteractionMessageComponent:
		data := ic.MessageComponentData()
		action, taskID, ok := presenter.ParseCustomID(data.CustomID)
		if !ok {
			return
		}
		b.handleButton(s, ic, action, taskID)
	}
}

// ---- slash commands ----

func (b *Bot) handleSlash(s *discordgo.Session, ic *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	// Ack within the 3s window; the real reply comes as an edit.
	if err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		log.Printf("[task][%s][err] defer: %v", sub.Name, err)
		return
	}

	reply, err := b.runSlash(ic, sub)
	if err != nil {
		log.Printf("[task][%s][err] %v", sub.Name, err)
		reply = apology
	}
	b.editReply(s, ic, reply)
}

func (b *Bot) runSlash(ic *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) (string, error) {
	ctx := context.Background()
	opts := optionMap(sub.Options)
	actorID := ic.Member.User.ID
	moderator := authz.IsModerator(ic.Member.Permissions)

	// list works from anywhere; everything else is bound to the task channel.
	if sub.Name == "list" {
		filter := models.ParseListFilter(stringOpt(opts, "filter"))
		tasks, err := b.tasks.List(ctx, b.guildID, filter)
		if err != nil {
			return "", err
		}
		return presenter.Listing(filter, tasks), nil
	}

	todoID, redirect, err := b.requireTodoChannel(ic)
	if err != nil {
		return "", err
	}
	if redirect != "" {
		return redirect, nil
	}

	switch sub.Name {
	case "add":
		return b.runAdd(ctx, todoID, actorID, opts)
	case "delete":
		return b.runDelete(ctx, actorID, moderator, opts)
	case "cleanup":
		n, err := b.tasks.Cleanup(ctx, b.guildID, moderator)
		if errors.Is(err, models.ErrNotAllowed) {
			return "Only moderators (Manage Messages) can run cleanup.", nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Cleanup: removed %d tasks without a message.", n), nil
	}
	return "", fmt.Errorf("unknown subcommand %q", sub.Name)
}

func (b *Bot) runAdd(ctx context.Context, todoID, actorID string, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) (string, error) {
	if !b.gw.HasPostPermissions(todoID) {
		return fmt.Sprintf("Missing permissions in <#%s> (need: View Channel, Send Messages, Embed Links).", todoID), nil
	}
	priority := models.PriorityNormal
	if opt, ok := opts["priority"]; ok {
		priority = int(opt.IntValue())
	}
	_, err := b.tasks.Add(ctx, services.AddTaskInput{
		GuildID:   b.guildID,
		ChannelID: todoID,
		Title:     stringOpt(opts, "title"),
		Notes:     stringOpt(opts, "notes"),
		Due:       stringOpt(opts, "due"),
		Priority:  priority,
		ActorID:   actorID,
	})
	if err != nil {
		// The record was rolled back; tell the issuer, do not crash.
		return truncate(fmt.Sprintf("Couldn't post in <#%s>: %v", todoID, err), 300), nil
	}
	return fmt.Sprintf("Task created in <#%s>.", todoID), nil
}

func (b *Bot) runDelete(ctx context.Context, actorID string, moderator bool, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) (string, error) {
	prefix := strings.TrimSpace(stringOpt(opts, "id"))
	task, err := b.tasks.Resolve(ctx, b.guildID, prefix)
	switch {
	case errors.Is(err, models.ErrBadIDPrefix):
		return "Use at least 6 characters of the id (prefix).", nil
	case errors.Is(err, models.ErrTaskNotFound):
		return "No task matches that id.", nil
	case errors.Is(err, models.ErrAmbiguousID):
		return "Multiple tasks match that prefix. Give the full id.", nil
	case err != nil:
		return "", err
	}

	err = b.tasks.Delete(ctx, task, actorID, moderator)
	if errors.Is(err, models.ErrNotAllowed) {
		return "You are not allowed to delete this task.", nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Deleted: `%s`", task.ShortID()), nil
}

// requireTodoChannel enforces the channel restriction. A non-empty redirect
// string is the user-facing rejection.
func (b *Bot) requireTodoChannel(ic *discordgo.InteractionCreate) (todoID, redirect string, err error) {
	todoID, err = b.todo.ID()
	if err != nil {
		return "", "", fmt.Errorf("resolve todo channel: %w", err)
	}
	if todoID == "" {
		return "", "Admin: set **discord.todo_channel_id** to the task channel's id.", nil
	}
	if ic.ChannelID != todoID {
		return "", fmt.Sprintf("Use this command in <#%s>.", todoID), nil
	}
	return todoID, "", nil
}

// ---- buttons ----

func (b *Bot) handleButton(s *discordgo.Session, ic *discordgo.InteractionCreate, action, taskID string) {
	// Ack the click; the mirror message edit is the visible outcome.
	if err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		log.Printf("[task][button][err] defer: %v", err)
		return
	}

	notice, err := b.runButton(ic, action, taskID)
	if err != nil {
		log.Printf("[task][button][err] action=%s task=%s: %v", action, taskID, err)
		notice = apology
	}
	if notice != "" {
		b.followUp(s, ic, notice)
	}
}

func (b *Bot) runButton(ic *discordgo.InteractionCreate, action, taskID string) (string, error) {
	ctx := context.Background()
	actorID := ic.Member.User.ID

	task, err := b.tasks.Get(ctx, taskID)
	if errors.Is(err, models.ErrTaskNotFound) {
		return "That task no longer exists.", nil
	}
	if err != nil {
		return "", err
	}

	if todoID, err := b.todo.ID(); err == nil && todoID != "" && task.ChannelID != todoID {
		return "This task is locked to the task channel.", nil
	}

	switch action {
	case presenter.ActionClaim:
		_, err := b.tasks.ToggleClaim(ctx, taskID, actorID)
		return "", err
	case presenter.ActionDone:
		_, err := b.tasks.Complete(ctx, taskID, actorID)
		if errors.Is(err, models.ErrAlreadyDone) {
			return "Already done.", nil
		}
		return "", err
	case presenter.ActionDelete:
		err := b.tasks.Delete(ctx, task, actorID, authz.IsModerator(ic.Member.Permissions))
		if errors.Is(err, models.ErrNotAllowed) {
			return "You are not allowed to delete this task.", nil
		}
		return "", err
	}
	return "", nil
}

// ---- reply helpers ----

func (b *Bot) editReply(s *discordgo.Session, ic *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(ic.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		log.Printf("[bot][reply][err] %v", err)
	}
}

func (b *Bot) followUp(s *discordgo.Session, ic *discordgo.InteractionCreate, content string) {
	_, err := s.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Printf("[bot][followup][err] %v", err)
	}
}

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

func stringOpt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
