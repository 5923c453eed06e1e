package authz

import (
	"github.com/bwmarrin/discordgo"

	"presencebot/internal/models"
)

// IsModerator reports whether a member's permission bits carry the
// moderation privilege used for delete/cleanup (Manage Messages).
func IsModerator(permissions int64) bool {
	return permissions&discordgo.PermissionManageMessages != 0
}

// CanDeleteTask allows the original creator and moderators.
func CanDeleteTask(t *models.Task, actorID string, moderator bool) bool {
	return t.CreatedBy == actorID || moderator
}
