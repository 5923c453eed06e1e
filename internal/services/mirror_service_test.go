package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presencebot/internal/models"
	"presencebot/internal/testutil"
)

func mirrorTask() *models.Task {
	return &models.Task{
		ID:        "abcdef-12345",
		GuildID:   "g1",
		ChannelID: "c1",
		Title:     "t",
		Priority:  models.PriorityNormal,
		CreatedBy: "u1",
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		MessageID: "m1",
	}
}

func TestMirrorService_Post(t *testing.T) {
	msgr := &testutil.FakeMessenger{}
	mirror := NewMirrorService(msgr)

	id, err := mirror.Post(mirrorTask())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, msgr.Sent, 1)
	assert.Equal(t, "c1", msgr.Sent[0].ChannelID)

	msgr.SendErr = errors.New("no access")
	_, err = mirror.Post(mirrorTask())
	assert.Error(t, err, "post failures must reach the caller for rollback")
}

func TestMirrorService_RefreshSwallowsFailures(t *testing.T) {
	msgr := &testutil.FakeMessenger{EditErr: errors.New("unknown message")}
	mirror := NewMirrorService(msgr)

	mirror.Refresh(mirrorTask()) // must not panic or propagate
	assert.Empty(t, msgr.Edits)

	msgr.EditErr = nil
	mirror.Refresh(mirrorTask())
	assert.Len(t, msgr.Edits, 1)
}

func TestMirrorService_RemoveSwallowsFailures(t *testing.T) {
	msgr := &testutil.FakeMessenger{DeleteErr: errors.New("unknown channel")}
	mirror := NewMirrorService(msgr)

	mirror.Remove(mirrorTask())
	assert.Empty(t, msgr.Deletes)
}

func TestMirrorService_SkipsGhosts(t *testing.T) {
	msgr := &testutil.FakeMessenger{}
	mirror := NewMirrorService(msgr)

	task := mirrorTask()
	task.MessageID = ""
	mirror.Refresh(task)
	mirror.Remove(task)
	assert.Empty(t, msgr.Edits)
	assert.Empty(t, msgr.Deletes)
}
