package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store/memstore"
)

func newCollabFixture(t *testing.T) (*CollaborationService, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	return NewCollaborationService(st, testLogger()), st
}

func TestCreateRoomDefaultsAndEagerWhiteboard(t *testing.T) {
	svc, st := newCollabFixture(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, "host", models.CreateRoomRequest{
		Name:  "Algorithms",
		Tools: models.RoomTools{Whiteboard: true},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"host"}, room.Participants)
	assert.Equal(t, defaultMaxParticipants, room.MaxParticipants)
	assert.Equal(t, models.RoomStudyGroup, room.RoomType)
	assert.Equal(t, models.RoomPublic, room.Privacy)
	assert.True(t, room.IsActive)

	wb, err := st.GetWhiteboard(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, wb.Elements)
	assert.Equal(t, "host", wb.ModifiedBy)
}

func TestCreateRoomWithoutWhiteboardTool(t *testing.T) {
	svc, st := newCollabFixture(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, "host", models.CreateRoomRequest{Name: "Reading"})
	require.NoError(t, err)

	_, err = st.GetWhiteboard(ctx, room.ID)
	assert.Error(t, err)
}

func TestJoinRoomFullRejects(t *testing.T) {
	svc, st := newCollabFixture(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, "host", models.CreateRoomRequest{Name: "r", MaxParticipants: 2})
	require.NoError(t, err)

	_, err = svc.JoinRoom(ctx, room.ID, "u2")
	require.NoError(t, err)

	_, err = svc.JoinRoom(ctx, room.ID, "u3")
	assert.ErrorIs(t, err, ErrRoomFull)

	got, err := st.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"host", "u2"}, got.Participants)
}

func TestJoinRoomIdempotentForMembers(t *testing.T) {
	svc, st := newCollabFixture(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, "host", models.CreateRoomRequest{Name: "r", MaxParticipants: 1})
	require.NoError(t, err)

	// The host rejoining a full room is a no-op, not ErrRoomFull.
	got, err := svc.JoinRoom(ctx, room.ID, "host")
	require.NoError(t, err)
	assert.Equal(t, []string{"host"}, got.Participants)

	stored, err := st.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"host"}, stored.Participants)
}

func TestLeaveRoomDeactivatesWhenEmpty(t *testing.T) {
	svc, st := newCollabFixture(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, "host", models.CreateRoomRequest{Name: "r"})
	require.NoError(t, err)
	_, err = svc.JoinRoom(ctx, room.ID, "u2")
	require.NoError(t, err)

	got, err := svc.LeaveRoom(ctx, room.ID, "u2")
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, []string{"host"}, got.Participants)

	got, err = svc.LeaveRoom(ctx, room.ID, "host")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.ClosedAt)

	stored, err := st.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Empty(t, stored.Participants)

	active, err := svc.ListActiveRooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSaveWhiteboardReplacesElements(t *testing.T) {
	svc, _ := newCollabFixture(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, "host", models.CreateRoomRequest{
		Name:  "r",
		Tools: models.RoomTools{Whiteboard: true},
	})
	require.NoError(t, err)

	three := []models.WhiteboardElement{
		{Type: "path", Color: "#000"},
		{Type: "rect", Color: "#f00"},
		{Type: "text", Text: "hello"},
	}
	_, err = svc.SaveWhiteboard(ctx, room.ID, "u1", three)
	require.NoError(t, err)

	one := []models.WhiteboardElement{{Type: "line", Color: "#00f"}}
	wb, err := svc.SaveWhiteboard(ctx, room.ID, "u2", one)
	require.NoError(t, err)

	// The whole array is replaced, not merged.
	require.Len(t, wb.Elements, 1)
	assert.Equal(t, "line", wb.Elements[0].Type)
	assert.Equal(t, "u2", wb.ModifiedBy)

	stored, err := svc.GetWhiteboard(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Elements, 1)
}

func TestSharedDocumentLifecycle(t *testing.T) {
	svc, _ := newCollabFixture(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, "host", models.CreateRoomRequest{Name: "r"})
	require.NoError(t, err)

	doc, err := svc.CreateDocument(ctx, room.ID, "host", "Notes")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, []string{"host"}, doc.Collaborators)

	doc, err = svc.SaveDocument(ctx, doc.ID, "u2", models.SaveDocumentRequest{Content: "first draft"})
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Version)
	assert.Equal(t, "first draft", doc.Content)

	doc, err = svc.SaveDocument(ctx, doc.ID, "host", models.SaveDocumentRequest{Content: "rewritten"})
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Version)
	assert.Equal(t, "rewritten", doc.Content)
	assert.ElementsMatch(t, []string{"host", "u2"}, doc.Collaborators)

	docs, err := svc.ListDocuments(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestPostAndListMessages(t *testing.T) {
	svc, _ := newCollabFixture(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, "host", models.CreateRoomRequest{Name: "r"})
	require.NoError(t, err)

	m, err := svc.PostMessage(ctx, room.ID, "host", "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "text", m.Type)

	_, err = svc.PostMessage(ctx, room.ID, "u2", "hi", "text")
	require.NoError(t, err)

	msgs, err := svc.ListMessages(ctx, room.ID, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	_, err = svc.PostMessage(ctx, "missing", "u1", "hello", "")
	assert.Error(t, err)
}
