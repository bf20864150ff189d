package service

import (
	"context"
	"testing"

	"askq-be/internal/dto"
	"askq-be/internal/entity"
	"askq-be/internal/model"
	"askq-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationService_Create(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	conversation, err := s.conversations.Create(ctx, entity.UserOwner(7))
	require.NoError(t, err)
	assert.NotZero(t, conversation.Id)
	assert.Equal(t, entity.DefaultConversationTitle, conversation.Title)
	require.NotNil(t, conversation.UserId)
	assert.Equal(t, uint(7), *conversation.UserId)
	assert.Nil(t, conversation.DeviceId)

	_, err = s.conversations.Create(ctx, entity.Owner{})
	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "No identity", validation.Message)

	_, err = s.conversations.Create(ctx, entity.Owner{UserId: 1, DeviceId: "abc"})
	assert.ErrorAs(t, err, &validation)
}

func TestConversationService_TitleDerivation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "long message is truncated",
			content: "Hello, can you help me understand recursion in depth please",
			want:    "Hello, can you help me understand recursion in dep...",
		},
		{
			name:    "short message is verbatim",
			content: "What is a closure?",
			want:    "What is a closure?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestServices(t)

			conversation, err := s.conversations.Create(ctx, entity.DeviceOwner("abc"))
			require.NoError(t, err)

			_, err = s.conversations.AppendMessage(ctx, conversation.Id, entity.ChatRoleUser, tt.content)
			require.NoError(t, err)
			_, err = s.conversations.AppendMessage(ctx, conversation.Id, entity.ChatRoleUser, "a second question that must not retitle")
			require.NoError(t, err)

			var stored model.Conversation
			require.NoError(t, s.db.First(&stored, conversation.Id).Error)
			assert.Equal(t, tt.want, stored.Title)
		})
	}
}

func TestConversationService_TitleSkipsBlankFirstMessage(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	conversation, err := s.conversations.Create(ctx, entity.DeviceOwner("abc"))
	require.NoError(t, err)

	blank, err := s.conversations.AppendMessage(ctx, conversation.Id, entity.ChatRoleUser, "  \n\t ")
	require.NoError(t, err)
	assert.Empty(t, blank.Content)

	var stored model.Conversation
	require.NoError(t, s.db.First(&stored, conversation.Id).Error)
	assert.Equal(t, entity.DefaultConversationTitle, stored.Title)

	_, err = s.conversations.AppendMessage(ctx, conversation.Id, entity.ChatRoleUser, "  What is a monad?  ")
	require.NoError(t, err)
	_, err = s.conversations.AppendMessage(ctx, conversation.Id, entity.ChatRoleUser, "And a functor?")
	require.NoError(t, err)

	require.NoError(t, s.db.First(&stored, conversation.Id).Error)
	assert.Equal(t, "What is a monad?", stored.Title)
}

func TestConversationService_AssistantMessageDoesNotSetTitle(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	conversation, err := s.conversations.Create(ctx, entity.DeviceOwner("abc"))
	require.NoError(t, err)
	_, err = s.conversations.AppendMessage(ctx, conversation.Id, entity.ChatRoleAssistant, "Welcome back")
	require.NoError(t, err)

	var stored model.Conversation
	require.NoError(t, s.db.First(&stored, conversation.Id).Error)
	assert.Equal(t, entity.DefaultConversationTitle, stored.Title)
}

func TestConversationService_AppendMessageErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	_, err := s.conversations.AppendMessage(ctx, 999, entity.ChatRoleUser, "hi")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	conversation, err := s.conversations.Create(ctx, entity.DeviceOwner("abc"))
	require.NoError(t, err)
	_, err = s.conversations.AppendMessage(ctx, conversation.Id, "system", "hi")
	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestConversationService_HistoryOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	conversation, err := s.conversations.Create(ctx, entity.UserOwner(1))
	require.NoError(t, err)
	for _, content := range []string{"A", "B", "C"} {
		_, err := s.conversations.AppendMessage(ctx, conversation.Id, entity.ChatRoleUser, content)
		require.NoError(t, err)
	}

	history, err := s.conversations.GetHistory(ctx, conversation.Id)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "A", history[0].Content)
	assert.Equal(t, "B", history[1].Content)
	assert.Equal(t, "C", history[2].Content)
}

func TestConversationService_DeviceIsolation(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	conversation, err := s.conversations.Create(ctx, entity.DeviceOwner("abc"))
	require.NoError(t, err)

	other, err := s.conversations.List(ctx, entity.DeviceOwner("xyz"), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, other)

	nobody, err := s.conversations.List(ctx, entity.Owner{}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, nobody)

	_, err = s.conversations.GetDisplayHistory(ctx, entity.DeviceOwner("xyz"), conversation.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = s.conversations.GetDisplayHistory(ctx, entity.Owner{}, conversation.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	mine, err := s.conversations.List(ctx, entity.DeviceOwner("abc"), 0, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, conversation.Id, mine[0].Id)
}

func TestConversationService_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	var ids []uint
	for i := 0; i < 3; i++ {
		c, err := s.conversations.Create(ctx, entity.UserOwner(5))
		require.NoError(t, err)
		ids = append(ids, c.Id)
	}

	listed, err := s.conversations.List(ctx, entity.UserOwner(5), 0, 0)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, ids[2], listed[0].Id)
	assert.Equal(t, ids[0], listed[2].Id)
}

func TestConversationService_ListPagination(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	owner := entity.UserOwner(8)

	var ids []uint
	for i := 0; i < 5; i++ {
		c, err := s.conversations.Create(ctx, owner)
		require.NoError(t, err)
		ids = append(ids, c.Id)
	}

	tests := []struct {
		name          string
		limit, offset int
		want          []uint
	}{
		{name: "no bounds returns everything", want: []uint{ids[4], ids[3], ids[2], ids[1], ids[0]}},
		{name: "first page", limit: 2, want: []uint{ids[4], ids[3]}},
		{name: "second page", limit: 2, offset: 2, want: []uint{ids[2], ids[1]}},
		{name: "offset only", offset: 3, want: []uint{ids[1], ids[0]}},
		{name: "oversized limit is capped", limit: MaxListLimit * 10, want: []uint{ids[4], ids[3], ids[2], ids[1], ids[0]}},
		{name: "negative values are ignored", limit: -1, offset: -4, want: []uint{ids[4], ids[3], ids[2], ids[1], ids[0]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listed, err := s.conversations.List(ctx, owner, tt.limit, tt.offset)
			require.NoError(t, err)

			got := make([]uint, 0, len(listed))
			for _, c := range listed {
				got = append(got, c.Id)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConversationService_GetDisplayHistoryExpandsReplies(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	owner := entity.UserOwner(3)

	conversation, err := s.conversations.Create(ctx, owner)
	require.NoError(t, err)
	_, err = s.conversations.AppendMessage(ctx, conversation.Id, entity.ChatRoleUser, "hi")
	require.NoError(t, err)
	_, err = s.conversations.AppendMessage(ctx, conversation.Id, entity.ChatRoleAssistant, "First?\n---\nSecond?")
	require.NoError(t, err)

	display, err := s.conversations.GetDisplayHistory(ctx, owner, conversation.Id)
	require.NoError(t, err)
	assert.Equal(t, []dto.ChatMessageDTO{
		{Role: entity.ChatRoleUser, Content: "hi"},
		{Role: entity.ChatRoleAssistant, Content: "First?"},
		{Role: entity.ChatRoleAssistant, Content: "Second?"},
	}, display)

	stored, err := s.conversations.GetHistory(ctx, conversation.Id)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "First?\n---\nSecond?", stored[1].Content)
}

func TestConversationService_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	owner := entity.DeviceOwner("abc")

	conversation, err := s.conversations.Create(ctx, owner)
	require.NoError(t, err)
	_, err = s.conversations.AppendMessage(ctx, conversation.Id, entity.ChatRoleUser, "hi")
	require.NoError(t, err)

	err = s.conversations.Delete(ctx, entity.DeviceOwner("other"), conversation.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	err = s.conversations.Delete(ctx, entity.Owner{}, conversation.Id)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	require.NoError(t, s.conversations.Delete(ctx, owner, conversation.Id))

	var messages int64
	require.NoError(t, s.db.Model(&model.ChatMessage{}).Where("conversation_id = ?", conversation.Id).Count(&messages).Error)
	assert.Zero(t, messages)

	listed, err := s.conversations.List(ctx, owner, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
