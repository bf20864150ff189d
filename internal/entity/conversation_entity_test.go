package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversation_OwnedBy(t *testing.T) {
	userId := uint(42)
	deviceId := "abc"

	userConversation := &Conversation{Id: 1, UserId: &userId}
	deviceConversation := &Conversation{Id: 2, DeviceId: &deviceId}

	tests := []struct {
		name         string
		conversation *Conversation
		owner        Owner
		want         bool
	}{
		{name: "matching user", conversation: userConversation, owner: UserOwner(42), want: true},
		{name: "other user", conversation: userConversation, owner: UserOwner(7)},
		{name: "device cannot read a user conversation", conversation: userConversation, owner: DeviceOwner("abc")},
		{name: "matching device", conversation: deviceConversation, owner: DeviceOwner("abc"), want: true},
		{name: "other device", conversation: deviceConversation, owner: DeviceOwner("xyz")},
		{name: "user cannot read a device conversation", conversation: deviceConversation, owner: UserOwner(42)},
		{name: "zero owner", conversation: deviceConversation, owner: Owner{}},
		{name: "owner with both identities", conversation: deviceConversation, owner: Owner{UserId: 42, DeviceId: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.conversation.OwnedBy(tt.owner))
		})
	}
}

func TestOwner_Kinds(t *testing.T) {
	assert.True(t, UserOwner(1).IsUser())
	assert.False(t, UserOwner(1).IsDevice())
	assert.True(t, DeviceOwner("abc").IsDevice())
	assert.False(t, DeviceOwner("abc").IsUser())
	assert.False(t, Owner{}.IsDevice())
	assert.False(t, Owner{}.Valid())
}
