package entity

import "time"

const DefaultConversationTitle = "New conversation"

type Conversation struct {
	Id        uint
	UserId    *uint
	DeviceId  *string
	Title     string
	CreatedAt time.Time
}

// OwnedBy reports whether o is the conversation's current owner.
func (c *Conversation) OwnedBy(o Owner) bool {
	switch {
	case !o.Valid():
		return false
	case o.IsUser():
		return c.UserId != nil && *c.UserId == o.UserId
	case o.IsDevice():
		return c.UserId == nil && c.DeviceId != nil && *c.DeviceId == o.DeviceId
	}
	return false
}

// Owner identifies who a conversation belongs to: an authenticated user or
// an anonymous device, never both.
type Owner struct {
	UserId   uint
	DeviceId string
}

func UserOwner(userId uint) Owner {
	return Owner{UserId: userId}
}

func DeviceOwner(deviceId string) Owner {
	return Owner{DeviceId: deviceId}
}

func (o Owner) IsUser() bool {
	return o.UserId != 0
}

func (o Owner) IsDevice() bool {
	return o.UserId == 0 && o.DeviceId != ""
}

// Valid is false for the zero Owner and for an Owner carrying both identities.
func (o Owner) Valid() bool {
	return (o.UserId != 0) != (o.DeviceId != "")
}
