package mapper

import (
	"askq-be/internal/entity"
	"askq-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:        u.Id,
		Email:     u.Email,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:        u.Id,
		Email:     u.Email,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}

// Verification Code Mappers

func (m *UserMapper) VerificationCodeToEntity(c *model.VerificationCode) *entity.VerificationCode {
	if c == nil {
		return nil
	}
	return &entity.VerificationCode{
		Id:        c.Id,
		Email:     c.Email,
		CodeHash:  c.CodeHash,
		ExpiresAt: c.ExpiresAt,
		Used:      c.Used,
	}
}

func (m *UserMapper) VerificationCodeToModel(c *entity.VerificationCode) *model.VerificationCode {
	if c == nil {
		return nil
	}
	return &model.VerificationCode{
		Id:        c.Id,
		Email:     c.Email,
		CodeHash:  c.CodeHash,
		ExpiresAt: c.ExpiresAt,
		Used:      c.Used,
	}
}

// Session Mappers

func (m *UserMapper) SessionToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}
	return &entity.Session{
		Id:        s.Id,
		UserId:    s.UserId,
		TokenHash: s.TokenHash,
		CreatedAt: s.CreatedAt,
	}
}

func (m *UserMapper) SessionToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}
	return &model.Session{
		Id:        s.Id,
		UserId:    s.UserId,
		TokenHash: s.TokenHash,
		CreatedAt: s.CreatedAt,
	}
}
