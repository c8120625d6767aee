package storage

import (
	"context"
	"fmt"

	"github.com/gdg-garage/hotel-booking-api/internal/models"
)

func (s *Storage) CreateSession(ctx context.Context, userID uint, token string) (models.Session, error) {
	const op = "storage.CreateSession"

	session := models.Session{UserID: userID, Token: token}
	if err := s.db.WithContext(ctx).Omit("User").Create(&session).Error; err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return session, nil
}

func (s *Storage) FindSessionByToken(ctx context.Context, token string) (models.Session, error) {
	const op = "storage.FindSessionByToken"

	var session models.Session
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&session).Error; err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, notFound(err, ErrSessionNotFound))
	}

	return session, nil
}

// SaveDiscordUser creates the user for discordID or refreshes its profile fields.
func (s *Storage) SaveDiscordUser(ctx context.Context, discordID, username, email, avatar string) (models.User, error) {
	const op = "storage.SaveDiscordUser"

	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.FirstOrInit(&user, models.User{DiscordID: discordID}).Error; err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	user.Username = username
	user.Email = email
	user.Avatar = avatar

	if err := db.Save(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}
