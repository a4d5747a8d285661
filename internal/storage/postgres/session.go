package postgres

import (
	"time"

	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"
)

type SessionPostgresStorage struct{}

func NewSessionPostgresStorage() *SessionPostgresStorage {
	return &SessionPostgresStorage{}
}

func (s *SessionPostgresStorage) CreateSession(session *models.Session) error {
	err := DB.Create(session).Error
	if err != nil {
		return dbError("could not create session", err)
	}
	return nil
}

func (s *SessionPostgresStorage) GetSession(id string) (*models.Session, error) {
	var session models.Session
	err := DB.Where("id = ?", id).First(&session).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, apperror.NewNotFoundError("session not found", nil)
		}
		return nil, dbError("could not get session", err)
	}
	return &session, nil
}

func (s *SessionPostgresStorage) TouchSession(id string, seen time.Time) error {
	res := DB.Model(&models.Session{}).Where("id = ?", id).Update("last_seen_at", seen)
	if res.Error != nil {
		return dbError("could not touch session", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NewNotFoundError("session not found", nil)
	}
	return nil
}

func (s *SessionPostgresStorage) DeleteSession(id string) error {
	err := DB.Where("id = ?", id).Delete(&models.Session{}).Error
	if err != nil {
		return dbError("could not delete session", err)
	}
	return nil
}
