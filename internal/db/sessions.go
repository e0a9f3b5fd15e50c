package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/inditech/rfa/internal/models"
)

var (
	ErrSessionNotFound = errors.New("patient session not found")
	ErrClinicNotFound  = errors.New("clinic not found")
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(conn *gorm.DB) *SessionRepository {
	return &SessionRepository{db: conn}
}

// Create opens a patient session for clinicID. phone should already be
// normalized.
func (r *SessionRepository) Create(ctx context.Context, clinicID uint, phone string) (*models.PatientSession, error) {
	s := models.PatientSession{ClinicID: clinicID, PatientPhone: phone}
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Get returns the session with its clinic.
func (r *SessionRepository) Get(ctx context.Context, id uint) (*models.PatientSession, error) {
	var s models.PatientSession
	err := r.db.WithContext(ctx).Preload("Clinic").First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) Clinic(ctx context.Context, id uint) (*models.Clinic, error) {
	var c models.Clinic
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClinicNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
