package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
	"github.com/SAP-F-2025/marktrack-service/internal/validator"
)

type subjectService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewSubjectService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) SubjectService {
	return &subjectService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *subjectService) List(ctx context.Context) ([]*models.Subject, error) {
	subjects, err := s.repo.Subject().List(ctx)
	if err != nil {
		return nil, storeError("list subjects", err)
	}
	return subjects, nil
}

func (s *subjectService) Create(ctx context.Context, req *CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	subject := &models.Subject{
		ID:   uuid.NewString(),
		Name: strings.TrimSpace(req.Name),
	}
	if err := s.repo.Subject().Create(ctx, subject); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, storeError("create subject", err)
	}

	s.logger.Info("Subject created", "subject_id", subject.ID, "name", subject.Name)
	return subject, nil
}

func (s *subjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Subject().Delete(ctx, id); err != nil {
		switch {
		case repositories.IsNotFoundError(err):
			return ErrSubjectNotFound
		case errors.Is(err, repositories.ErrForeignKey):
			return ErrConflict
		}
		return storeError("delete subject", err)
	}

	s.logger.Info("Subject deleted", "subject_id", id)
	return nil
}
