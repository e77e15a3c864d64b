package services

import (
	"context"
	"errors"
	"strings"

	"servicedesk-backend/internal/apperrors"
	"servicedesk-backend/internal/cache"
	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/repositories"
	"servicedesk-backend/internal/storage"
)

type journalStore interface {
	Create(ctx context.Context, j *models.Journal) error
	Get(ctx context.Context, id int) (*models.Journal, error)
	List(ctx context.Context) ([]*models.Journal, error)
	Update(ctx context.Context, id int, p *models.JournalPatch) (*models.Journal, error)
	Delete(ctx context.Context, id int) error
}

type JournalService struct {
	journals journalStore
	files    storage.FileStore
}

func NewJournalService(journals journalStore, files storage.FileStore) *JournalService {
	return &JournalService{journals: journals, files: files}
}

// CreateJournal records an entry. An uploaded screenshot wins over a
// manually entered URL.
func (s *JournalService) CreateJournal(ctx context.Context, caller *models.User, in *models.JournalInput, screenshot *storage.Upload) (*models.Journal, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Narration = strings.TrimSpace(in.Narration)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	url := strings.TrimSpace(in.ScreenshotURL)
	if screenshot != nil {
		stored, err := s.storeScreenshot(ctx, screenshot)
		if err != nil {
			return nil, err
		}
		url = stored
	}

	j := &models.Journal{
		Name:          in.Name,
		Amount:        in.Amount,
		Mode:          in.Mode,
		Narration:     in.Narration,
		ScreenshotURL: url,
		CreatedBy:     &caller.ID,
	}
	if err := s.journals.Create(ctx, j); err != nil {
		return nil, apperrors.Internal("Failed to create journal entry", err)
	}

	cache.InvalidateAnalytics(ctx)
	return j, nil
}

func (s *JournalService) ListJournals(ctx context.Context) ([]*models.Journal, error) {
	journals, err := s.journals.List(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list journal entries", err)
	}
	return journals, nil
}

func (s *JournalService) GetJournal(ctx context.Context, id int) (*models.Journal, error) {
	j, err := s.journals.Get(ctx, id)
	if err != nil {
		return nil, journalErr(err)
	}
	return j, nil
}

// UpdateJournal applies the non-nil fields of p.
func (s *JournalService) UpdateJournal(ctx context.Context, id int, p *models.JournalPatch, screenshot *storage.Upload) (*models.Journal, error) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, apperrors.Validation("name is required")
	}
	if p.Narration != nil && strings.TrimSpace(*p.Narration) == "" {
		return nil, apperrors.Validation("narration is required")
	}
	if p.Amount != nil && *p.Amount < 0 {
		return nil, apperrors.Validation("amount must be at least 0")
	}
	if p.Mode != nil && !models.IsValidJournalMode(*p.Mode) {
		return nil, apperrors.Validation("mode must be one of: " + strings.Join(models.JournalModes, " "))
	}

	// fail before the upload so a missing entry leaves no stray file
	if _, err := s.journals.Get(ctx, id); err != nil {
		return nil, journalErr(err)
	}
	if screenshot != nil {
		url, err := s.storeScreenshot(ctx, screenshot)
		if err != nil {
			return nil, err
		}
		p.ScreenshotURL = &url
	}

	j, err := s.journals.Update(ctx, id, p)
	if err != nil {
		return nil, journalErr(err)
	}

	cache.InvalidateAnalytics(ctx)
	return j, nil
}

// DeleteJournal removes the entry and returns what was deleted.
func (s *JournalService) DeleteJournal(ctx context.Context, id int) (*models.Journal, error) {
	j, err := s.journals.Get(ctx, id)
	if err != nil {
		return nil, journalErr(err)
	}
	if err := s.journals.Delete(ctx, id); err != nil {
		return nil, journalErr(err)
	}
	cache.InvalidateAnalytics(ctx)
	return j, nil
}

func (s *JournalService) storeScreenshot(ctx context.Context, u *storage.Upload) (string, error) {
	u.Prefix = "journals"
	stored, err := s.files.Store(ctx, u)
	if err != nil {
		if apperrors.Is(err, apperrors.KindValidation) {
			return "", err
		}
		return "", apperrors.Internal("Failed to store screenshot", err)
	}
	return stored.URL, nil
}

func journalErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Journal entry not found")
	}
	return apperrors.Internal("Internal server error", err)
}

