package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	"github.com/johnquangdev/standup-assistant/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
	"github.com/johnquangdev/standup-assistant/internal/usecase/summary"
)

// DownloadExpiry is how long export links stay valid
const DownloadExpiry = 24 * time.Hour

// ObjectStore keeps export files
type ObjectStore interface {
	UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// Record is an archived standup with an optional download link
type Record struct {
	*entities.StandupRecord
	DownloadURL string
}

// Service archives finished standups to the database and object storage
type Service struct {
	repo    repositories.StandupRepository
	store   ObjectStore
	builder *summary.Builder
	logger  *zap.Logger
}

// NewService creates an archive service. store may be nil.
func NewService(repo repositories.StandupRepository, store ObjectStore, builder *summary.Builder, logger *zap.Logger) *Service {
	if builder == nil {
		builder = summary.NewBuilder(nil)
	}
	return &Service{
		repo:    repo,
		store:   store,
		builder: builder,
		logger:  logger,
	}
}

// ObjectPrefix is where the files of one standup live in the bucket
func ObjectPrefix(teamID string, id uuid.UUID) string {
	return fmt.Sprintf("standups/%s/%s/", teamID, id)
}

// Archive stores the export of a finished session
func (s *Service) Archive(ctx context.Context, session *entities.StandupSession) error {
	exp := s.builder.Build(session)
	data, err := json.Marshal(exp)
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	report := summary.RenderText(exp)

	finished := time.Now().UTC()
	if session.FinishedAt != nil {
		finished = *session.FinishedAt
	}

	record := &entities.StandupRecord{
		ID:               session.ID,
		TeamID:           session.TeamID,
		StartedAt:        session.StartedAt,
		FinishedAt:       finished,
		ParticipantCount: len(exp.Participants),
		ActionCount:      len(exp.Actions),
		BlockerCount:     len(exp.Blockers),
		Export:           datatypes.JSON(data),
		Report:           report,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("%w: save record: %v", usecaseErrors.ErrArchiveStore, err)
	}

	if s.store != nil {
		prefix := ObjectPrefix(session.TeamID, session.ID)
		if err := s.store.UploadBytes(ctx, prefix+"summary.json", data, "application/json"); err != nil {
			return fmt.Errorf("failed to upload export: %w", err)
		}
		if err := s.store.UploadBytes(ctx, prefix+"report.txt", []byte(report), "text/plain"); err != nil {
			return fmt.Errorf("failed to upload report: %w", err)
		}
		if err := s.repo.UpdateArchiveKey(ctx, session.ID, prefix); err != nil {
			return fmt.Errorf("%w: record archive key: %v", usecaseErrors.ErrArchiveStore, err)
		}
	}

	if s.logger != nil {
		s.logger.Info("💾 Standup archived",
			zap.String("team_id", session.TeamID),
			zap.String("session_id", session.ID.String()),
			zap.Int("actions", record.ActionCount),
			zap.Int("blockers", record.BlockerCount),
		)
	}
	return nil
}

// Get returns an archived standup. The download link is best effort.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrStandupNotFound) {
			return nil, usecaseErrors.ErrStandupNotFound
		}
		return nil, fmt.Errorf("%w: find: %v", usecaseErrors.ErrArchiveStore, err)
	}

	out := &Record{StandupRecord: rec}
	if s.store != nil && rec.ArchiveKey != nil {
		link, err := s.store.PresignedURL(ctx, *rec.ArchiveKey+"summary.json", DownloadExpiry)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("⚠️ Failed to sign export link", zap.String("session_id", id.String()), zap.Error(err))
			}
		} else {
			out.DownloadURL = link
		}
	}
	return out, nil
}

// List returns the latest archived standups of a team
func (s *Service) List(ctx context.Context, teamID string, limit int) ([]*entities.StandupRecord, error) {
	if limit <= 0 || limit > 100 {
		return nil, usecaseErrors.ErrInvalidInput
	}
	records, err := s.repo.ListByTeam(ctx, teamID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", usecaseErrors.ErrArchiveStore, err)
	}
	return records, nil
}
