package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/standup-assistant/errors"
	"github.com/johnquangdev/standup-assistant/internal/adapter/dto/common"
	dto "github.com/johnquangdev/standup-assistant/internal/adapter/dto/standup"
	"github.com/johnquangdev/standup-assistant/internal/adapter/presenter"
	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	"github.com/johnquangdev/standup-assistant/internal/usecase/archive"
)

const defaultListLimit = 20

// ArchiveReader looks up finished standups
type ArchiveReader interface {
	Get(ctx context.Context, id uuid.UUID) (*archive.Record, error)
	List(ctx context.Context, teamID string, limit int) ([]*entities.StandupRecord, error)
}

// Archive handles archived standup lookups
type Archive struct {
	archive ArchiveReader
	logger  *zap.Logger
}

// NewArchiveHandler creates an archive handler
func NewArchiveHandler(archive ArchiveReader, logger *zap.Logger) *Archive {
	return &Archive{archive: archive, logger: logger}
}

// Get handles GET /standups/:id
// @Summary      Archived standup
// @Description  Returns the stored export, the text report and a download link when object storage is enabled
// @Tags         Archive
// @Produce      json
// @Param        id   path      string  true  "Standup ID (UUID)"
// @Success      200  {object}  standup.RecordResponse
// @Failure      400  {object}  common.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  common.ErrorResponse  "Standup not found"
// @Router       /standups/{id} [get]
func (h *Archive) Get(c echo.Context) error {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("standup ID must be a valid UUID"))
	}

	rec, err := h.archive.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(raw, err))
	}
	return HandleSuccess(h.logger, c, presenter.ToArchiveResponse(rec))
}

// List handles GET /teams/:team/standups
// @Summary      Archived standups of a team
// @Tags         Archive
// @Produce      json
// @Param        team   path      string  true   "Team ID"
// @Param        limit  query     int     false  "Max results (1-100, default 20)"
// @Success      200    {object}  common.ListResponse
// @Router       /teams/{team}/standups [get]
func (h *Archive) List(c echo.Context) error {
	team := c.Param("team")

	var q dto.ListQuery
	if err := bind(c, &q); err != nil {
		return HandleError(h.logger, c, err)
	}
	if q.Limit == 0 {
		q.Limit = defaultListLimit
	}

	records, err := h.archive.List(c.Request().Context(), team, q.Limit)
	if err != nil {
		return HandleError(h.logger, c, toAppError(team, err))
	}
	items := presenter.ToRecordListResponse(records)
	return HandleSuccess(h.logger, c, common.ListResponse{Data: items, Count: len(items)})
}
