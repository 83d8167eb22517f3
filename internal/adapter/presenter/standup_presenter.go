package presenter

import (
	"encoding/json"

	"github.com/johnquangdev/standup-assistant/internal/adapter/dto/roster"
	dto "github.com/johnquangdev/standup-assistant/internal/adapter/dto/standup"
	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	"github.com/johnquangdev/standup-assistant/internal/usecase/archive"
	"github.com/johnquangdev/standup-assistant/internal/usecase/room"
	"github.com/johnquangdev/standup-assistant/internal/usecase/standup"
)

// ToSnapshotResponse converts a controller snapshot
func ToSnapshotResponse(teamID string, snap standup.Snapshot) *dto.SnapshotResponse {
	resp := &dto.SnapshotResponse{
		TeamID:           teamID,
		Phase:            snap.Phase,
		Token:            snap.Token,
		Manual:           snap.Manual,
		Buffer:           snap.Buffer,
		TimerStarted:     snap.TimerStarted,
		RemainingSeconds: int(snap.Remaining.Seconds()),
		Turns:            snap.Turns,
		LastSpoken:       snap.LastSpoken,
	}

	if snap.Member != nil {
		resp.ActiveMember = &dto.MemberView{
			ID:               snap.Member.ID.String(),
			Name:             snap.Member.Name,
			TimeLimitSeconds: snap.Member.TimeLimitSeconds,
		}
	}

	if s := snap.Session; s != nil {
		started := s.StartedAt
		resp.SessionID = s.ID.String()
		resp.StartedAt = &started
		resp.FinishedAt = s.FinishedAt
		resp.Members = len(s.Members)
		resp.Completed = len(s.Completed)
	}
	return resp
}

// ToRosterResponse converts a roster
func ToRosterResponse(r *entities.Roster, frozen bool) *roster.RosterResponse {
	if r == nil {
		return nil
	}
	members := make([]roster.MemberResponse, len(r.Members))
	for i, m := range r.Members {
		members[i] = roster.MemberResponse{
			ID:               m.ID.String(),
			Name:             m.Name,
			TimeLimitSeconds: m.TimeLimitSeconds,
		}
	}
	return &roster.RosterResponse{
		TeamID:    r.TeamID,
		Members:   members,
		UpdatedAt: r.UpdatedAt,
		Frozen:    frozen,
	}
}

// ToRecordResponse converts an archived standup. The export is inlined only for single lookups.
func ToRecordResponse(r *entities.StandupRecord, downloadURL string, withExport bool) *dto.RecordResponse {
	if r == nil {
		return nil
	}
	resp := &dto.RecordResponse{
		ID:               r.ID.String(),
		TeamID:           r.TeamID,
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
		ParticipantCount: r.ParticipantCount,
		ActionCount:      r.ActionCount,
		BlockerCount:     r.BlockerCount,
		DownloadURL:      downloadURL,
	}
	if withExport {
		if len(r.Export) > 0 {
			resp.Export = json.RawMessage(r.Export)
		}
		resp.Report = r.Report
	}
	return resp
}

// ToArchiveResponse converts an archive lookup
func ToArchiveResponse(rec *archive.Record) *dto.RecordResponse {
	if rec == nil {
		return nil
	}
	return ToRecordResponse(rec.StandupRecord, rec.DownloadURL, true)
}

// ToRecordListResponse converts archive listings
func ToRecordListResponse(records []*entities.StandupRecord) []*dto.RecordResponse {
	out := make([]*dto.RecordResponse, len(records))
	for i, r := range records {
		out[i] = ToRecordResponse(r, "", false)
	}
	return out
}

// ToTokenResponse converts room join credentials
func ToTokenResponse(info *room.JoinInfo) *dto.TokenResponse {
	if info == nil {
		return nil
	}
	return &dto.TokenResponse{
		URL:      info.URL,
		Room:     info.Room,
		Identity: info.Identity,
		Token:    info.Token,
	}
}
