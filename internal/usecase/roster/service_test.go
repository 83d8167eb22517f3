package roster

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
)

type memRepo struct {
	rosters map[string]*entities.Roster
}

func (m *memRepo) Load(_ context.Context, teamID string) (*entities.Roster, error) {
	r, ok := m.rosters[teamID]
	if !ok {
		return nil, entities.ErrRosterNotFound
	}
	return r, nil
}

func (m *memRepo) Save(_ context.Context, r *entities.Roster) error {
	m.rosters[r.TeamID] = r
	return nil
}

type activeTeams map[string]bool

func (a activeTeams) IsActive(teamID string) bool { return a[teamID] }

func TestService_Put(t *testing.T) {
	tests := []struct {
		name    string
		members []MemberInput
		wantErr error
	}{
		{"valid", []MemberInput{{Name: "Alice", TimeLimitSeconds: 60}, {Name: "Bob"}}, nil},
		{"empty", nil, usecaseErrors.ErrEmptyRoster},
		{"duplicate", []MemberInput{{Name: "Alice"}, {Name: " alice "}}, usecaseErrors.ErrDuplicateMember},
		{"negative limit", []MemberInput{{Name: "Alice", TimeLimitSeconds: -5}}, usecaseErrors.ErrInvalidLimit},
		{"blank name", []MemberInput{{Name: "  "}}, usecaseErrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&memRepo{rosters: map[string]*entities.Roster{}}, nil, 45, zap.NewNop())
			r, err := svc.Put(context.Background(), "core", tt.members)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Put() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if r.Members[1].TimeLimitSeconds != 45 {
				t.Fatalf("default limit = %d, want 45", r.Members[1].TimeLimitSeconds)
			}
		})
	}
}

func TestService_PutKeepsIdentity(t *testing.T) {
	svc := NewService(&memRepo{rosters: map[string]*entities.Roster{}}, nil, 0, nil)

	first, err := svc.Put(context.Background(), "core", []MemberInput{{Name: "Alice"}, {Name: "Bob"}})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	second, err := svc.Put(context.Background(), "core", []MemberInput{{Name: "Bob"}, {Name: "Alice"}, {Name: "Cara"}})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if second.Members[0].ID != first.Members[1].ID || second.Members[1].ID != first.Members[0].ID {
		t.Fatalf("member identifiers changed on reorder")
	}
}

func TestService_FrozenWhileActive(t *testing.T) {
	svc := NewService(&memRepo{rosters: map[string]*entities.Roster{}}, activeTeams{"core": true}, 0, nil)

	if _, err := svc.Put(context.Background(), "core", []MemberInput{{Name: "Alice"}}); !errors.Is(err, usecaseErrors.ErrRosterFrozen) {
		t.Fatalf("Put() error = %v, want ErrRosterFrozen", err)
	}

	saved, err := svc.Import(context.Background(), []entities.Roster{
		{TeamID: "core", Members: []entities.Member{{Name: "Alice"}}},
		{TeamID: "infra", Members: []entities.Member{{Name: "Dan", TimeLimitSeconds: 30}}},
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if saved != 1 {
		t.Fatalf("saved = %d, want 1", saved)
	}
}

func TestService_GetNotFound(t *testing.T) {
	svc := NewService(&memRepo{rosters: map[string]*entities.Roster{}}, nil, 0, nil)
	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, usecaseErrors.ErrRosterNotFound) {
		t.Fatalf("Get() error = %v", err)
	}
}

type downRepo struct{}

func (downRepo) Load(context.Context, string) (*entities.Roster, error) {
	return nil, errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
}

func (downRepo) Save(context.Context, *entities.Roster) error {
	return errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
}

func TestService_StoreUnavailable(t *testing.T) {
	svc := NewService(downRepo{}, nil, 60, zap.NewNop())

	if _, err := svc.Get(context.Background(), "core"); !errors.Is(err, usecaseErrors.ErrRosterStore) {
		t.Fatalf("Get() error = %v, want ErrRosterStore", err)
	}
	if _, err := svc.Put(context.Background(), "core", []MemberInput{{Name: "Alice"}}); !errors.Is(err, usecaseErrors.ErrRosterStore) {
		t.Fatalf("Put() error = %v, want ErrRosterStore", err)
	}
}
