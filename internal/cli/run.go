package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/standup-assistant/internal/adapter/repository"
	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	domainspeech "github.com/johnquangdev/standup-assistant/internal/domain/speech"
	"github.com/johnquangdev/standup-assistant/internal/infrastructure/cache"
	"github.com/johnquangdev/standup-assistant/internal/infrastructure/localstore"
	"github.com/johnquangdev/standup-assistant/internal/infrastructure/rosterfile"
	"github.com/johnquangdev/standup-assistant/internal/infrastructure/speech"
	"github.com/johnquangdev/standup-assistant/internal/usecase/archive"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
	"github.com/johnquangdev/standup-assistant/internal/usecase/roster"
	"github.com/johnquangdev/standup-assistant/internal/usecase/standup"
	"github.com/johnquangdev/standup-assistant/internal/usecase/summary"
	"github.com/johnquangdev/standup-assistant/pkg/jobcontext"
)

const (
	endCommand   = "/end"
	pollInterval = 50 * time.Millisecond
	archiveWait  = 5 * time.Second
)

type runOptions struct {
	rosterPath string
	team       string
	silence    time.Duration
}

func NewRunCmd(deps *Dependencies) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Facilitate a standup with typed answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStandup(cmd.Context(), deps, opts)
		},
	}

	cmd.Flags().StringVar(&opts.rosterPath, "roster", "", "roster YAML file")
	cmd.Flags().StringVar(&opts.team, "team", "", "team to run (optional when the file lists one team)")
	cmd.Flags().DurationVar(&opts.silence, "silence", 0, "override the silence window")
	_ = cmd.MarkFlagRequired("roster")

	return cmd
}

// recordingArchiver reports when the finished session has been stored or
// has failed for good
type recordingArchiver struct {
	next standup.Archiver
	done chan error
}

func (a *recordingArchiver) Archive(ctx context.Context, session *entities.StandupSession) error {
	err := a.next.Archive(ctx, session)
	if err != nil && jobcontext.IsRetryableError(err) {
		return err
	}
	select {
	case a.done <- err:
	default:
	}
	return err
}

func runStandup(ctx context.Context, deps *Dependencies, opts runOptions) error {
	formatter := NewFormatter(deps.Out)

	rosters, err := rosterfile.Load(opts.rosterPath)
	if err != nil {
		return err
	}
	team, err := pickTeam(rosters, opts.team)
	if err != nil {
		return err
	}

	store := cache.NewMemoryStore()
	defer store.Close()
	rosterRepo := repository.NewRosterRepository(store)

	history, err := localstore.Open(deps.historyPath())
	if err != nil {
		return err
	}
	defer history.Close()

	builder := summary.NewBuilder(nil)
	archiver := &recordingArchiver{
		next: archive.NewService(history, nil, builder, deps.Logger),
		done: make(chan error, 1),
	}

	settings := standup.Settings{
		SilenceWindow:           deps.Standup.SilenceWindow,
		GracePeriod:             deps.Standup.GracePeriod,
		ManualTimerFromFragment: deps.Standup.ManualTimerFromFragment,
	}
	if opts.silence > 0 {
		settings.SilenceWindow = opts.silence
	}

	channel := speech.NewManualChannel(deps.Out, deps.Logger)
	hub := standup.NewHub(rosterRepo,
		func(context.Context, string) (domainspeech.Channel, error) { return channel, nil },
		archiver,
		standup.HubOptions{
			Settings:     settings,
			TickInterval: deps.Standup.TickInterval,
			Question:     entities.Question{Key: deps.Standup.QuestionKey, Prompt: deps.Standup.QuestionPrompt},
			Clock:        clock.New(),
			Logger:       deps.Logger,
		},
	)
	defer hub.Close()

	if _, err := roster.NewService(rosterRepo, hub, deps.Standup.DefaultTimeLimit, deps.Logger).Import(ctx, rosters); err != nil {
		return err
	}

	snap, err := hub.Start(ctx, team)
	if err != nil {
		return fmt.Errorf("starting standup: %w", err)
	}
	if snap.Session != nil {
		formatter.StandupStarted(team, len(snap.Session.Members))
	}

	if err := facilitate(ctx, hub, team, deps.In, formatter, deps.Logger); err != nil {
		return err
	}

	session, err := hub.Session(team)
	if err != nil {
		return err
	}
	formatter.Report(summary.RenderText(builder.Build(session)))

	select {
	case err := <-archiver.done:
		if err != nil {
			formatter.Warning(fmt.Sprintf("Standup not saved: %v", err))
			return nil
		}
		formatter.Success(fmt.Sprintf("Saved to %s", deps.historyPath()))
	case <-time.After(archiveWait):
		formatter.Warning("Timed out saving the standup")
	}
	return nil
}

func pickTeam(rosters []entities.Roster, team string) (string, error) {
	if team != "" {
		for _, r := range rosters {
			if r.TeamID == team {
				return team, nil
			}
		}
		return "", fmt.Errorf("team %q is not in the roster file", team)
	}
	switch len(rosters) {
	case 0:
		return "", errors.New("roster file lists no teams")
	case 1:
		return rosters[0].TeamID, nil
	}
	return "", errors.New("--team is required when the roster file lists several teams")
}

// facilitate feeds typed lines to the hub until the standup completes.
// Each line is one member's answer. Lines typed ahead are queued until the
// next member is listening.
func facilitate(ctx context.Context, hub *standup.Hub, team string, in io.Reader, formatter *Formatter, logger *zap.Logger) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var (
		pending []string
		eof     bool
		ending  bool
	)
	cancelled := ctx.Done()
	end := func() {
		if ending {
			return
		}
		ending = true
		if _, err := hub.End(team); err != nil && !errors.Is(err, usecaseErrors.ErrNoActiveSession) {
			formatter.Warning(err.Error())
		}
	}

	for {
		select {
		case <-cancelled:
			cancelled = nil
			end()
		case line, ok := <-lines:
			if !ok {
				lines = nil
				eof = true
				break
			}
			line = strings.TrimSpace(line)
			switch {
			case line == "":
			case line == endCommand:
				pending = nil
				end()
			default:
				pending = append(pending, line)
			}
		case <-ticker.C:
		}

		snap, err := hub.Snapshot(team)
		if err != nil {
			return err
		}
		if snap.Phase == standup.PhaseCompleted {
			return nil
		}

		if len(pending) > 0 && snap.Phase == standup.PhaseListening {
			if _, err := hub.Done(team, pending[0]); err != nil {
				if logger != nil {
					logger.Debug("answer not accepted yet", zap.Error(err))
				}
				continue
			}
			pending = pending[1:]
			continue
		}
		// once everyone has answered the closing remarks finish the session
		if eof && len(pending) == 0 && awaitingAnswers(snap.Session) {
			end()
		}
	}
}

// awaitingAnswers reports whether some member has not had their turn yet
func awaitingAnswers(session *entities.StandupSession) bool {
	if session == nil {
		return true
	}
	_, ok := session.NextPending()
	return ok
}
