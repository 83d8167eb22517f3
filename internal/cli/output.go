package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
)

// Formatter writes terminal output
type Formatter struct {
	w io.Writer
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	fmt.Fprintf(f.w, "✅ %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "⚠️  %s\n", msg)
}

func (f *Formatter) StandupStarted(team string, members int) {
	fmt.Fprintf(f.w, "🎙️  Standup for %s (%d members)\n", team, members)
	fmt.Fprintf(f.w, "   Type your update and press Enter. /end stops the standup.\n\n")
}

func (f *Formatter) Report(text string) {
	fmt.Fprintf(f.w, "\n%s", text)
}

func (f *Formatter) Insights(ins entities.Insights) {
	if ins.Len() == 0 {
		f.Info("Nothing to extract")
		return
	}
	for _, t := range ins.Tasks {
		if t.Due != "" {
			fmt.Fprintf(f.w, "  📌 task: %s (due %s)\n", t.Title, t.Due)
		} else {
			fmt.Fprintf(f.w, "  📌 task: %s\n", t.Title)
		}
	}
	for _, b := range ins.Blockers {
		fmt.Fprintf(f.w, "  🚧 blocker: %s\n", b.Issue)
	}
	for _, n := range ins.Notes {
		fmt.Fprintf(f.w, "  📝 note: %s\n", n.Text)
	}
}

func (f *Formatter) HistoryHeader() {
	fmt.Fprintf(f.w, "📁 Standups:\n\n")
}

func (f *Formatter) HistoryItem(r *entities.StandupRecord) {
	fmt.Fprintf(f.w, "  %s  %-12s %s  %d members, %d actions, %d blockers\n",
		r.FinishedAt.Local().Format("2006-01-02 15:04"),
		r.TeamID,
		formatDuration(r.FinishedAt.Sub(r.StartedAt)),
		r.ParticipantCount, r.ActionCount, r.BlockerCount,
	)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
