package summary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
)

// Output formats
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatChat = "chat"
)

const timeLayout = "2006-01-02 15:04 MST"

// Render dispatches on format
func Render(exp Export, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		data, err := json.MarshalIndent(exp, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode export: %w", err)
		}
		return string(data), nil
	case FormatText:
		return RenderText(exp), nil
	case FormatChat:
		return RenderChat(exp), nil
	}
	return "", fmt.Errorf("%w: %q", usecaseErrors.ErrUnknownFormat, format)
}

// RenderText is the multi-section plain-text report used for email
func RenderText(exp Export) string {
	var b strings.Builder

	if exp.TeamID != "" {
		fmt.Fprintf(&b, "Standup report: %s\n", exp.TeamID)
	} else {
		b.WriteString("Standup report\n")
	}
	fmt.Fprintf(&b, "Started:  %s\n", exp.StartedAt.Format(timeLayout))
	if exp.FinishedAt != nil {
		fmt.Fprintf(&b, "Finished: %s\n", exp.FinishedAt.Format(timeLayout))
	} else {
		b.WriteString("Finished: in progress\n")
	}
	fmt.Fprintf(&b, "Participants: %d | Actions: %d | Blockers: %d\n",
		len(exp.Participants), len(exp.Actions), len(exp.Blockers))

	for _, p := range exp.Participants {
		fmt.Fprintf(&b, "\n== %s (%ds) ==\n", p.Name, p.ElapsedSec)
		answer := firstAnswer(p)
		if answer == "" {
			answer = "(no answer)"
		}
		fmt.Fprintf(&b, "Update: %s\n", answer)

		if len(p.Actions) > 0 {
			b.WriteString("Actions:\n")
			for _, t := range p.Actions {
				fmt.Fprintf(&b, "  - %s\n", taskLine(t))
			}
		}
		if len(p.Blockers) > 0 {
			b.WriteString("Blockers:\n")
			for _, bl := range p.Blockers {
				fmt.Fprintf(&b, "  - %s\n", bl.Issue)
			}
		}
		if len(p.Notes) > 0 {
			b.WriteString("Notes:\n")
			for _, n := range p.Notes {
				fmt.Fprintf(&b, "  - %s\n", n)
			}
		}
	}
	return b.String()
}

// RenderChat is the condensed bullet text posted to chat webhooks
func RenderChat(exp Export) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Standup summary* (%d participants)\n", len(exp.Participants))
	for _, p := range exp.Participants {
		answer := firstAnswer(p)
		if answer == "" {
			answer = "_no answer_"
		}
		fmt.Fprintf(&b, "• %s: %s\n", p.Name, answer)
	}

	if len(exp.Actions) > 0 {
		b.WriteString("*Actions*\n")
		for _, t := range exp.Actions {
			fmt.Fprintf(&b, "• %s: %s\n", t.Owner, taskLine(t))
		}
	}
	if len(exp.Blockers) > 0 {
		b.WriteString("*Blockers*\n")
		for _, bl := range exp.Blockers {
			fmt.Fprintf(&b, "• %s: %s\n", bl.Owner, bl.Issue)
		}
	}
	return b.String()
}

func taskLine(t entities.Task) string {
	if t.Due != "" {
		return fmt.Sprintf("%s (due %s)", t.Title, t.Due)
	}
	return t.Title
}

// firstAnswer returns the only answer of single-question sessions
func firstAnswer(p Participant) string {
	for _, v := range p.Answers {
		return v
	}
	return ""
}
