package standup

import (
	"fmt"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
)

func promptText(m entities.Member, q entities.Question) string {
	return fmt.Sprintf("%s, %s.", m.Name, q.Prompt)
}

func clarifyText(m entities.Member) string {
	return fmt.Sprintf("Sorry %s, I didn't catch that. Could you say it again?", m.Name)
}

// ackText surfaces the first blocker, else the first task, else a plain noted
func ackText(m entities.Member, ins entities.Insights) string {
	if len(ins.Blockers) > 0 {
		return fmt.Sprintf("Thanks %s. Noted blocker: %s.", m.Name, ins.Blockers[0].Issue)
	}
	if len(ins.Tasks) > 0 {
		t := ins.Tasks[0]
		if t.Due != "" {
			return fmt.Sprintf("Thanks %s. Got it: %s (due %s).", m.Name, t.Title, t.Due)
		}
		return fmt.Sprintf("Thanks %s. Got it: %s.", m.Name, t.Title)
	}
	return fmt.Sprintf("Thanks %s, noted.", m.Name)
}

func closingText(s *entities.StandupSession) string {
	if len(s.Completed) < len(s.Members) {
		return fmt.Sprintf("Ending standup early. %d of %d members gave an update. Thanks everyone.", len(s.Completed), len(s.Members))
	}
	return "That's everyone. Thanks all, standup complete."
}
