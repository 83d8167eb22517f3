package insight

import (
	"strings"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
)

// Extractor turns an answer into tasks, blockers and notes. It holds no state.
type Extractor struct {
	classifier Classifier
}

// NewExtractor creates an extractor. A nil classifier selects RegexClassifier.
func NewExtractor(classifier Classifier) *Extractor {
	if classifier == nil {
		classifier = NewRegexClassifier()
	}
	return &Extractor{classifier: classifier}
}

var defaultExtractor = NewExtractor(nil)

// Extract runs the default extractor
func Extract(text, owner string) entities.Insights {
	return defaultExtractor.Extract(text, owner)
}

// Extract classifies every sentence of text exactly once
func (e *Extractor) Extract(text, owner string) entities.Insights {
	var out entities.Insights
	for _, sentence := range SplitSentences(text) {
		c := e.classifier.ClassifySentence(sentence)
		switch c.Kind {
		case KindBlocker:
			out.Blockers = append(out.Blockers, entities.Blocker{Owner: owner, Issue: sentence})
		case KindTask:
			out.Tasks = append(out.Tasks, entities.Task{Owner: owner, Title: sentence, Due: c.Due})
		default:
			out.Notes = append(out.Notes, entities.Note{Text: sentence})
		}
	}
	return out
}

// SplitSentences collapses whitespace and splits on . ! and ?, dropping empty pieces
func SplitSentences(text string) []string {
	normalized := strings.Join(strings.Fields(text), " ")
	parts := strings.FieldsFunc(normalized, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}
