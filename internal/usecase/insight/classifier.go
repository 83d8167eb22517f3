package insight

import (
	"regexp"
	"strings"
)

// Kind is the category a sentence falls into
type Kind int

const (
	KindNote Kind = iota
	KindTask
	KindBlocker
)

// String returns the lowercase category name
func (k Kind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindBlocker:
		return "blocker"
	default:
		return "note"
	}
}

// Classification is the verdict for one sentence. Due is only set for tasks.
type Classification struct {
	Kind Kind
	Due  string
}

// Classifier decides the category of a single sentence
type Classifier interface {
	ClassifySentence(sentence string) Classification
}

var (
	blockerPattern = regexp.MustCompile(`(?i)\b(blocked|blockers?|waiting on|waiting for|cannot|can['’]t)\b`)
	taskPattern    = regexp.MustCompile(`(?i)\b(i will|i['’]m going to|i am going to|i plan to|i['’]ll)\b`)
	duePattern     = regexp.MustCompile(`(?i)\b(?:by|before)\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday|tomorrow|today|eod|\d{4}-\d{2}-\d{2})\b`)
)

// RegexClassifier is the first-match-wins keyword classifier. Blocker beats task.
type RegexClassifier struct{}

// NewRegexClassifier creates the default classifier
func NewRegexClassifier() *RegexClassifier {
	return &RegexClassifier{}
}

// ClassifySentence implements Classifier
func (RegexClassifier) ClassifySentence(sentence string) Classification {
	if blockerPattern.MatchString(sentence) {
		return Classification{Kind: KindBlocker}
	}
	if taskPattern.MatchString(sentence) {
		return Classification{Kind: KindTask, Due: DueDate(sentence)}
	}
	return Classification{Kind: KindNote}
}

// DueDate finds a "by/before <day>" token and returns it upper-cased, or ""
func DueDate(sentence string) string {
	m := duePattern.FindStringSubmatch(sentence)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}
