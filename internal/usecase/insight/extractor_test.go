package insight

import (
	"sort"
	"testing"
)

func TestExtract_SingleTaskWithDue(t *testing.T) {
	got := Extract("I will push the login fix by Friday.", "Alice")

	if len(got.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(got.Tasks))
	}
	task := got.Tasks[0]
	if task.Due != "FRIDAY" {
		t.Errorf("due = %q, want FRIDAY", task.Due)
	}
	if task.Owner != "Alice" {
		t.Errorf("owner = %q, want Alice", task.Owner)
	}
	if task.Title != "I will push the login fix by Friday" {
		t.Errorf("title = %q", task.Title)
	}
	if len(got.Blockers) != 0 || len(got.Notes) != 0 {
		t.Errorf("unexpected extra insights: %+v", got)
	}
}

func TestExtract_BlockerOnly(t *testing.T) {
	got := Extract("I'm blocked by missing access.", "Bob")

	if len(got.Blockers) != 1 {
		t.Fatalf("expected 1 blocker, got %d", len(got.Blockers))
	}
	if len(got.Tasks) != 0 {
		t.Fatalf("expected 0 tasks, got %d", len(got.Tasks))
	}
	if got.Blockers[0].Owner != "Bob" || got.Blockers[0].Issue != "I'm blocked by missing access" {
		t.Errorf("unexpected blocker %+v", got.Blockers[0])
	}
}

func TestExtract_TaskAndBlocker(t *testing.T) {
	got := Extract("Today I plan to refactor. Can't deploy yet.", "Cara")

	if len(got.Tasks) < 1 {
		t.Errorf("expected at least one task")
	}
	if len(got.Blockers) < 1 {
		t.Errorf("expected at least one blocker")
	}
}

func TestClassifySentence(t *testing.T) {
	c := NewRegexClassifier()
	tests := []struct {
		sentence string
		kind     Kind
		due      string
	}{
		{"I'll ship it before tomorrow", KindTask, "TOMORROW"},
		{"I’m going to pair with Dan by eod", KindTask, "EOD"},
		{"I am going to write docs", KindTask, ""},
		{"I plan to cut the release by 2025-03-01", KindTask, "2025-03-01"},
		{"I will fix it but I am waiting on review", KindBlocker, ""},
		{"We cannot reach staging", KindBlocker, ""},
		{"No blockers today", KindBlocker, ""},
		{"Finished the migration yesterday", KindNote, ""},
		{"The team will celebrate by Friday", KindNote, ""},
		{"Unblocked the pipeline", KindNote, ""},
	}
	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			got := c.ClassifySentence(tt.sentence)
			if got.Kind != tt.kind {
				t.Fatalf("kind = %s, want %s", got.Kind, tt.kind)
			}
			if got.Due != tt.due {
				t.Fatalf("due = %q, want %q", got.Due, tt.due)
			}
		})
	}
}

func TestExtract_PartitionsSentences(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Done with auth!   I will start billing by Monday? Blocked on infra.",
		"one. two.. three... I'll do four",
		"Waiting for design.\nI plan to pair.\tAlso notes here!",
		"...!?",
	}
	for _, in := range inputs {
		sentences := SplitSentences(in)
		got := Extract(in, "Dana")

		if got.Len() != len(sentences) {
			t.Fatalf("%q: %d insights for %d sentences", in, got.Len(), len(sentences))
		}

		var seen []string
		for _, b := range got.Blockers {
			seen = append(seen, b.Issue)
		}
		for _, tk := range got.Tasks {
			seen = append(seen, tk.Title)
		}
		seen = append(seen, got.NoteTexts()...)

		want := append([]string(nil), sentences...)
		sort.Strings(seen)
		sort.Strings(want)
		for i := range want {
			if seen[i] != want[i] {
				t.Fatalf("%q: sentence sets differ: %v vs %v", in, seen, want)
			}
		}
	}
}

func TestExtract_KeepsSentenceOrder(t *testing.T) {
	got := Extract("Note A. I will do B. Note C. I'll do D.", "Eve")
	if len(got.Notes) != 2 || got.Notes[0].Text != "Note A" || got.Notes[1].Text != "Note C" {
		t.Fatalf("notes out of order: %+v", got.Notes)
	}
	if len(got.Tasks) != 2 || got.Tasks[0].Title != "I will do B" || got.Tasks[1].Title != "I'll do D" {
		t.Fatalf("tasks out of order: %+v", got.Tasks)
	}
}

type stubClassifier struct{}

func (stubClassifier) ClassifySentence(string) Classification {
	return Classification{Kind: KindTask, Due: "SOON"}
}

func TestNewExtractor_CustomClassifier(t *testing.T) {
	got := NewExtractor(stubClassifier{}).Extract("anything. at all.", "Finn")
	if len(got.Tasks) != 2 || got.Tasks[1].Due != "SOON" {
		t.Fatalf("custom classifier not used: %+v", got)
	}
}
