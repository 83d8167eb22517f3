package entities

// Task is a first-person commitment found in an answer
type Task struct {
	Owner string `json:"owner"`
	Title string `json:"title"`
	Due   string `json:"due,omitempty"`
}

// Blocker is an obstruction reported in an answer
type Blocker struct {
	Owner string `json:"owner"`
	Issue string `json:"issue"`
}

// Note is any sentence that is neither a task nor a blocker
type Note struct {
	Text string `json:"text"`
}

// Insights groups the categories derived from one answer. Each keeps sentence order.
type Insights struct {
	Tasks    []Task
	Blockers []Blocker
	Notes    []Note
}

// Len returns the number of classified sentences
func (i Insights) Len() int {
	return len(i.Tasks) + len(i.Blockers) + len(i.Notes)
}

// NoteTexts flattens notes to their text
func (i Insights) NoteTexts() []string {
	out := make([]string, 0, len(i.Notes))
	for _, n := range i.Notes {
		out = append(out, n.Text)
	}
	return out
}
