package editor

import "github.com/slidesmith/slidesmith/internal/client/models"

// Feedback is a reaction plus an optional free-text comment.
type Feedback struct {
	Reaction models.Reaction
	Comment  string
}

// Toggle selects r, or clears the reaction when r is already selected.
func (f Feedback) Toggle(r models.Reaction) Feedback {
	if f.Reaction == r {
		f.Reaction = models.ReactionNone
	} else {
		f.Reaction = r
	}
	return f
}
