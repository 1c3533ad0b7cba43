package session

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gasbank/internal/question"
	"github.com/abhisek/gasbank/internal/ui/theme"
	"github.com/abhisek/gasbank/internal/userstate"
)

func (s *SessionScreen) View(width, height int) string {
	q, sess, ok := s.coord.CurrentQuestion()
	if sess == nil {
		return renderMessage(width, "No active session.", theme.TextDim)
	}
	if !ok {
		return renderMessage(width, "This question is no longer in the bank.", theme.Error)
	}
	if s.confirming {
		return renderConfirm(width, len(sess.QuestionIDs)-sess.AnsweredCount())
	}
	s.bind(false)

	cw := min(width-4, 100)
	var b strings.Builder

	b.WriteString(s.renderInfoLine(sess, q, cw))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(cw, 0))))
	b.WriteString("\n\n")

	b.WriteString(theme.Body.Bold(true).Width(cw).Render(q.Text))
	b.WriteString("\n\n")
	b.WriteString(s.choices.View(cw))

	if ans, answered := answerState(sess, q); answered && !s.choices.Revealed() {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Answer %c recorded. You can change it until the session is finished.", 'A'+rune(ans.ChoiceIndex))))
	}
	if s.choices.Revealed() {
		b.WriteString(renderFeedback(q, s.choices.Chosen, cw))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (s *SessionScreen) renderInfoLine(sess *userstate.Session, q question.Question, cw int) string {
	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("%s · %s", q.Category, q.Difficulty))

	right := fmt.Sprintf("Q %d/%d  answered %d", sess.CurrentIndex+1, len(sess.QuestionIDs), sess.AnsweredCount())
	if s.coord.State().IsFlagged(q.ID) {
		right = theme.Flagged.Render("⚑ flagged") + "  " + right
	}
	right = lipgloss.NewStyle().Foreground(theme.TextDim).Render(right)

	pad := cw - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		return left + "\n" + right
	}
	return left + strings.Repeat(" ", pad) + right
}

// renderFeedback shows the explanations once the answer is revealed.
func renderFeedback(q question.Question, chosen, cw int) string {
	var b strings.Builder
	correct := q.CorrectIndex()

	b.WriteString("\n")
	switch {
	case chosen < 0:
		b.WriteString(theme.Incorrect.Render("Not answered"))
	case chosen == correct:
		b.WriteString(theme.Correct.Render("Correct"))
	default:
		b.WriteString(theme.Incorrect.Render("Incorrect"))
	}
	b.WriteString("\n")

	text := lipgloss.NewStyle().Foreground(theme.Text).Width(cw)
	if chosen >= 0 && chosen != correct && q.Answers[chosen].Explanation != "" {
		b.WriteString("\n" + text.Render(q.Answers[chosen].Explanation) + "\n")
	}
	if correct >= 0 && q.Answers[correct].Explanation != "" {
		b.WriteString("\n" + text.Render(q.Answers[correct].Explanation) + "\n")
	}
	if q.Didactic != "" {
		b.WriteString("\n" + theme.Hint.Width(cw).Render(q.Didactic) + "\n")
	}
	if q.EducationalObjective != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw).
			Render("Objective: "+q.EducationalObjective) + "\n")
	}
	return b.String()
}

func renderConfirm(width, unanswered int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("Finish this session?"))
	b.WriteString("\n")
	if unanswered > 0 {
		b.WriteString(center.Foreground(theme.TextDim).
			Render(fmt.Sprintf("%d unanswered questions will be scored as incorrect.", unanswered)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, finish"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

func renderMessage(width int, msg string, fg color.Color) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(fg).
		Render("\n\n\n" + msg)
}
