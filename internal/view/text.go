package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const barWidth = 20

// TextRenderer draws screens for a terminal.
type TextRenderer struct {
	color bool
}

// NewTextRenderer returns a renderer; useColor enables ANSI colors.
func NewTextRenderer(useColor bool) *TextRenderer {
	return &TextRenderer{color: useColor}
}

// Render writes the screen to w.
func (r *TextRenderer) Render(w io.Writer, s Screen) error {
	var b strings.Builder
	b.WriteString("\n")

	switch s.Kind {
	case KindLoading:
		b.WriteString("Loading questions...\n")
	case KindError:
		fmt.Fprintf(&b, "%s\n%s\n\n", r.paint(Red, "Oops!"), s.Error)
		b.WriteString("[r] Try again   [q] Quit\n")
	case KindEmpty:
		b.WriteString("No Questions Available\n")
		b.WriteString("Please check back later!\n")
	case KindQuestion:
		r.question(&b, s.Question)
		if s.Feedback != nil {
			r.feedback(&b, s.Feedback)
		}
	case KindScoring:
		b.WriteString("Scoring your answers...\n")
	case KindResults:
		r.results(&b, s.Results)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderShare writes the share line.
func (r *TextRenderer) RenderShare(w io.Writer, text string) error {
	_, err := fmt.Fprintf(w, "\n📤 Share this:\n%s\n", text)
	return err
}

// RenderHint writes a one-line hint after rejected input.
func (r *TextRenderer) RenderHint(w io.Writer, hint string) error {
	_, err := fmt.Fprintf(w, "%s\n", r.paint(Yellow, hint))
	return err
}

func (r *TextRenderer) question(b *strings.Builder, q *QuestionCard) {
	fmt.Fprintf(b, "%s Question %d of %d\n\n", progressBar(q.Number, q.Total, barWidth), q.Number, q.Total)
	fmt.Fprintf(b, "%s\n\n", q.Text)
	for i, opt := range q.Options {
		marker := " "
		if q.Selected != nil && *q.Selected == i {
			marker = ">"
		}
		fmt.Fprintf(b, "%s %d) %s\n", marker, i+1, opt)
	}
	fmt.Fprintf(b, "\nYear: %d\n", q.Year)
	if q.CanSubmit {
		fmt.Fprintf(b, "[1-%d] pick an option   [enter] %s\n", len(q.Options), q.SubmitLabel)
	} else {
		fmt.Fprintf(b, "[1-%d] pick an option\n", len(q.Options))
	}
}

func (r *TextRenderer) feedback(b *strings.Builder, fb *Feedback) {
	tone := Red
	if fb.Correct {
		tone = Green
	}
	fmt.Fprintf(b, "\n%s\n", r.paint(tone, fb.Headline))
	fmt.Fprintf(b, "Your answer: %s\n", r.paint(tone, fb.YourAnswer))
	if !fb.Correct {
		fmt.Fprintf(b, "Correct answer: %s\n", r.paint(Green, fb.CorrectAnswer))
	}
	if fb.Stats != nil {
		b.WriteString("\n📊 Question Stats\n")
		fmt.Fprintf(b, "  Success Rate:    %d%%\n", fb.Stats.SuccessRate)
		fmt.Fprintf(b, "  Correct Answers: %d\n", fb.Stats.CorrectAnswers)
		fmt.Fprintf(b, "  Total Attempts:  %d\n", fb.Stats.TotalAttempts)
		fmt.Fprintf(b, "  %s\n", progressBar(fb.Stats.SuccessRate, 100, barWidth))
	}
	b.WriteString("\n[enter] Continue\n")
}

func (r *TextRenderer) results(b *strings.Builder, res *Results) {
	fmt.Fprintf(b, "%s Quiz Complete!\n%s\n\n", res.Tier.Emoji, res.Tier.Message)
	fmt.Fprintf(b, "%s   %s\n", r.paint(res.Tier.Color, fmt.Sprintf("%d/%d", res.Score, res.Total)),
		r.paint(res.Tier.Color, res.Percentage+"%"))
	fmt.Fprintf(b, "You got %d out of %d questions correct!\n\n", res.Score, res.Total)

	b.WriteString("📋 Detailed Results\n")
	for _, item := range res.Items {
		mark := "❌"
		if item.Correct {
			mark = "✅"
		}
		fmt.Fprintf(b, "\nQ%d %s %s\n", item.Number, mark, item.Question)
		if item.Answered {
			tone := Red
			if item.Correct {
				tone = Green
			}
			fmt.Fprintf(b, "   Your answer: %s\n", r.paint(tone, item.YourAnswer))
		} else {
			fmt.Fprintf(b, "   %s\n", item.YourAnswer)
		}
		if !item.Correct {
			fmt.Fprintf(b, "   Correct answer: %s\n", r.paint(Green, item.CorrectOption))
		}
		fmt.Fprintf(b, "   Success Rate: %s%%\n", item.SuccessRate)
	}
	b.WriteString("\n[r] Try again   [s] Share score   [q] Quit\n")
}

func (r *TextRenderer) paint(c Color, s string) string {
	var attr color.Attribute
	switch c {
	case Green:
		attr = color.FgGreen
	case Yellow:
		attr = color.FgYellow
	default:
		attr = color.FgRed
	}
	painter := color.New(attr)
	if r.color {
		painter.EnableColor()
	} else {
		painter.DisableColor()
	}
	return painter.Sprint(s)
}

func progressBar(current, total, length int) string {
	if total <= 0 {
		return "[" + strings.Repeat("░", length) + "]"
	}
	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", length-filled) + "]"
}
