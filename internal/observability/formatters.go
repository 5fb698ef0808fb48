// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/jonathan/screening-diagnostic/internal/content"
	"github.com/jonathan/screening-diagnostic/internal/diagnostic"
	"github.com/jonathan/screening-diagnostic/internal/quiz"
	"github.com/jonathan/screening-diagnostic/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// barWidth is the width of the longest histogram bar
	barWidth = 30
)

// Printer handles formatted output for the CLI.
type Printer struct {
	out    io.Writer
	accept *color.Color
	reject *color.Color
	warn   *color.Color
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:    out,
		accept: color.New(color.FgGreen, color.Bold),
		reject: color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow),
	}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, body string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(body, "\n") {
		if utf8.RuneCountInString(line) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProfile outputs the requirements of a job profile.
func (p *Printer) PrintProfile(profile types.JobProfile) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Title:       %s\n", profile.Title)
	fmt.Fprintf(&sb, "Department:  %s\n", profile.Department)
	fmt.Fprintf(&sb, "Experience:  %d+ years\n\n", profile.MinExperience)
	fmt.Fprintf(&sb, "Required:    %s\n", strings.Join(profile.RequiredSkills, ", "))
	fmt.Fprintf(&sb, "Preferred:   %s\n", strings.Join(profile.PreferredSkills, ", "))
	fmt.Fprintf(&sb, "Education:   %s", strings.Join(profile.EducationKeywords, ", "))

	p.printBox("JOB PROFILE: "+strings.ToUpper(profile.Key), sb.String())
}

// PrintCandidates outputs one line per candidate with its decision highlighted.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCandidates(candidates []types.Candidate) {
	for _, c := range candidates {
		if c.Result == nil {
			fmt.Fprintf(p.out, "%-14s %-24s %s\n", c.Name, c.Filename, p.warn.Sprintf("FAILED: %s", c.Error))
			continue
		}

		decision := p.reject.Sprint(c.Result.Decision)
		if c.Result.Accepted() {
			decision = p.accept.Sprint(c.Result.Decision)
		}
		fmt.Fprintf(p.out, "%-14s %-24s %s  score %3d  (skills %d, experience %d, education %d)\n",
			c.Name, c.Filename, decision,
			c.Result.TotalScore, c.Result.SkillsScore, c.Result.ExperienceScore, c.Result.EducationScore)
		if len(c.Result.MatchedSkills) > 0 {
			fmt.Fprintf(p.out, "%14s matched: %s\n", "", strings.Join(c.Result.MatchedSkills, ", "))
		}
	}
}

// PrintSummary outputs the decision counts of a batch.
func (p *Printer) PrintSummary(summary types.ScreeningSummary) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Applications processed: %d\n", summary.Processed)
	fmt.Fprintf(&sb, "Accepted:               %d\n", summary.Accepted)
	fmt.Fprintf(&sb, "Rejected:               %d\n", summary.Rejected)
	if summary.Failed > 0 {
		fmt.Fprintf(&sb, "Failed to decode:       %d\n", summary.Failed)
	}
	fmt.Fprintf(&sb, "Acceptance rate:        %.1f%%", summary.AcceptanceRate)

	p.printBox("SCREENING SUMMARY", sb.String())
}

// PrintAnalytics outputs system analytics with a text histogram.
func (p *Printer) PrintAnalytics(a diagnostic.Analytics) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total: %d   Accepted: %d   High confidence: %d\n", a.Total, a.Accepted, a.HighConfidence)
	fmt.Fprintf(&sb, "Average score: %.1f\n\n", a.AverageScore)

	peak := 0
	for _, b := range a.Histogram {
		peak = max(peak, b.Count)
	}
	for i, b := range a.Histogram {
		bar := 0
		if peak > 0 {
			bar = b.Count * barWidth / peak
		}
		fmt.Fprintf(&sb, "%3d-%-3d │%s %d", b.Low, b.High, strings.Repeat("█", bar), b.Count)
		if i < len(a.Histogram)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SYSTEM ANALYTICS", sb.String())
}

// PrintQuizResult outputs the final quiz score and its band message.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintQuizResult(r quiz.Result) {
	p.printBox("QUIZ COMPLETE", fmt.Sprintf("Final Score: %d/%d (%.0f%%)", r.Score, r.Total, r.Percentage))

	c := p.warn
	switch r.Band {
	case quiz.BandExcellent:
		c = p.accept
	case quiz.BandStudy:
		c = p.reject
	}
	fmt.Fprintln(p.out, c.Sprint(r.Message))
}

// PrintFeedback outputs the verdict on one quiz answer.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFeedback(fb quiz.Feedback) {
	if fb.Correct {
		fmt.Fprintln(p.out, p.accept.Sprint("Correct!"))
	} else {
		fmt.Fprintln(p.out, p.reject.Sprint("Incorrect"))
		fmt.Fprintf(p.out, "Correct answer: %s\n", fb.CorrectAnswer)
	}
	fmt.Fprintf(p.out, "%s\n\n", fb.Explanation)
}

// PrintResources lists the downloadable documents.
func (p *Printer) PrintResources(docs []content.Document) {
	lines := make([]string, len(docs))
	for i, d := range docs {
		lines[i] = fmt.Sprintf("%-10s %s", d.Name, d.Title)
	}
	p.printBox("RESOURCES", strings.Join(lines, "\n"))
}
