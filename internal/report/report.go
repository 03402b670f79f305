// Package report renders session analytics and score results for the
// terminal.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/gradewise/internal/analytics"
	"github.com/abhisek/gradewise/internal/task"
)

// Options controls what a session report includes.
type Options struct {
	// BarWidth is the width of the per-student score bar.
	BarWidth int
	// GeneratedAt is shown under the title when set.
	GeneratedAt time.Time
}

// DefaultOptions returns the standard report layout.
func DefaultOptions() Options {
	return Options{BarWidth: 20}
}

// Session renders a full analytics report: class summary, then tasks,
// teams and students.
func Session(res analytics.Result, opts Options) string {
	if opts.BarWidth <= 0 {
		opts.BarWidth = DefaultOptions().BarWidth
	}
	s := res.Session

	title := titleStyle.Render("Session " + s.SessionID)
	if !opts.GeneratedAt.IsZero() {
		title += "\n" + dimStyle.Render("generated "+opts.GeneratedAt.Local().Format("2006-01-02 15:04"))
	}

	parts := []string{
		title,
		summaryCard.Render(lipgloss.JoinHorizontal(lipgloss.Top,
			stat("Class average", s.ClassAverageScore),
			"    ",
			stat("Class accuracy", s.ClassAverageAccuracy),
			"    ",
			dimStyle.Render(fmt.Sprintf("%d students\n%d tasks", len(res.Students), len(s.Tasks))),
		)),
	}

	if len(s.Tasks) > 0 {
		parts = append(parts, sectionStyle.Render("Tasks"), tasksTable(s.Tasks))
	}
	if len(s.Teams) > 0 {
		parts = append(parts, sectionStyle.Render("Teams"), teamsTable(s.Teams))
	}
	if len(res.Students) > 0 {
		parts = append(parts, sectionStyle.Render("Students"), studentsTable(res.Students, opts.BarWidth))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Student renders one student's best attempt per task.
func Student(st analytics.StudentSummary) string {
	name := st.StudentID
	if st.Name != "" {
		name = st.Name + " (" + st.StudentID + ")"
	}
	header := titleStyle.Render(name)
	if st.TeamID != "" {
		header += dimStyle.Render("  team " + st.TeamID)
	}

	rows := make([][]string, 0, len(st.PerTask))
	for _, a := range st.PerTask {
		rows = append(rows, []string{
			a.TaskID,
			points(a.Points, a.MaxPoints, a.Graded),
			string(a.Method),
			correctMark(a.Correct),
			strconv.Itoa(a.Attempts),
		})
	}

	summary := fmt.Sprintf("%s points  %s  accuracy %d%%  %d/%d tasks",
		formatFloat(st.TotalPoints)+"/"+formatFloat(st.MaxPoints),
		gradeStyle(st.ScorePct).Render(strconv.Itoa(st.ScorePct)+"%"),
		st.AccuracyPct, st.TasksCompleted, st.TasksAssigned)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		summary,
		newTable("Task", "Best", "Method", "Correct", "Attempts").Rows(rows...).String(),
	)
}

// Score renders a single score result on one line.
func Score(submissionID string, res task.ScoreResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(submissionID))
	b.WriteString("  ")
	if !res.Scored() {
		b.WriteString(dimStyle.Render("not scored"))
		if res.MaxPoints != nil {
			b.WriteString(dimStyle.Render(" (max " + formatFloat(res.Max()) + ")"))
		}
	} else {
		pct := 0
		if res.Max() > 0 {
			pct = int(100 * res.Points() / res.Max())
		}
		b.WriteString(gradeStyle(pct).Render(formatFloat(res.Points()) + "/" + formatFloat(res.Max())))
	}
	b.WriteString(dimStyle.Render("  [" + string(res.Method) + "]"))
	if res.Reason != "" {
		b.WriteString("\n  " + res.Reason)
	}
	return b.String()
}

func stat(label string, pct int) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		dimStyle.Render(label),
		gradeStyle(pct).Render(strconv.Itoa(pct)+"%"),
	)
}

func tasksTable(tasks []analytics.TaskSummary) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		name := t.TaskID
		if t.Title != "" {
			name = t.Title
		}
		rows = append(rows, []string{
			name,
			string(t.TaskType),
			fmt.Sprintf("%d/%d", t.GradedCount, t.SubmissionCount),
			formatFloat(t.TotalPoints) + "/" + formatFloat(t.MaxPoints),
			strconv.Itoa(t.AvgScore) + "%",
			correctPct(t.AvgCorrectPct, t.CorrectCount+t.IncorrectCount),
			formatLatency(t.AvgLatencyMs),
		})
	}
	return newTable("Task", "Type", "Graded", "Points", "Avg", "Correct", "Avg time").
		Rows(rows...).String()
}

func teamsTable(teams []analytics.TeamSummary) string {
	rows := make([][]string, 0, len(teams))
	for _, t := range teams {
		name := t.TeamID
		if t.Name != "" {
			name = t.Name
		}
		rows = append(rows, []string{
			name,
			strconv.Itoa(t.SubmissionCount),
			formatFloat(t.TotalPoints),
			fmt.Sprintf("%d/%d", t.CorrectCount, t.CorrectCount+t.IncorrectCount),
			formatLatency(t.AvgLatencyMs),
		})
	}
	return newTable("Team", "Submissions", "Points", "Correct", "Avg time").
		Rows(rows...).String()
}

func studentsTable(students []analytics.StudentSummary, barWidth int) string {
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		name := s.StudentID
		if s.Name != "" {
			name = s.Name
		}
		rows = append(rows, []string{
			name,
			s.TeamID,
			formatFloat(s.TotalPoints) + "/" + formatFloat(s.MaxPoints),
			scoreBar(s.ScorePct, barWidth) + " " + strconv.Itoa(s.ScorePct) + "%",
			strconv.Itoa(s.AccuracyPct) + "%",
			fmt.Sprintf("%d/%d", s.TasksCompleted, s.TasksAssigned),
		})
	}
	return newTable("Student", "Team", "Points", "Score", "Accuracy", "Done").
		Rows(rows...).String()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Border)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func points(p, maxPoints float64, graded bool) string {
	if !graded {
		return "-"
	}
	return formatFloat(p) + "/" + formatFloat(maxPoints)
}

func correctMark(c *bool) string {
	switch {
	case c == nil:
		return "-"
	case *c:
		return goodStyle.Render("✓")
	}
	return badStyle.Render("✗")
}

func correctPct(pct, n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(pct) + "%"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatLatency(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return (time.Duration(ms) * time.Millisecond).Round(100 * time.Millisecond).String()
}
