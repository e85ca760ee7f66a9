package reporter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"seltext/internal/models"
	"seltext/pkg/utils"
)

// Source is the part of the repository reports are built from
type Source interface {
	GetMechanismSummarySince(since time.Time) ([]models.MechanismSummary, error)
	CountErrorsSince(since time.Time) (int64, error)
}

// Reporter handles report generation
type Reporter struct {
	source Source
	now    func() time.Time
}

// New creates a new reporter
func New(source Source) *Reporter {
	return &Reporter{
		source: source,
		now:    time.Now,
	}
}

// GenerateReport generates a report for the specified period
func (r *Reporter) GenerateReport(periodType string) (*models.Report, error) {
	period, err := r.getPeriod(periodType)
	if err != nil {
		return nil, err
	}

	// Raw counts come from SQL, rates and grouping are computed here
	summaries, err := r.source.GetMechanismSummarySince(period.Start)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get mechanism summary")
	}

	errorCount, err := r.source.CountErrorsSince(period.Start)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count errors")
	}

	report := &models.Report{
		Period:      *period,
		Apps:        groupByApp(summaries),
		ErrorCount:  errorCount,
		GeneratedAt: r.now(),
	}

	for _, app := range report.Apps {
		report.TotalAttempts += app.Attempts
		report.TotalSuccesses += app.Successes
	}
	report.SuccessRate = rate(report.TotalSuccesses, report.TotalAttempts)

	return report, nil
}

// groupByApp folds per-mechanism rows into one entry per app, busiest first
func groupByApp(summaries []models.MechanismSummary) []models.AppSummary {
	index := map[string]int{}
	var apps []models.AppSummary

	for _, s := range summaries {
		s.SuccessRate = rate(s.Successes, s.Attempts)

		i, ok := index[s.AppName]
		if !ok {
			i = len(apps)
			index[s.AppName] = i
			apps = append(apps, models.AppSummary{AppName: s.AppName})
		}

		app := &apps[i]
		app.Attempts += s.Attempts
		app.Successes += s.Successes
		app.Mechanisms = append(app.Mechanisms, s)
	}

	for i := range apps {
		app := &apps[i]
		app.SuccessRate = rate(app.Successes, app.Attempts)

		best := 0
		for _, m := range app.Mechanisms {
			if m.Successes > best {
				best = m.Successes
				app.Preferred = m.Mechanism
			}
		}
	}

	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].Attempts > apps[j].Attempts
	})
	return apps
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100.0
}

// getPeriod calculates the time range for the report
func (r *Reporter) getPeriod(periodType string) (*models.ReportPeriod, error) {
	now := r.now()
	var start, end time.Time

	switch periodType {
	case "day", "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 0, 1)

	case "week":
		// Start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 7)

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)

	default:
		return nil, fmt.Errorf("invalid period type: %s (valid: day, week, month)", periodType)
	}

	return &models.ReportPeriod{
		Start: start,
		End:   end,
		Type:  periodType,
	}, nil
}

// FormatReportText formats the report as human-readable text
func (r *Reporter) FormatReportText(report *models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Extraction Report - %s\n", report.Period.Type)
	fmt.Fprintf(&b, "Period: %s to %s\n",
		report.Period.Start.Format("2006-01-02 15:04"),
		report.Period.End.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Attempts: %d, with text: %d (%.1f%%), errors logged: %d\n\n",
		report.TotalAttempts, report.TotalSuccesses, report.SuccessRate, report.ErrorCount)

	if len(report.Apps) == 0 {
		b.WriteString("No extractions recorded for this period.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-30s %-14s %9s %9s %9s %10s\n", "Application", "Mechanism", "Attempts", "Success", "Pinned", "Latency")
	b.WriteString("--------------------------------------------------------------------------------\n")

	for _, app := range report.Apps {
		name := truncate(app.AppName, 30)
		for _, m := range app.Mechanisms {
			mechanism := m.Mechanism
			if m.Mechanism == app.Preferred {
				mechanism += " *"
			}
			fmt.Fprintf(&b, "%-30s %-14s %9d %8.1f%% %9d %10s\n",
				name,
				mechanism,
				m.Attempts,
				m.SuccessRate,
				m.Pinned,
				utils.FormatLatency(m.AvgLatencyMs))
			name = ""
		}
	}

	b.WriteString("\n* mechanism that produced text most often\n")
	return b.String()
}

// FormatReportJSON formats the report as JSON
func (r *Reporter) FormatReportJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal JSON")
	}
	return string(data), nil
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
