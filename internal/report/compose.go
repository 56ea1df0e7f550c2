// Package report renders the HTML summary of a campaign report.
package report

import (
	"bytes"
	"html"
	"strconv"
	"text/template"
	"time"

	"github.com/igodwin/campaign-mailer/internal/domain"
)

// RunningIndicator replaces the end and duration of a campaign that is still running
const RunningIndicator = "<Running>"

var summaryTemplate = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html>
    <head>
        <style>
            table, th, td {
              border:1px solid black;
            }
        </style>
    </head>
<body>
    <table>
        <tr>
          <td>Campaign</td>
          <td>{{.CampaignKey}}</td>
        </tr>
        <tr>
          <td>Start</td>
          <td>{{.Start}}</td>
        </tr>
        <tr>
          <td>End</td>
          <td>{{.End}}</td>
        </tr>
        <tr>
          <td>Duration</td>
          <td>{{.Duration}}</td>
        </tr>
        <tr>
          <td>Started minions</td>
          <td>{{.StartedMinions}}</td>
        </tr>
        <tr>
          <td>Completed minions</td>
          <td>{{.CompletedMinions}}</td>
        </tr>
        <tr>
          <td>Successful steps executions</td>
          <td>{{.SuccessfulExecutions}}</td>
        </tr>
        <tr>
          <td>Failed steps executions</td>
          <td>{{.FailedExecutions}}</td>
        </tr>
        <tr>
          <td>Status</td>
          <td>{{.Status}}</td>
        </tr>
    </table>
</body></html>`))

// summary holds the already formatted cells of the table, values from the report are HTML-escaped
type summary struct {
	CampaignKey          string
	Start                string
	End                  string
	Duration             string
	StartedMinions       int
	CompletedMinions     int
	SuccessfulExecutions int
	FailedExecutions     int
	Status               string
}

// Compose renders the HTML table summarizing the report.
// The output only depends on the report, identical reports yield identical bytes.
func Compose(r *domain.CampaignReport) string {
	s := summary{
		CampaignKey:          html.EscapeString(r.CampaignKey),
		Start:                FormatTimestamp(r.Start),
		End:                  RunningIndicator,
		Duration:             RunningIndicator,
		StartedMinions:       r.StartedMinions,
		CompletedMinions:     r.CompletedMinions,
		SuccessfulExecutions: r.SuccessfulExecutions,
		FailedExecutions:     r.FailedExecutions,
		Status:               html.EscapeString(string(r.Status)),
	}
	if r.End != nil {
		s.End = FormatTimestamp(*r.End)
	}
	if d, ok := r.Duration(); ok {
		s.Duration = FormatDuration(d)
	}

	var buf bytes.Buffer
	// The template only prints strings and integers.
	_ = summaryTemplate.Execute(&buf, s)
	return buf.String()
}

// Subject returns the mail subject of a campaign report
func Subject(campaignKey string, status domain.ExecutionStatus) string {
	return campaignKey + " " + string(status)
}

// FormatTimestamp renders an instant in UTC RFC 3339 form, with fractional seconds only when present
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// FormatDuration renders the whole seconds of d, truncated toward zero
func FormatDuration(d time.Duration) string {
	return strconv.FormatInt(int64(d/time.Second), 10) + " seconds"
}
