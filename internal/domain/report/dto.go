package report

import (
	"encoding/csv"
	"io"
)

type ReportType string

const (
	ReportTypeDaily   ReportType = "daily"
	ReportTypeWeekly  ReportType = "weekly"
	ReportTypeMonthly ReportType = "monthly"
)

func ParseReportType(s string) (ReportType, error) {
	switch t := ReportType(s); t {
	case ReportTypeDaily, ReportTypeWeekly, ReportTypeMonthly:
		return t, nil
	}
	return "", ErrInvalidReportType
}

var (
	DailyHeader = []string{
		"Employee ID", "Name", "Team", "Shift", "Shift Start", "Shift End",
		"Status", "Last Punch Date", "Last Punch Time", "Late By Minutes",
	}
	PunchHeader = []string{"Employee ID", "Name", "Team", "Date", "Time", "Status"}
)

// Report is a tabular export ready to be streamed as CSV
type Report struct {
	Type     ReportType
	Filename string
	Header   []string
	Rows     [][]string
}

// WriteCSV writes the header and all rows to w
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(r.Rows); err != nil {
		return err
	}
	return cw.Error()
}
