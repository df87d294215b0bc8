package cli

import (
	"io"
	"strconv"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/jedib0t/go-pretty/v6/table"
)

const timeLayout = "2006-01-02 15:04:05"

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func orDash(s *string) string {
	if v := common.Deref(s); v != "" {
		return v
	}
	return "-"
}

func renderUser(w io.Writer, u *models.User) {
	age := "-"
	if u.Age != nil {
		age = strconv.Itoa(*u.Age)
	}
	complete := "no"
	if u.Profile.Complete() {
		complete = "yes"
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"Name", u.Name},
		{"Email", u.Email},
		{"Age", age},
		{"Sex", orDash(u.Sex)},
		{"Race", orDash(u.Race)},
		{"Profile complete", complete},
	})
	if !u.CreatedAt.IsZero() {
		t.AppendRow(table.Row{"Created", u.CreatedAt.UTC().Format(timeLayout)})
	}
	t.Render()
}

func renderFiles(w io.Writer, files []*models.HealthFile) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Stored name", "Original name", "Uploaded (UTC)"})
	for i, f := range files {
		t.AppendRow(table.Row{i + 1, f.Filename, f.OriginalFilename, formatTime(f.UploadedAt)})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(files)})
	t.Render()
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.UTC().Format(timeLayout)
}
