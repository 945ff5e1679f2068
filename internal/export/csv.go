// Package export serializes lead selections into the spreadsheet-compatible
// CSV artifact downloaded from the admin dashboard.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/baroform/lead-service/internal/clicksource"
	"github.com/baroform/lead-service/internal/domain"
)

// utf8BOM keeps spreadsheet tools from misreading the Korean columns.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// header is the fixed column order of the export file.
var header = []string{
	"이름", "연락처", "최종학력", "취득사유", "유입경로",
	"과목비용", "담당자", "거주지", "메모", "신청일시", "상태",
}

const timestampLayout = "2006-01-02 15:04"

// WriteCSV writes a BOM-prefixed CSV table for the given leads. Timestamps
// are rendered in loc. Quoting and quote doubling follow encoding/csv.
func WriteCSV(w io.Writer, leads []domain.Lead, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range leads {
		if err := cw.Write(row(&leads[i], loc)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(lead *domain.Lead, loc *time.Location) []string {
	cost := ""
	if lead.SubjectCost != nil {
		cost = strconv.FormatInt(*lead.SubjectCost, 10)
	}
	return []string{
		lead.Name,
		lead.Contact,
		lead.Education,
		lead.ReasonText(),
		clicksource.Decode(lead.ClickSource).Display,
		cost,
		lead.Manager,
		lead.Residence,
		lead.Memo,
		lead.CreatedAt.In(loc).Format(timestampLayout),
		string(lead.Status),
	}
}

// Filename names the export artifact after the selection size and the export
// date: an explicit selection embeds its count, a full filtered export is
// marked "all".
func Filename(selected int, now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	date := now.In(loc).Format("20060102")
	if selected > 0 {
		return fmt.Sprintf("leads_%d건_%s.csv", selected, date)
	}
	return fmt.Sprintf("leads_all_%s.csv", date)
}
