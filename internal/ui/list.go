package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"
)

// ListRow is one line of the scenario listing.
type ListRow struct {
	ID       int64
	Location string // path:line
	Name     string
	Tags     []string
}

// List prints rows as aligned columns.
func List(w io.Writer, rows []ListRow) {
	idWidth, locWidth, nameWidth := 0, 0, 0
	for _, r := range rows {
		idWidth = max(idWidth, len(fmt.Sprintf("#%d", r.ID)))
		locWidth = max(locWidth, uniseg.StringWidth(r.Location))
		nameWidth = max(nameWidth, uniseg.StringWidth(r.Name))
	}
	for _, r := range rows {
		id := fmt.Sprintf("#%d", r.ID)
		line := ID(r.ID) + pad(id, idWidth) + "  " +
			r.Location + pad(r.Location, locWidth) + "  " +
			r.Name
		if len(r.Tags) > 0 {
			line += pad(r.Name, nameWidth) + "  " + Tags(r.Tags)
		}
		fmt.Fprintln(w, line)
	}
}

func pad(s string, width int) string {
	return strings.Repeat(" ", max(0, width-uniseg.StringWidth(s)))
}
