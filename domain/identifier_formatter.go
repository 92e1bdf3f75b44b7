package domain

import (
	"fmt"
	"strconv"
)

// IdentifierFormatter zero-pads tids to the width of the largest tid of a
// report so that they line up in tables.
type IdentifierFormatter struct {
	Width int `json:"width"`
}

func NewIdentifierFormatter(comments []Comment) IdentifierFormatter {
	maxTid := 0
	for _, c := range comments {
		if c.Tid > maxTid {
			maxTid = c.Tid
		}
	}
	return IdentifierFormatter{Width: len(strconv.Itoa(maxTid))}
}

func (f IdentifierFormatter) Format(tid int) string {
	return fmt.Sprintf("%0*d", f.Width, tid)
}
