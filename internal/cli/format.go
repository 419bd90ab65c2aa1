package cli

import (
	"github.com/calvinalkan/roster/internal/person"
)

const (
	msgNoRecords  = "No records found."
	msgNoMatching = "No matching records found."
)

// printRecords writes each record as a block, separated by a blank line.
func printRecords(o *IO, records []person.Record, empty string) {
	if len(records) == 0 {
		o.Println(empty)

		return
	}

	for i, rec := range records {
		if i > 0 {
			o.Println()
		}

		printRecord(o, rec)
	}
}

func printRecord(o *IO, rec person.Record) {
	o.Println("ID:", rec.ID)
	o.Println("Name:", rec.FullName())
	o.Println("Birthday:", person.FormatBirthday(rec.Birthday))
	o.Println("Gender:", rec.Gender)
}
