package regimport

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is one raw import row, fields still unparsed. The column order is
// fixed; rows shorter than eight columns get empty strings for the tail.
type Record struct {
	FirstName     string
	LastName      string
	Phone         string
	Microdistrict string
	HouseNumber   string
	ApartmentNum  string
	Floor         string
	MoveInDate    string
}

// Intent is a Record after validation: the typed request to attach one
// resident somewhere in the hierarchy.
type Intent struct {
	FirstName     string
	LastName      string
	Phone         string
	Microdistrict string
	HouseNumber   string
	ApartmentNum  int
	Floor         int
	MoveInDate    time.Time
}

// SkipError marks a row the batch drops and moves past: a malformed numeric
// or date field. It is softer than a store failure and never aborts the run.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string { return e.Reason }

// Move-in dates arrive in whatever form the operator's spreadsheet produced.
// The first layout is also what the exporter writes, so exported files read
// back in cleanly.
var dateLayouts = []string{
	"02.01.2006",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"1/2/2006",
}

// SplitRow cuts one line into the eight raw columns: split on the delimiter,
// trim whitespace, strip a single pair of surrounding double quotes per
// field. Missing trailing columns come back empty.
func SplitRow(line, delim string) Record {
	parts := strings.Split(line, delim)
	fields := make([]string, 8)
	for i := 0; i < len(fields) && i < len(parts); i++ {
		fields[i] = unquote(strings.TrimSpace(parts[i]))
	}
	return Record{
		FirstName:     fields[0],
		LastName:      fields[1],
		Phone:         fields[2],
		Microdistrict: fields[3],
		HouseNumber:   fields[4],
		ApartmentNum:  fields[5],
		Floor:         fields[6],
		MoveInDate:    fields[7],
	}
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// ParseRecord validates a raw Record into an Intent. A bad apartment number,
// floor or date returns a *SkipError; no other error is possible.
func ParseRecord(rec Record) (*Intent, error) {
	apartmentNum, err := parsePositiveInt(rec.ApartmentNum)
	if err != nil {
		return nil, &SkipError{Reason: fmt.Sprintf("invalid apartment number %q", rec.ApartmentNum)}
	}
	floor, err := parsePositiveInt(rec.Floor)
	if err != nil {
		return nil, &SkipError{Reason: fmt.Sprintf("invalid floor %q", rec.Floor)}
	}

	moveIn, err := parseDate(rec.MoveInDate)
	if err != nil {
		return nil, &SkipError{Reason: fmt.Sprintf("invalid move-in date %q", rec.MoveInDate)}
	}

	return &Intent{
		FirstName:     rec.FirstName,
		LastName:      rec.LastName,
		Phone:         rec.Phone,
		Microdistrict: rec.Microdistrict,
		HouseNumber:   rec.HouseNumber,
		ApartmentNum:  apartmentNum,
		Floor:         floor,
		MoveInDate:    moveIn,
	}, nil
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("not positive: %d", n)
	}
	return n, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}
