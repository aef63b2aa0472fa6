package regimport

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/residently/registry-backend/internal/registry"
)

type Status string

const (
	StatusInserted Status = "inserted"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// Outcome reports what happened to one data record. Record positions are
// 1-based and count data rows only (header and blank lines excluded).
type Outcome struct {
	Record int    `json:"record"`
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Summary is the result of one reconciliation run. On an aborted run it
// still carries every outcome produced before the abort — the entities those
// records created are live in the store, so the caller must refresh its view
// even when Run returned an error.
type Summary struct {
	RunID    string    `json:"run_id"`
	Inserted int       `json:"inserted"`
	Skipped  int       `json:"skipped"`
	Outcomes []Outcome `json:"outcomes"`
}

// RecordError wraps the store failure that terminated a run with the
// position of the record that hit it.
type RecordError struct {
	Record int
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Record, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Reconciler drives the resolver over an import stream, one record at a
// time, in order. Records see the hierarchy state left behind by earlier
// records in the same run; there is no cross-record rollback.
type Reconciler struct {
	store Gateway
}

func New(store Gateway) *Reconciler {
	return &Reconciler{store: store}
}

// Run reads the CSV stream and reconciles every data row. The first line is
// the header and is only used to sniff the delimiter (exports are
// semicolon-delimited, hand-made files usually comma). Parse problems skip
// the row and continue; the first store-level error stops the run cold and
// comes back as a *RecordError alongside the partial summary.
func (rc *Reconciler) Run(r io.Reader) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString()}
	resolver := &Resolver{store: rc.store}

	scanner := bufio.NewScanner(r)
	delim := ","
	header := true
	record := 0

	for scanner.Scan() {
		line := scanner.Text()

		if header {
			line = strings.TrimPrefix(line, "\uFEFF")
			if strings.Count(line, ";") > strings.Count(line, ",") {
				delim = ";"
			}
			header = false
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		record++

		intent, err := ParseRecord(SplitRow(line, delim))
		if err != nil {
			// Parse problems are always skips, never aborts.
			summary.Skipped++
			summary.Outcomes = append(summary.Outcomes, Outcome{
				Record: record,
				Status: StatusSkipped,
				Reason: err.Error(),
			})
			continue
		}

		apartmentID, err := resolver.ResolveApartment(intent)
		if err != nil {
			summary.Outcomes = append(summary.Outcomes, Outcome{
				Record: record,
				Status: StatusFailed,
				Reason: err.Error(),
			})
			return summary, &RecordError{Record: record, Err: err}
		}

		_, err = rc.store.InsertResident(apartmentID, registry.ResidentFields{
			FirstName:  intent.FirstName,
			LastName:   intent.LastName,
			Phone:      intent.Phone,
			MoveInDate: intent.MoveInDate,
		})
		if err != nil {
			summary.Outcomes = append(summary.Outcomes, Outcome{
				Record: record,
				Status: StatusFailed,
				Reason: err.Error(),
			})
			return summary, &RecordError{Record: record, Err: err}
		}

		summary.Inserted++
		summary.Outcomes = append(summary.Outcomes, Outcome{
			Record: record,
			Status: StatusInserted,
		})
	}

	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("read import stream: %w", err)
	}
	return summary, nil
}
