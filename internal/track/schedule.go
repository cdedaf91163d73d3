package track

import (
	"fmt"
	"time"

	"seguimiento/internal/dates"
)

// ControlDate is one fixed weekly checkpoint of the delivery schedule,
// normalized once at startup from its DD-MM-YYYY configuration form.
type ControlDate struct {
	Key   string    `json:"key"`   // canonical YYYY-MM-DD
	Label string    `json:"label"` // short DD-MM-YY display form
	Date  time.Time `json:"-"`
}

// NewScheduleConfig normalizes the ordered list of raw DD-MM-YYYY control
// dates. An unparseable entry is a configuration error, reported by value
// and position.
func NewScheduleConfig(raw []string) ([]ControlDate, error) {
	control := make([]ControlDate, 0, len(raw))
	for i, s := range raw {
		t, ok := dates.ParseFlexible(s)
		if !ok {
			return nil, fmt.Errorf("control date %d (%q) is not a valid date", i+1, s)
		}
		control = append(control, ControlDate{
			Key:   dates.CanonicalKey(t),
			Label: dates.ShortLabel(t),
			Date:  t,
		})
	}
	return control, nil
}

// ScheduleBucketRow is the per-checkpoint aggregation: state counts and a
// total for every record whose due date falls under that checkpoint.
type ScheduleBucketRow struct {
	Key      string         `json:"key"`
	Label    string         `json:"label"`
	PerState map[Estado]int `json:"perState"`
	Total    int            `json:"total"`
}

// programmable is the subset of states that participate in schedule
// compliance: an item already incorporated (or never started) has no
// checkpoint to answer to.
var programmable = map[Estado]bool{
	EstadoElaboracion:    true,
	EstadoRevisorTecnico: true,
	EstadoCartografia:    true,
	EstadoEditorial:      true,
}

// ScheduleBuckets assigns each programmable record with a parseable
// FechaEntrega to the first control date (ascending) on or after the due
// date; a due date past every checkpoint spills into the last one. Every
// configured control date is emitted, zero totals included, in control-date
// order.
func ScheduleBuckets(records []CorrelatedRecord, control []ControlDate) []ScheduleBucketRow {
	rows := make([]ScheduleBucketRow, len(control))
	for i, cd := range control {
		rows[i] = ScheduleBucketRow{
			Key:      cd.Key,
			Label:    cd.Label,
			PerState: make(map[Estado]int),
		}
	}
	if len(control) == 0 {
		return rows
	}

	for _, rec := range records {
		if !programmable[rec.Estado] {
			continue
		}
		entrega, ok := dates.ParseFlexible(rec.FechaEntrega)
		if !ok {
			continue
		}

		idx := len(control) - 1
		for i, cd := range control {
			if !entrega.After(cd.Date) {
				idx = i
				break
			}
		}
		rows[idx].PerState[rec.Estado]++
		rows[idx].Total++
	}
	return rows
}
