package track

import "seguimiento/internal/dates"

// DeduplicateByItem collapses the historical record set to one current
// record per Correlativo by temporal precedence.
//
// Priority of a record: the instant of its parsed FechaReporte in
// milliseconds; failing that, its SemanaReporte; failing that, zero. While
// scanning in input order, a record with priority greater than OR EQUAL to
// the retained one replaces it, so among indistinguishable records the
// last-encountered wins. Callers must therefore feed records in the order
// they want "last wins" to apply; Correlate's output order (chronological
// report order) satisfies this.
//
// Output preserves the insertion order of first-seen keys; consumers
// needing a sort apply their own.
func DeduplicateByItem(records []CorrelatedRecord) []CorrelatedRecord {
	retained := make(map[int]int, len(records)) // key -> index into out
	priorities := make(map[int]int64, len(records))
	var out []CorrelatedRecord

	for _, rec := range records {
		prio := temporalPriority(rec)
		idx, seen := retained[rec.Correlativo]
		if !seen {
			retained[rec.Correlativo] = len(out)
			priorities[rec.Correlativo] = prio
			out = append(out, rec)
			continue
		}
		if prio >= priorities[rec.Correlativo] {
			out[idx] = rec
			priorities[rec.Correlativo] = prio
		}
	}
	return out
}

func temporalPriority(rec CorrelatedRecord) int64 {
	if t, ok := dates.ParseFlexible(rec.FechaReporte); ok {
		return t.UnixMilli()
	}
	if rec.SemanaReporte != 0 {
		return int64(rec.SemanaReporte)
	}
	return 0
}
