package track

import "strconv"

// ApplyFilters narrows records to those matching every active criterion.
// An empty criteria value imposes no constraint, so the zero FilterCriteria
// is the identity transform. Semana tolerates numeric-string vs number
// mismatches between sources by comparing parsed integers; Persona matches
// Elaborador OR Revisor; everything else is exact equality.
func ApplyFilters(records []CorrelatedRecord, criteria FilterCriteria) []CorrelatedRecord {
	if criteria.IsEmpty() {
		return records
	}

	semana, semanaActive := 0, false
	if criteria.Semana != "" {
		n, err := strconv.Atoi(criteria.Semana)
		if err != nil {
			// An unparseable week matches nothing rather than everything.
			return nil
		}
		semana, semanaActive = n, true
	}

	out := make([]CorrelatedRecord, 0, len(records))
	for _, rec := range records {
		if semanaActive && rec.SemanaReporte != semana {
			continue
		}
		if criteria.Fecha != "" && rec.FechaReporte != criteria.Fecha {
			continue
		}
		if criteria.Tematica != "" && rec.Tematica != criteria.Tematica {
			continue
		}
		if criteria.Item != "" && rec.Item != criteria.Item {
			continue
		}
		if criteria.Persona != "" && rec.Elaborador != criteria.Persona && rec.Revisor != criteria.Persona {
			continue
		}
		if criteria.Estado != "" && string(rec.Estado) != criteria.Estado {
			continue
		}
		if criteria.Origen != "" && rec.Subcontrato != criteria.Origen {
			continue
		}
		out = append(out, rec)
	}
	return out
}
