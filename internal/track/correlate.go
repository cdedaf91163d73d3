package track

// Correlate joins the baseline against every delta of every report,
// producing one record per item per report that mentions it.
//
// The output order is load-bearing: records are grouped by report input
// order, then by delta order within each report. DeduplicateByItem's
// last-wins tie-break relies on callers feeding reports chronologically,
// and this ordering preserves that discipline.
//
// Deltas whose Correlativo has no baseline entry are excluded from the
// output; their keys are returned in dropped (in encounter order, with
// repeats) so callers can surface possible data-entry mistakes without
// changing the result set. Correlate is a pure function of its inputs.
func Correlate(baseline []BaselineItem, reports []ReportSnapshot) (records []CorrelatedRecord, dropped []int) {
	byCorrelativo := make(map[int]BaselineItem, len(baseline))
	for _, item := range baseline {
		byCorrelativo[item.Correlativo] = item
	}

	for _, report := range reports {
		for _, delta := range report.Registros {
			base, ok := byCorrelativo[delta.Correlativo]
			if !ok {
				dropped = append(dropped, delta.Correlativo)
				continue
			}
			records = append(records, merge(base, delta, report))
		}
	}
	return records, dropped
}

// merge overlays delta fields onto the baseline fields, then stamps the
// owning report's date and week last so a delta cannot forge them.
func merge(base BaselineItem, delta RegistroDelta, report ReportSnapshot) CorrelatedRecord {
	rec := CorrelatedRecord{
		Correlativo:     base.Correlativo,
		Item:            base.Item,
		Pregunta:        base.Pregunta,
		TematicaGeneral: base.TematicaGeneral,
		Tematica:        base.Tematica,
		Componente:      base.Componente,
		Subcontrato:     base.Subcontrato,

		Estado:       delta.Estado,
		Elaborador:   delta.Elaborador,
		Revisor:      delta.Revisor,
		Coordinador:  delta.Coordinador,
		FechaEntrega: delta.FechaEntrega,
	}

	// Optional echo fields override the baseline only when present.
	if delta.Tematica != "" {
		rec.Tematica = delta.Tematica
	}
	if delta.Item != "" {
		rec.Item = delta.Item
	}

	rec.FechaReporte = report.FechaReporte
	rec.SemanaReporte = report.SemanaReporte
	return rec
}
