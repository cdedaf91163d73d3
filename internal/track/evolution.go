package track

import (
	"sort"

	"seguimiento/internal/dates"
)

// EvolutionPoint is one report-date bucket of the time series.
type EvolutionPoint struct {
	Fecha        string `json:"fecha"`
	Label        string `json:"label"`
	Total        int    `json:"total"`
	Incorporadas int    `json:"incorporadas"`
	EnEditorial  int    `json:"enEditorial"`
	EnProceso    int    `json:"enProceso"`
}

// EvolutionByReportDate groups the historical (NOT deduplicated) record set
// by report date. Each bucket is a point-in-time cross-section: an item that
// appears incorporated in five consecutive reports counts once in each of
// the five buckets. Output ascends by report date.
func EvolutionByReportDate(historical []CorrelatedRecord) []EvolutionPoint {
	byFecha := make(map[string]*EvolutionPoint)
	var order []string

	for _, rec := range historical {
		point, ok := byFecha[rec.FechaReporte]
		if !ok {
			label := rec.FechaReporte
			if t, parsed := dates.ParseFlexible(rec.FechaReporte); parsed {
				label = dates.ShortLabel(t)
			}
			point = &EvolutionPoint{Fecha: rec.FechaReporte, Label: label}
			byFecha[rec.FechaReporte] = point
			order = append(order, rec.FechaReporte)
		}

		point.Total++
		switch rec.Estado {
		case EstadoIncorporada:
			point.Incorporadas++
		case EstadoEditorial:
			point.EnEditorial++
		}
	}

	sort.Slice(order, func(i, j int) bool {
		return dates.Compare(order[i], order[j]) < 0
	})

	out := make([]EvolutionPoint, 0, len(order))
	for _, fecha := range order {
		point := byFecha[fecha]
		point.EnProceso = point.Total - point.Incorporadas - point.EnEditorial
		out = append(out, *point)
	}
	return out
}
