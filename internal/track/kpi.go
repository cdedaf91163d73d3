package track

import (
	"math"
	"time"

	"seguimiento/internal/dates"
)

// KPIs are the headline counters computed over the current (filtered and
// deduplicated) record set.
type KPIs struct {
	Total                  int     `json:"total"`
	Incorporadas           int     `json:"incorporadas"`
	Atrasos                int     `json:"atrasos"`
	PorVencer              int     `json:"porVencer"`
	EnProceso              int     `json:"enProceso"`
	EnTrabajo              int     `json:"enTrabajo"`
	EnEditorial            int     `json:"enEditorial"`
	PorcentajeIncorporadas float64 `json:"porcentajeIncorporadas"`
}

// ComputeKPIs evaluates the counters against the given evaluation instant.
// Records with an unparseable FechaEntrega simply drop out of the
// date-dependent counters; nothing fails the whole computation.
func ComputeKPIs(records []CorrelatedRecord, now time.Time) KPIs {
	var k KPIs
	k.Total = len(records)

	for _, rec := range records {
		entrega, entregaOK := dates.ParseFlexible(rec.FechaEntrega)

		if rec.Estado == EstadoIncorporada {
			k.Incorporadas++
		}
		if rec.Estado == EstadoEditorial {
			k.EnEditorial++
		}
		if rec.Estado == EstadoElaboracion && entregaOK && dates.Truncate(entrega).Before(dates.Truncate(now)) {
			k.Atrasos++
		}
		if rec.Estado != EstadoIncorporada && rec.Estado != EstadoEditorial && entregaOK {
			if d := dates.DaysUntil(now, entrega); d >= 0 && d <= 7 {
				k.PorVencer++
			}
		}
		if rec.Estado != EstadoIncorporada && rec.Estado != EstadoPendiente {
			k.EnProceso++
		}
		switch rec.Estado {
		case EstadoElaboracion, EstadoEditorial, EstadoIncorporada, EstadoPendiente:
		default:
			k.EnTrabajo++
		}
	}

	if k.Total > 0 {
		k.PorcentajeIncorporadas = math.Round(float64(k.Incorporadas)/float64(k.Total)*1000) / 10
	}
	return k
}

// DistributionByState counts records per workflow state. Every state of the
// closed enumeration is present in the map, zero counts included; whether to
// hide empty rows is a rendering convention, not an engine one.
func DistributionByState(records []CorrelatedRecord) map[Estado]int {
	dist := make(map[Estado]int, len(EstadoOrder))
	for _, estado := range EstadoOrder {
		dist[estado] = 0
	}
	for _, rec := range records {
		if _, known := dist[rec.Estado]; known {
			dist[rec.Estado]++
		}
	}
	return dist
}
