// Package track implements the correlation, filtering, deduplication and
// aggregation engine for the question-tracking dataset: an immutable baseline
// of reviewable items joined against a growing series of weekly report
// snapshots.
package track

// Estado is the workflow state of an item. Closed enumeration.
type Estado string

const (
	EstadoElaboracion      Estado = "En elaboración"
	EstadoCartografia      Estado = "En cartografía"
	EstadoRevisorTecnico   Estado = "En revisor técnico"
	EstadoCoordinador      Estado = "En coordinador"
	EstadoEditorial        Estado = "En editorial"
	EstadoIncorporada      Estado = "Incorporada"
	EstadoSubcontrato      Estado = "Subcontrato"
	EstadoPendiente        Estado = "Pendiente"
	EstadoConObservaciones Estado = "Con observaciones"
)

// EstadoOrder is the single source of truth for display and aggregation
// order of the workflow states. Wherever ordering matters it is consumed
// from here, never from an incidental literal.
var EstadoOrder = []Estado{
	EstadoPendiente,
	EstadoElaboracion,
	EstadoCartografia,
	EstadoRevisorTecnico,
	EstadoCoordinador,
	EstadoConObservaciones,
	EstadoSubcontrato,
	EstadoEditorial,
	EstadoIncorporada,
}

// BaselineItem is one reviewable question from the immutable baseline.
// Correlativo is its identity across the baseline and every report.
type BaselineItem struct {
	Correlativo     int    `json:"Correlativo"`
	Item            string `json:"Item,omitempty"`
	Pregunta        string `json:"Pregunta,omitempty"`
	TematicaGeneral string `json:"TematicaGeneral,omitempty"`
	Tematica        string `json:"Tematica,omitempty"`
	Componente      string `json:"Componente,omitempty"`
	Subcontrato     string `json:"Subcontrato,omitempty"`
}

// RegistroDelta is one partial state update inside a report snapshot.
// The Correlativo/id key fallback is resolved once at ingestion, so by the
// time a delta reaches the engine Correlativo is always populated.
type RegistroDelta struct {
	Correlativo  int    `json:"Correlativo"`
	Estado       Estado `json:"Estado,omitempty"`
	Elaborador   string `json:"Elaborador,omitempty"`
	Revisor      string `json:"Revisor,omitempty"`
	Coordinador  string `json:"Coordinador,omitempty"`
	FechaEntrega string `json:"FechaEntrega,omitempty"`
	Tematica     string `json:"Tematica,omitempty"`
	Item         string `json:"Item,omitempty"`
}

// ReportSnapshot is one periodic capture of item states. Its identity is
// the (FechaReporte, SemanaReporte) pair.
type ReportSnapshot struct {
	FechaReporte  string          `json:"FechaReporte"`
	SemanaReporte int             `json:"SemanaReporte"`
	Registros     []RegistroDelta `json:"Registros"`
}

// SameIdentity reports whether two snapshots share the composite identity.
func (s ReportSnapshot) SameIdentity(o ReportSnapshot) bool {
	return s.FechaReporte == o.FechaReporte && s.SemanaReporte == o.SemanaReporte
}

// CorrelatedRecord is the derived join of a BaselineItem with one
// RegistroDelta, stamped with the owning snapshot's date and week. One item
// yields one record per snapshot that mentions it; the full set is the
// historical view, the deduplicated set the current view.
type CorrelatedRecord struct {
	Correlativo     int    `json:"Correlativo"`
	Item            string `json:"Item,omitempty"`
	Pregunta        string `json:"Pregunta,omitempty"`
	TematicaGeneral string `json:"TematicaGeneral,omitempty"`
	Tematica        string `json:"Tematica,omitempty"`
	Componente      string `json:"Componente,omitempty"`
	Subcontrato     string `json:"Subcontrato,omitempty"`

	Estado       Estado `json:"Estado,omitempty"`
	Elaborador   string `json:"Elaborador,omitempty"`
	Revisor      string `json:"Revisor,omitempty"`
	Coordinador  string `json:"Coordinador,omitempty"`
	FechaEntrega string `json:"FechaEntrega,omitempty"`

	FechaReporte  string `json:"FechaReporte"`
	SemanaReporte int    `json:"SemanaReporte"`
}

// FilterCriteria is the compound AND-combined predicate over correlated
// records. An empty string leaves that field unconstrained. Persona matches
// either Elaborador or Revisor; Origen matches Subcontrato.
type FilterCriteria struct {
	Semana   string `json:"semana,omitempty"`
	Fecha    string `json:"fecha,omitempty"`
	Tematica string `json:"tematica,omitempty"`
	Item     string `json:"item,omitempty"`
	Persona  string `json:"persona,omitempty"`
	Estado   string `json:"estado,omitempty"`
	Origen   string `json:"origen,omitempty"`
}

// IsEmpty reports whether no criterion is active.
func (c FilterCriteria) IsEmpty() bool {
	return c == FilterCriteria{}
}
