package track

import (
	"reflect"
	"testing"
)

func testBaseline() []BaselineItem {
	return []BaselineItem{
		{Correlativo: 1, Item: "A-1", Pregunta: "¿Pregunta uno?", Tematica: "Hidrología", Subcontrato: "Sub Norte"},
		{Correlativo: 2, Item: "A-2", Pregunta: "¿Pregunta dos?", Tematica: "Flora"},
		{Correlativo: 3, Item: "B-1", Pregunta: "¿Pregunta tres?", Tematica: "Ruido", Subcontrato: "Sub Sur"},
	}
}

func TestCorrelateJoinAndStamp(t *testing.T) {
	reports := []ReportSnapshot{
		{
			FechaReporte:  "01-01-2026",
			SemanaReporte: 1,
			Registros: []RegistroDelta{
				{Correlativo: 1, Estado: EstadoElaboracion, Elaborador: "MP", FechaEntrega: "01-01-2025"},
				{Correlativo: 2, Estado: EstadoPendiente},
			},
		},
	}

	records, dropped := Correlate(testBaseline(), reports)
	if len(dropped) != 0 {
		t.Fatalf("unexpected drops: %v", dropped)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 correlated records, got %d", len(records))
	}

	rec := records[0]
	if rec.Correlativo != 1 || rec.Pregunta != "¿Pregunta uno?" || rec.Subcontrato != "Sub Norte" {
		t.Errorf("baseline fields not carried: %+v", rec)
	}
	if rec.Estado != EstadoElaboracion || rec.Elaborador != "MP" || rec.FechaEntrega != "01-01-2025" {
		t.Errorf("delta fields not overlaid: %+v", rec)
	}
	if rec.FechaReporte != "01-01-2026" || rec.SemanaReporte != 1 {
		t.Errorf("snapshot stamp missing: %+v", rec)
	}
}

func TestCorrelateUnknownCorrelativoDropped(t *testing.T) {
	reports := []ReportSnapshot{
		{FechaReporte: "01-01-2026", SemanaReporte: 1, Registros: []RegistroDelta{
			{Correlativo: 99, Estado: EstadoIncorporada},
		}},
	}

	records, dropped := Correlate(testBaseline(), reports)
	if len(records) != 0 {
		t.Errorf("expected no records for unknown correlativo, got %d", len(records))
	}
	if !reflect.DeepEqual(dropped, []int{99}) {
		t.Errorf("dropped = %v, want [99]", dropped)
	}
}

func TestCorrelatePurity(t *testing.T) {
	reports := []ReportSnapshot{
		{FechaReporte: "01-01-2026", SemanaReporte: 1, Registros: []RegistroDelta{
			{Correlativo: 1, Estado: EstadoElaboracion},
			{Correlativo: 3, Estado: EstadoCartografia},
		}},
		{FechaReporte: "08-01-2026", SemanaReporte: 2, Registros: []RegistroDelta{
			{Correlativo: 1, Estado: EstadoIncorporada},
		}},
	}
	baseline := testBaseline()

	first, _ := Correlate(baseline, reports)
	second, _ := Correlate(baseline, reports)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Correlate is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestCorrelateOutputOrder(t *testing.T) {
	reports := []ReportSnapshot{
		{FechaReporte: "08-01-2026", SemanaReporte: 2, Registros: []RegistroDelta{
			{Correlativo: 2}, {Correlativo: 1},
		}},
		{FechaReporte: "01-01-2026", SemanaReporte: 1, Registros: []RegistroDelta{
			{Correlativo: 3},
		}},
	}

	records, _ := Correlate(testBaseline(), reports)
	var got []int
	for _, rec := range records {
		got = append(got, rec.Correlativo)
	}
	// Report input order, then delta order within each report.
	want := []int{2, 1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("output order = %v, want %v", got, want)
	}
}

func TestCorrelateDeltaCannotForgeReportStamp(t *testing.T) {
	// The stamp comes from the owning snapshot even when the delta echoes
	// topic/item fields of its own.
	reports := []ReportSnapshot{
		{FechaReporte: "01-01-2026", SemanaReporte: 1, Registros: []RegistroDelta{
			{Correlativo: 2, Tematica: "Fauna", Item: "A-2-bis"},
		}},
	}

	records, _ := Correlate(testBaseline(), reports)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Tematica != "Fauna" || rec.Item != "A-2-bis" {
		t.Errorf("echo fields should override baseline: %+v", rec)
	}
	if rec.FechaReporte != "01-01-2026" || rec.SemanaReporte != 1 {
		t.Errorf("report stamp must come from the snapshot: %+v", rec)
	}
}
