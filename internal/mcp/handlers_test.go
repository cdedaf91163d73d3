package mcp

import (
	"testing"

	"seguimiento/internal/config"
	"seguimiento/internal/store"
	"seguimiento/internal/track"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	control, err := track.NewScheduleConfig([]string{"16-01-2026", "30-01-2026"})
	if err != nil {
		t.Fatalf("NewScheduleConfig() error = %v", err)
	}

	st := store.New()
	st.SetBaseline([]track.BaselineItem{
		{Correlativo: 1, Pregunta: "Caudales", Tematica: "Hidrología", Item: "3.2"},
		{Correlativo: 2, Pregunta: "Calicatas", Tematica: "Suelos", Item: "4.1", Subcontrato: "GeoAndes"},
		{Correlativo: 3, Pregunta: "Ruido basal", Tematica: "Ruido", Item: "5.3"},
	})

	if err := st.AppendSnapshot(track.ReportSnapshot{
		FechaReporte:  "09-01-2026",
		SemanaReporte: 2,
		Registros: []track.RegistroDelta{
			{Correlativo: 1, Estado: track.EstadoElaboracion, Elaborador: "P. Rojas", FechaEntrega: "12-01-2026"},
			{Correlativo: 2, Estado: track.EstadoRevisorTecnico, Revisor: "M. Silva", FechaEntrega: "28-01-2026"},
			{Correlativo: 3, Estado: track.EstadoElaboracion, FechaEntrega: "28-01-2026"},
		},
	}); err != nil {
		t.Fatalf("AppendSnapshot() error = %v", err)
	}
	if err := st.AppendSnapshot(track.ReportSnapshot{
		FechaReporte:  "16-01-2026",
		SemanaReporte: 3,
		Registros: []track.RegistroDelta{
			{Correlativo: 1, Estado: track.EstadoIncorporada, Elaborador: "P. Rojas", FechaEntrega: "12-01-2026"},
			{Correlativo: 2, Estado: track.EstadoEditorial, Revisor: "M. Silva", FechaEntrega: "28-01-2026"},
		},
	}); err != nil {
		t.Fatalf("AppendSnapshot() error = %v", err)
	}

	return NewServer(st, &config.AppConfig{Control: control}, nil)
}

func TestHandleCurrentRecords(t *testing.T) {
	s := newTestServer(t)

	data, err := s.handleCurrentRecords(map[string]interface{}{})
	if err != nil {
		t.Fatalf("handleCurrentRecords() error = %v", err)
	}
	result := data.(map[string]interface{})
	if result["total"] != 3 {
		t.Errorf("total = %v, want 3 (one current record per item)", result["total"])
	}

	records := result["registros"].([]track.CorrelatedRecord)
	for _, rec := range records {
		if rec.Correlativo == 1 && rec.Estado != track.EstadoIncorporada {
			t.Errorf("item 1 Estado = %q, want the latest report's state %q", rec.Estado, track.EstadoIncorporada)
		}
		if rec.Correlativo == 3 && rec.SemanaReporte != 2 {
			t.Errorf("item 3 SemanaReporte = %d, want 2 (absent from week 3)", rec.SemanaReporte)
		}
	}
}

func TestHandleCurrentRecordsFiltered(t *testing.T) {
	s := newTestServer(t)

	data, err := s.handleCurrentRecords(map[string]interface{}{"persona": "M. Silva"})
	if err != nil {
		t.Fatalf("handleCurrentRecords() error = %v", err)
	}
	result := data.(map[string]interface{})
	if result["total"] != 1 {
		t.Errorf("total = %v, want 1 record for M. Silva", result["total"])
	}
}

func TestHandleStatusDistributionOrder(t *testing.T) {
	s := newTestServer(t)

	data, err := s.handleStatusDistribution(map[string]interface{}{})
	if err != nil {
		t.Fatalf("handleStatusDistribution() error = %v", err)
	}
	rows := data.([]distributionRow)
	if len(rows) != len(track.EstadoOrder) {
		t.Fatalf("len(rows) = %d, want %d (every known state)", len(rows), len(track.EstadoOrder))
	}
	for i, estado := range track.EstadoOrder {
		if rows[i].Estado != string(estado) {
			t.Errorf("rows[%d].Estado = %q, want %q", i, rows[i].Estado, estado)
		}
	}

	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.Estado] = row.Cantidad
	}
	if counts[string(track.EstadoIncorporada)] != 1 {
		t.Errorf("Incorporada count = %d, want 1", counts[string(track.EstadoIncorporada)])
	}
	if counts[string(track.EstadoElaboracion)] != 1 {
		t.Errorf("En elaboración count = %d, want 1 (item 3 carried from week 2)", counts[string(track.EstadoElaboracion)])
	}
}

func TestHandleScheduleCompliance(t *testing.T) {
	s := newTestServer(t)

	data, err := s.handleScheduleCompliance(map[string]interface{}{})
	if err != nil {
		t.Fatalf("handleScheduleCompliance() error = %v", err)
	}
	rows := data.([]track.ScheduleBucketRow)
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want one row per control date", len(rows))
	}

	// Item 1 is incorporated and stays out; items 2 and 3 are in flight.
	total := 0
	for _, row := range rows {
		total += row.Total
	}
	if total != 2 {
		t.Errorf("sum of bucket totals = %d, want 2", total)
	}
	if rows[1].PerState[track.EstadoEditorial] != 1 {
		t.Errorf("second bucket En editorial = %d, want 1 (entrega 28-01)", rows[1].PerState[track.EstadoEditorial])
	}
}

func TestHandleScheduleComplianceNoControlDates(t *testing.T) {
	s := newTestServer(t)
	s.cfg = &config.AppConfig{}

	if _, err := s.handleScheduleCompliance(map[string]interface{}{}); err == nil {
		t.Error("handleScheduleCompliance() without control dates should return an error")
	}
}

func TestHandleEvolutionSeries(t *testing.T) {
	s := newTestServer(t)

	data, err := s.handleEvolutionSeries(map[string]interface{}{})
	if err != nil {
		t.Fatalf("handleEvolutionSeries() error = %v", err)
	}
	points := data.([]track.EvolutionPoint)
	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want one per report date", len(points))
	}
	if points[0].Total != 3 || points[1].Total != 2 {
		t.Errorf("totals = %d, %d, want 3 then 2", points[0].Total, points[1].Total)
	}
	if points[1].Incorporadas != 1 {
		t.Errorf("second point Incorporadas = %d, want 1", points[1].Incorporadas)
	}
}

func TestHandleIngestReport(t *testing.T) {
	s := newTestServer(t)

	report := `{"FechaReporte": "23-01-2026", "SemanaReporte": 4,
		"Registros": [{"Correlativo": 3, "Estado": "Incorporada"}]}`

	data, err := s.handleIngestReport(map[string]interface{}{"report": report})
	if err != nil {
		t.Fatalf("handleIngestReport() error = %v", err)
	}
	result := data.(map[string]interface{})
	if result["registros"] != 1 || result["semanaReporte"] != 4 {
		t.Errorf("result = %v, want 1 registro for semana 4", result)
	}
	if _, snapshots := s.store.Counts(); snapshots != 3 {
		t.Errorf("snapshot count = %d, want 3 after ingest", snapshots)
	}
}

func TestHandleIngestReportDuplicate(t *testing.T) {
	s := newTestServer(t)

	dup := `{"FechaReporte": "16-01-2026", "SemanaReporte": 3,
		"Registros": [{"Correlativo": 1, "Estado": "Incorporada"}]}`

	if _, err := s.handleIngestReport(map[string]interface{}{"report": dup}); err == nil {
		t.Fatal("ingesting a duplicate snapshot without replace should fail")
	}

	if _, err := s.handleIngestReport(map[string]interface{}{"report": dup, "replace": true}); err != nil {
		t.Fatalf("handleIngestReport() with replace = %v", err)
	}
	if _, snapshots := s.store.Counts(); snapshots != 2 {
		t.Errorf("snapshot count = %d, want 2 after replace", snapshots)
	}
}

func TestHandleIngestReportInvalid(t *testing.T) {
	s := newTestServer(t)

	if _, err := s.handleIngestReport(map[string]interface{}{"report": `{"Registros": []}`}); err == nil {
		t.Error("ingesting a structurally invalid report should fail")
	}
	if _, err := s.handleIngestReport(map[string]interface{}{}); err == nil {
		t.Error("ingesting without a report argument should fail")
	}
}

func TestHandleRefreshRemoteUnconfigured(t *testing.T) {
	s := newTestServer(t)

	if _, err := s.handleRefreshRemote(); err == nil {
		t.Error("handleRefreshRemote() without a remote source should fail")
	}
}

func TestCallToolUnknown(t *testing.T) {
	s := newTestServer(t)

	_, errRes := s.callTool([]byte(`{"name": "no_such_tool", "arguments": {}}`))
	if errRes == nil {
		t.Error("callTool() with an unknown tool should return a JSON-RPC error")
	}
}
