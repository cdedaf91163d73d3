package track

import "testing"

func mustSchedule(t *testing.T, raw ...string) []ControlDate {
	t.Helper()
	control, err := NewScheduleConfig(raw)
	if err != nil {
		t.Fatalf("NewScheduleConfig(%v): %v", raw, err)
	}
	return control
}

func TestNewScheduleConfig(t *testing.T) {
	control := mustSchedule(t, "10-01-2026", "20-01-2026")
	if control[0].Key != "2026-01-10" || control[0].Label != "10-01-26" {
		t.Errorf("unexpected normalization: %+v", control[0])
	}
	if control[1].Key != "2026-01-20" {
		t.Errorf("unexpected second key: %+v", control[1])
	}

	if _, err := NewScheduleConfig([]string{"10-01-2026", "no es fecha"}); err == nil {
		t.Error("expected error for unparseable control date")
	}
}

func TestScheduleBucketsFirstFitAndSpill(t *testing.T) {
	control := mustSchedule(t, "10-01-2026", "20-01-2026")
	records := []CorrelatedRecord{
		{Correlativo: 1, Estado: EstadoElaboracion, FechaEntrega: "15-01-2026"}, // first control >= entrega is the second
		{Correlativo: 2, Estado: EstadoElaboracion, FechaEntrega: "25-01-2026"}, // past every checkpoint: spills into the last
		{Correlativo: 3, Estado: EstadoCartografia, FechaEntrega: "05-01-2026"}, // first bucket
		{Correlativo: 4, Estado: EstadoEditorial, FechaEntrega: "10-01-2026"},   // exactly on the checkpoint
	}

	rows := ScheduleBuckets(records, control)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Total != 2 {
		t.Errorf("bucket %s total = %d, want 2", rows[0].Label, rows[0].Total)
	}
	if rows[1].Total != 2 {
		t.Errorf("bucket %s total = %d, want 2", rows[1].Label, rows[1].Total)
	}
	if rows[0].PerState[EstadoCartografia] != 1 || rows[0].PerState[EstadoEditorial] != 1 {
		t.Errorf("first bucket per-state counts wrong: %v", rows[0].PerState)
	}
	if rows[1].PerState[EstadoElaboracion] != 2 {
		t.Errorf("second bucket per-state counts wrong: %v", rows[1].PerState)
	}
}

func TestScheduleBucketsPreconditions(t *testing.T) {
	control := mustSchedule(t, "10-01-2026", "20-01-2026")
	records := []CorrelatedRecord{
		{Correlativo: 1, Estado: EstadoIncorporada, FechaEntrega: "05-01-2026"},  // non-programmable state
		{Correlativo: 2, Estado: EstadoPendiente, FechaEntrega: "05-01-2026"},    // non-programmable state
		{Correlativo: 3, Estado: EstadoElaboracion, FechaEntrega: "por definir"}, // unparseable due date
		{Correlativo: 4, Estado: EstadoRevisorTecnico, FechaEntrega: "05-01-2026"},
	}

	rows := ScheduleBuckets(records, control)
	total := 0
	for _, row := range rows {
		total += row.Total
	}
	if total != 1 {
		t.Errorf("only 1 record qualifies, bucketed %d", total)
	}
}

func TestScheduleBucketsCoverage(t *testing.T) {
	// Every qualifying record lands in exactly one bucket; bucket totals sum
	// to the qualifying count.
	control := mustSchedule(t, "10-01-2026", "17-01-2026", "24-01-2026")
	records := []CorrelatedRecord{
		{Correlativo: 1, Estado: EstadoElaboracion, FechaEntrega: "01-01-2026"},
		{Correlativo: 2, Estado: EstadoCartografia, FechaEntrega: "12-01-2026"},
		{Correlativo: 3, Estado: EstadoRevisorTecnico, FechaEntrega: "17-01-2026"},
		{Correlativo: 4, Estado: EstadoEditorial, FechaEntrega: "23-01-2026"},
		{Correlativo: 5, Estado: EstadoElaboracion, FechaEntrega: "28-02-2026"},
	}

	rows := ScheduleBuckets(records, control)
	sum := 0
	for _, row := range rows {
		sum += row.Total
	}
	if sum != len(records) {
		t.Errorf("bucket totals sum to %d, want %d", sum, len(records))
	}
}

func TestScheduleBucketsEmptyBucketsEmitted(t *testing.T) {
	control := mustSchedule(t, "10-01-2026", "17-01-2026", "24-01-2026")
	rows := ScheduleBuckets(nil, control)
	if len(rows) != 3 {
		t.Fatalf("every configured control date must appear, got %d rows", len(rows))
	}
	for _, row := range rows {
		if row.Total != 0 || row.PerState == nil {
			t.Errorf("empty bucket %s should have zero total and an initialized map", row.Label)
		}
	}
}
