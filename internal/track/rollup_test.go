package track

import (
	"reflect"
	"testing"
	"time"
)

func TestRollupBySubcontract(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.Local)
	records := []CorrelatedRecord{
		{Correlativo: 1, Subcontrato: "Sub Norte", Estado: EstadoElaboracion, FechaEntrega: "05-01-2026", Elaborador: "MP", Revisor: "JL", Tematica: "Hidrología"},
		{Correlativo: 2, Subcontrato: "Sub Norte", Estado: EstadoIncorporada, Elaborador: "CG", Revisor: "JL", Tematica: "Flora"},
		{Correlativo: 3, Subcontrato: "Sub Sur", Estado: EstadoPendiente},
		{Correlativo: 4, Estado: EstadoElaboracion, FechaEntrega: "01-03-2026", Elaborador: "MP"},
	}

	groups := RollupBySubcontract(records, now)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	// Sorted by name, unassigned group last.
	var names []string
	for _, g := range groups {
		names = append(names, g.Subcontrato)
	}
	want := []string{"Sub Norte", "Sub Sur", SinSubcontrato}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("group order = %v, want %v", names, want)
	}

	norte := groups[0]
	if norte.Total != 2 {
		t.Errorf("Sub Norte total = %d, want 2", norte.Total)
	}
	if norte.Atrasos != 1 {
		t.Errorf("Sub Norte atrasos = %d, want 1 (overdue elaboración)", norte.Atrasos)
	}
	if norte.PerState[EstadoElaboracion] != 1 || norte.PerState[EstadoIncorporada] != 1 {
		t.Errorf("Sub Norte per-state = %v", norte.PerState)
	}
	if !reflect.DeepEqual(norte.Elaboradores, []string{"CG", "MP"}) {
		t.Errorf("Sub Norte elaboradores = %v, want sorted distinct [CG MP]", norte.Elaboradores)
	}
	if !reflect.DeepEqual(norte.Revisores, []string{"JL"}) {
		t.Errorf("Sub Norte revisores = %v, want [JL]", norte.Revisores)
	}
	if !reflect.DeepEqual(norte.Tematicas, []string{"Flora", "Hidrología"}) {
		t.Errorf("Sub Norte tematicas = %v", norte.Tematicas)
	}

	unassigned := groups[2]
	if unassigned.Total != 1 || unassigned.Atrasos != 0 {
		t.Errorf("unassigned group = %+v", unassigned)
	}
}

func TestRollupBySubcontractEmpty(t *testing.T) {
	if groups := RollupBySubcontract(nil, time.Now()); len(groups) != 0 {
		t.Errorf("expected no groups, got %d", len(groups))
	}
}
