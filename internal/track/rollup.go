package track

import (
	"sort"
	"time"

	"seguimiento/internal/dates"
)

// SinSubcontrato labels the rollup group of items with no assigned
// subcontractor.
const SinSubcontrato = "(Sin subcontrato)"

// SubcontractGroup is the per-subcontractor rollup over the current record
// set. The distinct name lists are display metadata only.
type SubcontractGroup struct {
	Subcontrato  string         `json:"subcontrato"`
	Total        int            `json:"total"`
	PerState     map[Estado]int `json:"perState"`
	Atrasos      int            `json:"atrasos"`
	Elaboradores []string       `json:"elaboradores,omitempty"`
	Revisores    []string       `json:"revisores,omitempty"`
	Tematicas    []string       `json:"tematicas,omitempty"`
}

// RollupBySubcontract groups the current record set by subcontractor. The
// delay rule is the same as the KPI atrasos counter. Groups are returned
// sorted by name with the unassigned group last.
func RollupBySubcontract(records []CorrelatedRecord, now time.Time) []SubcontractGroup {
	type accum struct {
		group        *SubcontractGroup
		elaboradores map[string]bool
		revisores    map[string]bool
		tematicas    map[string]bool
	}

	groups := make(map[string]*accum)
	today := dates.Truncate(now)

	for _, rec := range records {
		name := rec.Subcontrato
		if name == "" {
			name = SinSubcontrato
		}

		acc, ok := groups[name]
		if !ok {
			acc = &accum{
				group:        &SubcontractGroup{Subcontrato: name, PerState: make(map[Estado]int)},
				elaboradores: make(map[string]bool),
				revisores:    make(map[string]bool),
				tematicas:    make(map[string]bool),
			}
			groups[name] = acc
		}

		acc.group.Total++
		acc.group.PerState[rec.Estado]++
		if rec.Estado == EstadoElaboracion {
			if entrega, parsed := dates.ParseFlexible(rec.FechaEntrega); parsed && dates.Truncate(entrega).Before(today) {
				acc.group.Atrasos++
			}
		}
		if rec.Elaborador != "" {
			acc.elaboradores[rec.Elaborador] = true
		}
		if rec.Revisor != "" {
			acc.revisores[rec.Revisor] = true
		}
		if rec.Tematica != "" {
			acc.tematicas[rec.Tematica] = true
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if (names[i] == SinSubcontrato) != (names[j] == SinSubcontrato) {
			return names[j] == SinSubcontrato
		}
		return names[i] < names[j]
	})

	out := make([]SubcontractGroup, 0, len(names))
	for _, name := range names {
		acc := groups[name]
		acc.group.Elaboradores = sortedKeys(acc.elaboradores)
		acc.group.Revisores = sortedKeys(acc.revisores)
		acc.group.Tematicas = sortedKeys(acc.tematicas)
		out = append(out, *acc.group)
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
