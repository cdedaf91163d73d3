// Package ingest parses and structurally validates baseline and report
// payloads before they are allowed into the stores. Everything the
// aggregation engine consumes has passed through here, which is why the
// engine itself never has to fail on malformed input.
package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"seguimiento/internal/track"
)

// ValidationError names every missing or invalid field of a rejected
// payload, so the boundary can show the user exactly what to fix.
type ValidationError struct {
	Payload string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s payload invalid: %s", e.Payload, strings.Join(e.Fields, "; "))
}

// flexInt accepts a JSON number or a numeric string, tolerating the mixed
// typing found across baseline and report sources.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return fmt.Errorf("null is not a number")
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return fmt.Errorf("empty value is not a number")
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

type rawBaselineItem struct {
	Correlativo     *flexInt `json:"Correlativo"`
	Item            string   `json:"Item"`
	Pregunta        string   `json:"Pregunta"`
	TematicaGeneral string   `json:"TematicaGeneral"`
	Tematica        string   `json:"Tematica"`
	Componente      string   `json:"Componente"`
	Subcontrato     string   `json:"Subcontrato"`
}

type rawRegistro struct {
	Correlativo  *flexInt `json:"Correlativo"`
	ID           *flexInt `json:"Id"`
	Estado       string   `json:"Estado"`
	Elaborador   string   `json:"Elaborador"`
	Revisor      string   `json:"Revisor"`
	Coordinador  string   `json:"Coordinador"`
	FechaEntrega string   `json:"FechaEntrega"`
	Tematica     string   `json:"Tematica"`
	Item         string   `json:"Item"`
}

type rawReport struct {
	FechaReporte  string            `json:"FechaReporte"`
	SemanaReporte *flexInt          `json:"SemanaReporte"`
	Registros     []json.RawMessage `json:"Registros"`
}

// ParseBaseline validates and converts a baseline payload. The payload must
// be a non-empty JSON array and every element must carry a Correlativo.
// Nothing is returned on error: ingestion is all-or-nothing.
func ParseBaseline(data []byte) ([]track.BaselineItem, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Payload: "baseline", Fields: []string{"not a JSON array"}}
	}
	if len(raw) == 0 {
		return nil, &ValidationError{Payload: "baseline", Fields: []string{"empty array"}}
	}

	items := make([]track.BaselineItem, 0, len(raw))
	var fields []string
	for i, msg := range raw {
		var item rawBaselineItem
		if err := json.Unmarshal(msg, &item); err != nil {
			fields = append(fields, fmt.Sprintf("element %d: not an object", i))
			continue
		}
		if item.Correlativo == nil {
			fields = append(fields, fmt.Sprintf("element %d: Correlativo", i))
			continue
		}
		items = append(items, track.BaselineItem{
			Correlativo:     int(*item.Correlativo),
			Item:            item.Item,
			Pregunta:        item.Pregunta,
			TematicaGeneral: item.TematicaGeneral,
			Tematica:        item.Tematica,
			Componente:      item.Componente,
			Subcontrato:     item.Subcontrato,
		})
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Payload: "baseline", Fields: fields}
	}
	return items, nil
}

// ReportResult carries a validated snapshot plus the count of registros that
// were dropped for lacking both Correlativo and Id (they could never join).
type ReportResult struct {
	Snapshot track.ReportSnapshot
	SinClave int
}

// ParseReport validates and converts a report payload. FechaReporte must be
// non-empty, SemanaReporte defined and non-null, Registros a non-empty
// array. The Correlativo/Id fallback of each registro is resolved here,
// once, so the engine only ever sees a populated Correlativo.
func ParseReport(data []byte) (ReportResult, error) {
	var raw rawReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return ReportResult{}, &ValidationError{Payload: "report", Fields: []string{"malformed JSON: " + err.Error()}}
	}

	var fields []string
	if strings.TrimSpace(raw.FechaReporte) == "" {
		fields = append(fields, "FechaReporte")
	}
	if raw.SemanaReporte == nil {
		fields = append(fields, "SemanaReporte")
	}
	if len(raw.Registros) == 0 {
		fields = append(fields, "Registros")
	}
	if len(fields) > 0 {
		return ReportResult{}, &ValidationError{Payload: "report", Fields: fields}
	}

	result := ReportResult{
		Snapshot: track.ReportSnapshot{
			FechaReporte:  strings.TrimSpace(raw.FechaReporte),
			SemanaReporte: int(*raw.SemanaReporte),
		},
	}
	for _, msg := range raw.Registros {
		var reg rawRegistro
		if err := json.Unmarshal(msg, &reg); err != nil {
			result.SinClave++
			continue
		}
		key := reg.Correlativo
		if key == nil {
			key = reg.ID
		}
		if key == nil {
			result.SinClave++
			continue
		}
		result.Snapshot.Registros = append(result.Snapshot.Registros, track.RegistroDelta{
			Correlativo:  int(*key),
			Estado:       track.Estado(strings.TrimSpace(reg.Estado)),
			Elaborador:   reg.Elaborador,
			Revisor:      reg.Revisor,
			Coordinador:  reg.Coordinador,
			FechaEntrega: reg.FechaEntrega,
			Tematica:     reg.Tematica,
			Item:         reg.Item,
		})
	}
	return result, nil
}
