package mcp

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"seguimiento/internal/fetch"
	"seguimiento/internal/ingest"
	"seguimiento/internal/store"
	"seguimiento/internal/track"
)

func criteriaFromArgs(args map[string]interface{}) track.FilterCriteria {
	return track.FilterCriteria{
		Semana:   asString(args["semana"]),
		Fecha:    asString(args["fecha"]),
		Tematica: asString(args["tematica"]),
		Item:     asString(args["item"]),
		Persona:  asString(args["persona"]),
		Estado:   asString(args["estado"]),
		Origen:   asString(args["origen"]),
	}
}

// currentRecords runs the full pipeline: correlate everything, filter, then
// keep one record per item. Join misses are logged, never surfaced as
// errors.
func (s *Server) currentRecords(criteria track.FilterCriteria) []track.CorrelatedRecord {
	records, dropped := track.Correlate(s.store.Baseline(), s.store.Snapshots())
	if len(dropped) > 0 {
		log.Debug().Ints("correlativos", dropped).Msg("Registros without a baseline match dropped")
	}
	return track.DeduplicateByItem(track.ApplyFilters(records, criteria))
}

// historicalRecords is the same pipeline without deduplication, for the
// report-by-report evolution view.
func (s *Server) historicalRecords(criteria track.FilterCriteria) []track.CorrelatedRecord {
	records, _ := track.Correlate(s.store.Baseline(), s.store.Snapshots())
	return track.ApplyFilters(records, criteria)
}

func (s *Server) handleStatusKPIs(args map[string]interface{}) (interface{}, error) {
	records := s.currentRecords(criteriaFromArgs(args))
	return track.ComputeKPIs(records, time.Now()), nil
}

// distributionRow keeps the state order stable in the output; a bare map
// would serialize alphabetically.
type distributionRow struct {
	Estado   string `json:"estado"`
	Cantidad int    `json:"cantidad"`
}

func (s *Server) handleStatusDistribution(args map[string]interface{}) (interface{}, error) {
	records := s.currentRecords(criteriaFromArgs(args))
	dist := track.DistributionByState(records)

	rows := make([]distributionRow, 0, len(track.EstadoOrder))
	for _, estado := range track.EstadoOrder {
		rows = append(rows, distributionRow{Estado: string(estado), Cantidad: dist[estado]})
	}
	return rows, nil
}

func (s *Server) handleScheduleCompliance(args map[string]interface{}) (interface{}, error) {
	if len(s.cfg.Control) == 0 {
		return nil, fmt.Errorf("no control dates configured")
	}
	records := s.currentRecords(criteriaFromArgs(args))
	return track.ScheduleBuckets(records, s.cfg.Control), nil
}

func (s *Server) handleEvolutionSeries(args map[string]interface{}) (interface{}, error) {
	records := s.historicalRecords(criteriaFromArgs(args))
	return track.EvolutionByReportDate(records), nil
}

func (s *Server) handleSubcontractRollup(args map[string]interface{}) (interface{}, error) {
	records := s.currentRecords(criteriaFromArgs(args))
	return track.RollupBySubcontract(records, time.Now()), nil
}

func (s *Server) handleCurrentRecords(args map[string]interface{}) (interface{}, error) {
	records := s.currentRecords(criteriaFromArgs(args))
	return map[string]interface{}{
		"total":     len(records),
		"registros": records,
	}, nil
}

func (s *Server) handleIngestReport(args map[string]interface{}) (interface{}, error) {
	payload := asString(args["report"])
	if payload == "" {
		return nil, fmt.Errorf("report argument is required")
	}
	replace, _ := args["replace"].(bool)

	parsed, err := ingest.ParseReport([]byte(payload))
	if err != nil {
		return nil, err
	}
	snap := parsed.Snapshot

	if s.store.HasSnapshot(snap.FechaReporte, snap.SemanaReporte) && !replace {
		return nil, fmt.Errorf("%w: %s semana %d (pass replace=true to overwrite)",
			store.ErrDuplicateSnapshot, snap.FechaReporte, snap.SemanaReporte)
	}
	if replace {
		s.store.ReplaceSnapshot(snap)
	} else if err := s.store.AppendSnapshot(snap); err != nil {
		return nil, err
	}

	if s.db != nil {
		if err := store.SaveSnapshot(s.db, snap); err != nil {
			log.Error().Err(err).Msg("Failed to persist snapshot")
		}
	}

	log.Info().Str("fecha", snap.FechaReporte).Int("semana", snap.SemanaReporte).
		Int("registros", len(snap.Registros)).Int("sinClave", parsed.SinClave).
		Msg("Report ingested")

	return map[string]interface{}{
		"fechaReporte":  snap.FechaReporte,
		"semanaReporte": snap.SemanaReporte,
		"registros":     len(snap.Registros),
		"sinClave":      parsed.SinClave,
		"replaced":      replace,
	}, nil
}

func (s *Server) handleRefreshRemote() (interface{}, error) {
	if !s.cfg.RemoteConfigured() {
		return nil, fmt.Errorf("no remote source configured")
	}

	result, err := fetch.Remote(fetch.Config{
		BaselineURL: s.cfg.BaselineURL,
		ReportsURL:  s.cfg.ReportsURL,
		Token:       s.cfg.GitHubToken,
	})
	if err != nil {
		return nil, err
	}

	s.store.SetBaseline(result.Baseline)
	for _, snap := range result.Snapshots {
		s.store.ReplaceSnapshot(snap)
	}

	if s.db != nil {
		if err := store.SaveBaseline(s.db, result.Baseline); err != nil {
			log.Error().Err(err).Msg("Failed to persist baseline")
		}
		for _, snap := range result.Snapshots {
			if err := store.SaveSnapshot(s.db, snap); err != nil {
				log.Error().Err(err).Str("fecha", snap.FechaReporte).Msg("Failed to persist snapshot")
			}
		}
	}

	baseline, snapshots := s.store.Counts()
	return map[string]interface{}{
		"baseline":  baseline,
		"snapshots": snapshots,
		"rejected":  result.Rejected,
	}, nil
}

func asString(v interface{}) string {
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	return s
}
