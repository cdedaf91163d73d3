package mcp

// filterProperties is the shared schema fragment for the filter arguments
// every query tool accepts. All criteria are optional and combine with AND.
var filterProperties = map[string]interface{}{
	"tematica": map[string]interface{}{
		"type":        "string",
		"description": "Exact thematic area, e.g. 'Hidrología'",
	},
	"estado": map[string]interface{}{
		"type":        "string",
		"description": "Exact review state, e.g. 'En elaboración'",
	},
	"semana": map[string]interface{}{
		"type":        "string",
		"description": "Report week number; '3' and '03' are equivalent",
	},
	"fecha": map[string]interface{}{
		"type":        "string",
		"description": "Exact report date, e.g. '09-01-2026'",
	},
	"item": map[string]interface{}{
		"type":        "string",
		"description": "Exact item identifier, e.g. '3.2'",
	},
	"persona": map[string]interface{}{
		"type":        "string",
		"description": "Person name, matched against both Elaborador and Revisor",
	},
	"origen": map[string]interface{}{
		"type":        "string",
		"description": "Exact subcontract name",
	},
}

func (s *Server) listTools() interface{} {
	return map[string]interface{}{
		"tools": []interface{}{
			map[string]interface{}{
				"name":        "status_kpis",
				"description": "Headline indicators over the current (deduplicated) records: totals, overdue, due within a week, in-progress and incorporation percentage.",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": filterProperties,
				},
			},
			map[string]interface{}{
				"name":        "status_distribution",
				"description": "Count of current records per review state, every known state present even when zero.",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": filterProperties,
				},
			},
			map[string]interface{}{
				"name":        "schedule_compliance",
				"description": "Delivery-versus-control-date buckets: per-state counts of in-flight records falling due at each control date of the schedule.",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": filterProperties,
				},
			},
			map[string]interface{}{
				"name":        "evolution_series",
				"description": "Per-report-date progression of totals, incorporated, in-editorial and in-process counts across all ingested reports.",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": filterProperties,
				},
			},
			map[string]interface{}{
				"name":        "subcontract_rollup",
				"description": "Current records grouped by subcontract with per-group indicators; records without one fall under '(Sin subcontrato)'.",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": filterProperties,
				},
			},
			map[string]interface{}{
				"name":        "current_records",
				"description": "The consolidated current record list after correlation, filtering and deduplication.",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": filterProperties,
				},
			},
			map[string]interface{}{
				"name":        "ingest_report",
				"description": "Validate and ingest a weekly report snapshot given as a JSON document. Refuses a snapshot whose date and week already exist unless replace is true.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"report": map[string]interface{}{
							"type":        "string",
							"description": "The report document as a JSON string",
						},
						"replace": map[string]interface{}{
							"type":        "boolean",
							"description": "Overwrite an existing snapshot with the same date and week",
						},
					},
					"required": []string{"report"},
				},
			},
			map[string]interface{}{
				"name":        "refresh_remote",
				"description": "Re-fetch the baseline and all report files from the configured remote source, replacing the in-memory state.",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{},
				},
			},
		},
	}
}
