package store

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"seguimiento/internal/track"
)

// InitDB opens (creating if needed) the sqlite database that keeps ingested
// baseline and report data across runs.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS baseline_items (
		correlativo      INTEGER PRIMARY KEY,
		item             TEXT DEFAULT '',
		pregunta         TEXT DEFAULT '',
		tematica_general TEXT DEFAULT '',
		tematica         TEXT DEFAULT '',
		componente       TEXT DEFAULT '',
		subcontrato      TEXT DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS report_snapshots (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		fecha_reporte  TEXT NOT NULL,
		semana_reporte INTEGER NOT NULL,
		created_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(fecha_reporte, semana_reporte)
	);

	CREATE TABLE IF NOT EXISTS report_registros (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		snapshot_id   INTEGER NOT NULL REFERENCES report_snapshots(id) ON DELETE CASCADE,
		posicion      INTEGER NOT NULL,
		correlativo   INTEGER NOT NULL,
		estado        TEXT DEFAULT '',
		elaborador    TEXT DEFAULT '',
		revisor       TEXT DEFAULT '',
		coordinador   TEXT DEFAULT '',
		fecha_entrega TEXT DEFAULT '',
		tematica      TEXT DEFAULT '',
		item          TEXT DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_registros_snapshot ON report_registros(snapshot_id, posicion);
	`
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	if _, err = db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// SaveBaseline replaces the persisted baseline wholesale inside one
// transaction.
func SaveBaseline(db *sql.DB, items []track.BaselineItem) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM baseline_items`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO baseline_items (correlativo, item, pregunta, tematica_general, tematica, componente, subcontrato)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.Exec(
			item.Correlativo, item.Item, item.Pregunta, item.TematicaGeneral,
			item.Tematica, item.Componente, item.Subcontrato,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadBaseline reads the persisted baseline.
func LoadBaseline(db *sql.DB) ([]track.BaselineItem, error) {
	rows, err := db.Query(
		`SELECT correlativo, item, pregunta, tematica_general, tematica, componente, subcontrato
		 FROM baseline_items ORDER BY correlativo`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []track.BaselineItem
	for rows.Next() {
		var item track.BaselineItem
		if err := rows.Scan(
			&item.Correlativo, &item.Item, &item.Pregunta, &item.TematicaGeneral,
			&item.Tematica, &item.Componente, &item.Subcontrato,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SaveSnapshot persists a snapshot, replacing any existing snapshot with
// the same (fecha, semana) identity in the same transaction.
func SaveSnapshot(db *sql.DB, snap track.ReportSnapshot) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var oldID int64
	err = tx.QueryRow(
		`SELECT id FROM report_snapshots WHERE fecha_reporte = ? AND semana_reporte = ?`,
		snap.FechaReporte, snap.SemanaReporte,
	).Scan(&oldID)
	switch err {
	case nil:
		if _, err := tx.Exec(`DELETE FROM report_registros WHERE snapshot_id = ?`, oldID); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM report_snapshots WHERE id = ?`, oldID); err != nil {
			return err
		}
	case sql.ErrNoRows:
	default:
		return err
	}

	res, err := tx.Exec(
		`INSERT INTO report_snapshots (fecha_reporte, semana_reporte) VALUES (?, ?)`,
		snap.FechaReporte, snap.SemanaReporte,
	)
	if err != nil {
		return err
	}
	snapID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO report_registros
		 (snapshot_id, posicion, correlativo, estado, elaborador, revisor, coordinador, fecha_entrega, tematica, item)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for pos, reg := range snap.Registros {
		if _, err := stmt.Exec(
			snapID, pos, reg.Correlativo, string(reg.Estado), reg.Elaborador,
			reg.Revisor, reg.Coordinador, reg.FechaEntrega, reg.Tematica, reg.Item,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadSnapshots reads every persisted snapshot with its registros in their
// original order.
func LoadSnapshots(db *sql.DB) ([]track.ReportSnapshot, error) {
	rows, err := db.Query(`SELECT id, fecha_reporte, semana_reporte FROM report_snapshots ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type snapRow struct {
		id   int64
		snap track.ReportSnapshot
	}
	var snapRows []snapRow
	for rows.Next() {
		var r snapRow
		if err := rows.Scan(&r.id, &r.snap.FechaReporte, &r.snap.SemanaReporte); err != nil {
			return nil, err
		}
		snapRows = append(snapRows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []track.ReportSnapshot
	for _, r := range snapRows {
		regRows, err := db.Query(
			`SELECT correlativo, estado, elaborador, revisor, coordinador, fecha_entrega, tematica, item
			 FROM report_registros WHERE snapshot_id = ? ORDER BY posicion`,
			r.id,
		)
		if err != nil {
			return nil, err
		}
		for regRows.Next() {
			var reg track.RegistroDelta
			var estado string
			if err := regRows.Scan(
				&reg.Correlativo, &estado, &reg.Elaborador, &reg.Revisor,
				&reg.Coordinador, &reg.FechaEntrega, &reg.Tematica, &reg.Item,
			); err != nil {
				regRows.Close()
				return nil, err
			}
			reg.Estado = track.Estado(estado)
			r.snap.Registros = append(r.snap.Registros, reg)
		}
		if err := regRows.Err(); err != nil {
			regRows.Close()
			return nil, err
		}
		regRows.Close()
		out = append(out, r.snap)
	}
	return out, nil
}
