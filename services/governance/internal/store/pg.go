package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/domain"
)

// Postgres is the durable SessionStore. Schema:
//
//	sessions(session_id text primary key, current_state text,
//	         completed_stages int4[], approved_ai_stages int4[],
//	         attested_gates int4[], updated_at timestamptz)
//	audit_entries(session_id text, seq int, ts timestamptz, action text,
//	              stage_id int, stage_name text, detail text,
//	              primary key(session_id, seq))
type Postgres struct{ DB *pgxpool.Pool }

func NewPostgres(db *pgxpool.Pool) *Postgres { return &Postgres{DB: db} }

func (s *Postgres) Load(ctx context.Context, sessionID string) (domain.SessionState, error) {
	st := domain.SessionState{SessionID: sessionID}
	var completed, approved, attested []int32
	err := s.DB.QueryRow(ctx, `SELECT current_state,completed_stages,approved_ai_stages,attested_gates
FROM sessions WHERE session_id=$1`, sessionID).
		Scan(&st.CurrentState, &completed, &approved, &attested)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewSession(sessionID), nil
	}
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("load session: %w", err)
	}
	st.CompletedStages = toInts(completed)
	st.ApprovedAIStages = toInts(approved)
	st.AttestedGates = toInts(attested)

	rows, err := s.DB.Query(ctx, `SELECT seq,ts,action,stage_id,stage_name,detail
FROM audit_entries WHERE session_id=$1 ORDER BY seq ASC`, sessionID)
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("load audit: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.Seq, &e.Timestamp, &e.Action, &e.StageID, &e.StageName, &e.Detail); err != nil {
			return domain.SessionState{}, err
		}
		st.AuditLog = append(st.AuditLog, e)
	}
	return st, rows.Err()
}

func (s *Postgres) Save(ctx context.Context, state domain.SessionState) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := upsertSession(ctx, tx, state); err != nil {
		return err
	}
	// Audit entries are append-only: insert only what the stored log lacks.
	var stored int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM audit_entries WHERE session_id=$1`, state.SessionID).Scan(&stored); err != nil {
		return err
	}
	for _, e := range state.AuditLog {
		if e.Seq <= stored {
			continue
		}
		if err := insertAudit(ctx, tx, state.SessionID, e); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Postgres) Reset(ctx context.Context, state domain.SessionState) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM audit_entries WHERE session_id=$1`, state.SessionID); err != nil {
		return err
	}
	if err := upsertSession(ctx, tx, state); err != nil {
		return err
	}
	for _, e := range state.AuditLog {
		if err := insertAudit(ctx, tx, state.SessionID, e); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func upsertSession(ctx context.Context, tx pgx.Tx, state domain.SessionState) error {
	_, err := tx.Exec(ctx, `
INSERT INTO sessions(session_id,current_state,completed_stages,approved_ai_stages,attested_gates,updated_at)
VALUES($1,$2,$3,$4,$5,now())
ON CONFLICT (session_id) DO UPDATE SET
  current_state=EXCLUDED.current_state,
  completed_stages=EXCLUDED.completed_stages,
  approved_ai_stages=EXCLUDED.approved_ai_stages,
  attested_gates=EXCLUDED.attested_gates,
  updated_at=now()
`, state.SessionID, string(state.CurrentState), toInt32s(state.CompletedStages), toInt32s(state.ApprovedAIStages), toInt32s(state.AttestedGates))
	return err
}

func insertAudit(ctx context.Context, tx pgx.Tx, sessionID string, e domain.AuditEntry) error {
	_, err := tx.Exec(ctx, `INSERT INTO audit_entries(session_id,seq,ts,action,stage_id,stage_name,detail)
VALUES($1,$2,$3,$4,$5,$6,$7)`, sessionID, e.Seq, e.Timestamp, string(e.Action), e.StageID, e.StageName, e.Detail)
	return err
}

func toInt32s(xs []int) []int32 {
	out := make([]int32, len(xs))
	for i, x := range xs {
		out[i] = int32(x)
	}
	return out
}

func toInts(xs []int32) []int {
	if len(xs) == 0 {
		return nil
	}
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = int(x)
	}
	return out
}
