package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
)

// DetectionSchema returns idempotent DDL for the detections table. The
// ReplacingMergeTree collapses rows by id keeping the highest version, so
// status updates are plain inserts with a bumped version.
func DetectionSchema(table string) []string {
	return []string{fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id                String,
	symbol            String,
	strategy_id       String,
	grade             String,
	direction         String,
	confidence        Float64,
	entry             Float64,
	stop_loss         Float64,
	take_profit       Float64,
	status            String,
	invalid_reason    String,
	triggers          String,
	first_detected_at DateTime64(3),
	last_detected_at  DateTime64(3),
	detection_count   Int32,
	cooldown_ends_at  DateTime64(3),
	bar_expires_at    DateTime64(3),
	version           UInt64
) ENGINE = ReplacingMergeTree(version)
ORDER BY (id)`, table)}
}

// ClickHouseDetectionStore is the durable detection backend. All reads use
// FINAL so callers see post-replacement rows.
type ClickHouseDetectionStore struct {
	db    *sql.DB
	table string
}

func NewClickHouseDetectionStore(db *sql.DB, table string) *ClickHouseDetectionStore {
	if table == "" {
		table = "detections"
	}
	return &ClickHouseDetectionStore{db: db, table: table}
}

const detectionColumns = `id, symbol, strategy_id, grade, direction, confidence, entry, stop_loss, take_profit,
status, invalid_reason, triggers, first_detected_at, last_detected_at, detection_count, cooldown_ends_at, bar_expires_at`

func (s *ClickHouseDetectionStore) insert(ctx context.Context, d *models.Detection) error {
	triggers, err := json.Marshal(d.Triggers)
	if err != nil {
		return fmt.Errorf("encode triggers: %w", err)
	}
	q := fmt.Sprintf("INSERT INTO %s (%s, version) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.table, detectionColumns)
	_, err = s.db.ExecContext(ctx, q,
		d.ID, d.Symbol, d.StrategyID, string(d.Grade), string(d.Direction), d.Confidence,
		d.Entry, d.StopLoss, d.TakeProfit, string(d.Status), d.InvalidReason, string(triggers),
		d.FirstDetectedAt, d.LastDetectedAt, d.DetectionCount, d.CooldownEndsAt, d.BarExpiresAt,
		uint64(time.Now().UnixMilli()))
	return err
}

func (s *ClickHouseDetectionStore) Create(ctx context.Context, d *models.Detection) error {
	return s.insert(ctx, d)
}

func (s *ClickHouseDetectionStore) Update(ctx context.Context, d *models.Detection) error {
	return s.insert(ctx, d)
}

func (s *ClickHouseDetectionStore) Get(ctx context.Context, id string) (*models.Detection, error) {
	q := fmt.Sprintf("SELECT %s FROM %s FINAL WHERE id = ?", detectionColumns, s.table)
	row := s.db.QueryRowContext(ctx, q, id)
	d, err := scanDetection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

func (s *ClickHouseDetectionStore) FindActive(ctx context.Context, strategyID, symbol string, direction models.Direction) (*models.Detection, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s FINAL
WHERE strategy_id = ? AND symbol = ? AND direction = ? AND status IN ('cooling_down', 'eligible')
ORDER BY last_detected_at DESC LIMIT 1`, detectionColumns, s.table)
	row := s.db.QueryRowContext(ctx, q, strategyID, symbol, string(direction))
	d, err := scanDetection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

func (s *ClickHouseDetectionStore) List(ctx context.Context, f models.DetectionFilter) ([]*models.Detection, int64, error) {
	where, args := detectionWhere(f)

	var total int64
	countQ := fmt.Sprintf("SELECT count() FROM %s FINAL %s", s.table, where)
	if err := s.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count detections: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	q := fmt.Sprintf("SELECT %s FROM %s FINAL %s ORDER BY last_detected_at DESC LIMIT ? OFFSET ?",
		detectionColumns, s.table, where)
	rows, err := s.db.QueryContext(ctx, q, append(args, limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list detections: %w", err)
	}
	defer rows.Close()

	var out []*models.Detection
	for rows.Next() {
		d, err := scanDetection(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (s *ClickHouseDetectionStore) ListNonTerminal(ctx context.Context) ([]*models.Detection, error) {
	q := fmt.Sprintf("SELECT %s FROM %s FINAL WHERE status IN ('cooling_down', 'eligible')",
		detectionColumns, s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list active detections: %w", err)
	}
	defer rows.Close()

	var out []*models.Detection
	for rows.Next() {
		d, err := scanDetection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *ClickHouseDetectionStore) Summary(ctx context.Context) ([]*models.DetectionSummary, error) {
	q := fmt.Sprintf("SELECT strategy_id, status, count() FROM %s FINAL GROUP BY strategy_id, status", s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("summarize detections: %w", err)
	}
	defer rows.Close()

	byStrategy := make(map[string]*models.DetectionSummary)
	for rows.Next() {
		var strategyID, status string
		var n int64
		if err := rows.Scan(&strategyID, &status, &n); err != nil {
			return nil, err
		}
		sum, ok := byStrategy[strategyID]
		if !ok {
			sum = &models.DetectionSummary{
				StrategyID: strategyID,
				ByStatus:   make(map[models.DetectionStatus]int64),
			}
			byStrategy[strategyID] = sum
		}
		sum.ByStatus[models.DetectionStatus(status)] += n
		sum.Total += n
	}
	out := make([]*models.DetectionSummary, 0, len(byStrategy))
	for _, sum := range byStrategy {
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *ClickHouseDetectionStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseDetectionStore) Close() error {
	return nil // pool is owned by the clickhouse client
}

func detectionWhere(f models.DetectionFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.StrategyID != "" {
		conds = append(conds, "strategy_id = ?")
		args = append(args, f.StrategyID)
	}
	if f.Symbol != "" {
		conds = append(conds, "symbol = ?")
		args = append(args, f.Symbol)
	}
	if f.Grade != "" {
		conds = append(conds, "grade = ?")
		args = append(args, string(f.Grade))
	}
	if !f.From.IsZero() {
		conds = append(conds, "last_detected_at >= ?")
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		conds = append(conds, "last_detected_at <= ?")
		args = append(args, f.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDetection(row rowScanner) (*models.Detection, error) {
	var d models.Detection
	var grade, direction, status, triggers string
	if err := row.Scan(
		&d.ID, &d.Symbol, &d.StrategyID, &grade, &direction, &d.Confidence,
		&d.Entry, &d.StopLoss, &d.TakeProfit, &status, &d.InvalidReason, &triggers,
		&d.FirstDetectedAt, &d.LastDetectedAt, &d.DetectionCount, &d.CooldownEndsAt, &d.BarExpiresAt,
	); err != nil {
		return nil, err
	}
	d.Grade = models.Grade(grade)
	d.Direction = models.Direction(direction)
	d.Status = models.DetectionStatus(status)
	if triggers != "" {
		if err := json.Unmarshal([]byte(triggers), &d.Triggers); err != nil {
			return nil, fmt.Errorf("decode triggers for %s: %w", d.ID, err)
		}
	}
	return &d, nil
}
