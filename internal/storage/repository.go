// Package storage implements the ledger store on SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadSnapshots implements ledger.SnapshotStore.
func (r *SQLiteRepository) LoadSnapshots(ctx context.Context) ([]core.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.guid, s.snapshot_date, v.field, v.amount
		FROM snapshots s
		LEFT JOIN snapshot_values v ON v.guid = s.guid
		ORDER BY s.position, v.field`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var (
		snapshots []core.Snapshot
		byGUID    = map[string]int{}
	)
	for rows.Next() {
		var (
			guid, dateStr string
			field, amount sql.NullString
		)
		if err := rows.Scan(&guid, &dateStr, &field, &amount); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		idx, seen := byGUID[guid]
		if !seen {
			date, err := core.ParseDate(dateStr)
			if err != nil {
				return nil, fmt.Errorf("snapshot %s: %w", guid, err)
			}
			snapshots = append(snapshots, core.Snapshot{
				GUID:   guid,
				Date:   date,
				Values: core.Values{},
			})
			idx = len(snapshots) - 1
			byGUID[guid] = idx
		}

		if field.Valid {
			d, err := decimal.NewFromString(amount.String)
			if err != nil {
				return nil, fmt.Errorf("snapshot %s field %q: %w", guid, field.String, err)
			}
			snapshots[idx].Values[field.String] = d
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// ReplaceSnapshots implements ledger.SnapshotStore. The delete and all
// inserts run in a single transaction, so a crash mid-write never leaves a
// half-replaced ledger behind.
func (r *SQLiteRepository) ReplaceSnapshots(ctx context.Context, snapshots []core.Snapshot) error {
	snapshots = append([]core.Snapshot(nil), snapshots...)
	ledger.EnsureSnapshotGUIDs(snapshots)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_values`); err != nil {
		return fmt.Errorf("clear snapshot values: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}

	insertSnap, err := tx.PrepareContext(ctx, `INSERT INTO snapshots (guid, snapshot_date, position) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer insertSnap.Close()

	insertValue, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_values (guid, field, amount) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare value insert: %w", err)
	}
	defer insertValue.Close()

	for pos, s := range snapshots {
		if _, err := insertSnap.ExecContext(ctx, s.GUID, s.Date.String(), pos); err != nil {
			return fmt.Errorf("insert snapshot %s: %w", s.GUID, err)
		}
		for _, name := range sortedKeys(s.Values) {
			if _, err := insertValue.ExecContext(ctx, s.GUID, name, s.Values[name].String()); err != nil {
				return fmt.Errorf("insert snapshot %s field %q: %w", s.GUID, name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot replace: %w", err)
	}

	slog.InfoContext(ctx, "Snapshots replaced", "count", len(snapshots))
	return nil
}

// LoadRules implements ledger.RuleStore. Rules come back in their stored
// position order, which is the order the projection applies them in.
func (r *SQLiteRepository) LoadRules(ctx context.Context) ([]core.Rule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT guid, day, month, description, account, amount, operation
		FROM rules
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	var rules []core.Rule
	for rows.Next() {
		var (
			rule      core.Rule
			month     sql.NullInt64
			amountStr string
			opStr     string
		)
		if err := rows.Scan(&rule.ID, &rule.Day, &month, &rule.Description, &rule.Account, &amountStr, &opStr); err != nil {
			return nil, fmt.Errorf("scan rule row: %w", err)
		}
		if month.Valid {
			m := int(month.Int64)
			rule.Month = &m
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("rule %s amount: %w", rule.ID, err)
		}
		rule.Amount = amount
		rule.Operation = core.Operation(opStr)
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}
	return rules, nil
}

// ReplaceRules implements ledger.RuleStore with the same single-transaction
// full-overwrite contract as ReplaceSnapshots.
func (r *SQLiteRepository) ReplaceRules(ctx context.Context, rules []core.Rule) error {
	rules = append([]core.Rule(nil), rules...)
	ledger.EnsureRuleIDs(rules)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rules`); err != nil {
		return fmt.Errorf("clear rules: %w", err)
	}

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO rules (guid, day, month, description, account, amount, operation, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare rule insert: %w", err)
	}
	defer insert.Close()

	for pos, rule := range rules {
		var month sql.NullInt64
		if rule.Month != nil {
			month = sql.NullInt64{Int64: int64(*rule.Month), Valid: true}
		}
		if _, err := insert.ExecContext(ctx, rule.ID, rule.Day, month, rule.Description,
			rule.Account, rule.Amount.String(), string(rule.Operation), pos); err != nil {
			return fmt.Errorf("insert rule %s: %w", rule.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rule replace: %w", err)
	}

	slog.InfoContext(ctx, "Rules replaced", "count", len(rules))
	return nil
}

// sortedKeys keeps insert order deterministic for snapshot tests.
func sortedKeys(v core.Values) []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
