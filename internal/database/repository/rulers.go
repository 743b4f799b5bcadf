package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/jask/rulerview/internal/database"
)

// RulerRepo handles rulers. It implements ruler.Store.
type RulerRepo struct {
	db *sql.DB
}

func NewRulerRepo(db *sql.DB) *RulerRepo { return &RulerRepo{db: db} }

// RulerID is stable per name, so the same ruler keeps its id across databases.
func RulerID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("ruler:"+name)).String()
}

func (r *RulerRepo) Upsert(ctx context.Context, rl Ruler) error {
	if rl.ID == "" {
		rl.ID = RulerID(rl.Name)
	}
	if rl.UpdatedAt.IsZero() {
		rl.UpdatedAt = database.Now()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO rulers(id, name, value, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at;
	`, rl.ID, rl.Name, rl.Value, rl.UpdatedAt)
	return err
}

// ByName returns nil when no ruler is stored under name.
func (r *RulerRepo) ByName(ctx context.Context, name string) (*Ruler, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, value, updated_at FROM rulers WHERE name = ?`, name)
	var rl Ruler
	if err := row.Scan(&rl.ID, &rl.Name, &rl.Value, &rl.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rl, nil
}

func (r *RulerRepo) List(ctx context.Context) ([]Ruler, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, value, updated_at FROM rulers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Ruler
	for rows.Next() {
		var rl Ruler
		if err := rows.Scan(&rl.ID, &rl.Name, &rl.Value, &rl.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rl)
	}
	return out, rows.Err()
}

func (r *RulerRepo) Delete(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rulers WHERE name = ?`, name)
	return err
}

func (r *RulerRepo) LoadValue(ctx context.Context, name string) (float64, bool, error) {
	rl, err := r.ByName(ctx, name)
	if err != nil || rl == nil {
		return 0, false, err
	}
	return rl.Value, true, nil
}

func (r *RulerRepo) SaveValue(ctx context.Context, name string, value float64) error {
	return r.Upsert(ctx, Ruler{Name: name, Value: value})
}

// Values maps every stored ruler name to its value.
func (r *RulerRepo) Values(ctx context.Context) (map[string]float64, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(all))
	for _, rl := range all {
		out[rl.Name] = rl.Value
	}
	return out, nil
}
