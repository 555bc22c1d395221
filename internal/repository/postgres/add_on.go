package postgres

import (
	"context"
	"fmt"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"

	"github.com/lib/pq"
)

type addOnRepository struct {
	db DBTX
}

func NewAddOnRepository(db DBTX) repository.AddOnRepository {
	return &addOnRepository{db: db}
}

func (r *addOnRepository) List(ctx context.Context) ([]domain.AddOn, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, daily_surcharge FROM add_ons ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addOns []domain.AddOn
	for rows.Next() {
		var a domain.AddOn
		if err := rows.Scan(&a.ID, &a.Name, &a.DailySurcharge); err != nil {
			return nil, err
		}
		addOns = append(addOns, a)
	}
	return addOns, rows.Err()
}

func (r *addOnRepository) GetByIDs(ctx context.Context, ids []int32) ([]domain.AddOn, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	byID, err := loadAddOns(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}

	addOns := make([]domain.AddOn, 0, len(ids))
	seen := map[int32]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		a, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("add-on %d: %w", id, domain.ErrNotFound)
		}
		addOns = append(addOns, a)
	}
	return addOns, nil
}

func loadAddOns(ctx context.Context, db DBTX, ids []int32) (map[int32]domain.AddOn, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, daily_surcharge FROM add_ons WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int32]domain.AddOn, len(ids))
	for rows.Next() {
		var a domain.AddOn
		if err := rows.Scan(&a.ID, &a.Name, &a.DailySurcharge); err != nil {
			return nil, err
		}
		byID[a.ID] = a
	}
	return byID, rows.Err()
}
