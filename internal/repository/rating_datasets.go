package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
)

func (r *Repository) CreateRatingDataset(ds *domain.RatingDataset) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO rating_datasets (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, ds.Name, ds.Description).Scan(&ds.ID, &ds.CreatedAt, &ds.Version); err != nil {
		return err
	}

	for i, label := range ds.SlotLabels {
		query = `
			INSERT INTO rating_dataset_slots (dataset_id, position, label)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, ds.ID, i, label); err != nil {
			return err
		}
	}

	for i, program := range ds.Programs {
		var programID int64
		query = `
			INSERT INTO rating_dataset_programs (dataset_id, position, name, slug)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, ds.ID, i, program.Name, program.Slug).Scan(&programID); err != nil {
			return err
		}

		for slot, rating := range program.Ratings {
			query = `
				INSERT INTO rating_dataset_program_ratings (program_id, slot, rating)
				VALUES ($1, $2, $3)
			`
			if _, err := tx.ExecContext(ctx, query, programID, slot, rating); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllRatingDatasets() ([]*domain.RatingDataset, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	return r.getRatingDatasets(ctx, "", nil)
}

func (r *Repository) GetRatingDatasetByID(id int64) (*domain.RatingDataset, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	datasets, err := r.getRatingDatasets(ctx, "WHERE rd.id = $1", []any{id})
	if err != nil {
		return nil, err
	}
	if len(datasets) == 0 {
		return nil, sql.ErrNoRows
	}

	return datasets[0], nil
}

// getRatingDatasets 分两次查询：先查数据集及其时段，再查节目及其收视率，最后按 position 组装
func (r *Repository) getRatingDatasets(ctx context.Context, where string, args []any) ([]*domain.RatingDataset, error) {
	query := `
		SELECT
			rd.id,
			rd.name,
			rd.description,
			rd.created_at,
			rd.version,
			rds.label
		FROM rating_datasets rd
		LEFT JOIN rating_dataset_slots rds ON rd.id = rds.dataset_id
		` + where + `
		ORDER BY rd.id, rds.position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	datasets := make([]*domain.RatingDataset, 0)
	datasetsMap := make(map[int64]*domain.RatingDataset)

	for rows.Next() {
		var row struct {
			ID          int64
			Name        string
			Description string
			CreatedAt   time.Time
			Version     int32
			Label       sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.Description,
			&row.CreatedAt,
			&row.Version,
			&row.Label,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		ds, exists := datasetsMap[row.ID]
		if !exists {
			// 第一次查到这个数据集
			ds = &domain.RatingDataset{
				ID:          row.ID,
				Name:        row.Name,
				Description: row.Description,
				SlotLabels:  make([]string, 0),
				Programs:    make([]domain.ProgramRating, 0),
				CreatedAt:   row.CreatedAt,
				Version:     row.Version,
			}
			datasetsMap[row.ID] = ds
			datasets = append(datasets, ds)
		}

		// 数据集没有任何时段
		if !row.Label.Valid {
			continue
		}

		ds.SlotLabels = append(ds.SlotLabels, row.Label.String)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(datasets) == 0 {
		return datasets, nil
	}

	query = `
		SELECT
			rdp.dataset_id,
			rdp.id,
			rdp.name,
			rdp.slug,
			rdpr.slot,
			rdpr.rating
		FROM rating_dataset_programs rdp
		JOIN rating_datasets rd ON rd.id = rdp.dataset_id
		LEFT JOIN rating_dataset_program_ratings rdpr ON rdp.id = rdpr.program_id
		` + where + `
		ORDER BY rdp.dataset_id, rdp.position, rdpr.slot
	`

	rows, err = r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lastProgramID := int64(-1)
	for rows.Next() {
		var row struct {
			DatasetID int64
			ProgramID int64
			Name      string
			Slug      string
			Slot      sql.NullInt32
			Rating    sql.NullFloat64
		}

		dst := []any{
			&row.DatasetID,
			&row.ProgramID,
			&row.Name,
			&row.Slug,
			&row.Slot,
			&row.Rating,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		ds, exists := datasetsMap[row.DatasetID]
		if !exists {
			continue
		}

		if row.ProgramID != lastProgramID {
			// 第一次查到这个节目
			ds.Programs = append(ds.Programs, domain.ProgramRating{
				Name:    row.Name,
				Slug:    row.Slug,
				Ratings: make([]float64, 0),
			})
			lastProgramID = row.ProgramID
		}

		// 节目没有任何收视率
		if !row.Slot.Valid {
			continue
		}

		program := &ds.Programs[len(ds.Programs)-1]
		for len(program.Ratings) <= int(row.Slot.Int32) {
			program.Ratings = append(program.Ratings, 0)
		}
		program.Ratings[row.Slot.Int32] = row.Rating.Float64
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return datasets, nil
}

func (r *Repository) UpdateRatingDataset(ds *domain.RatingDataset) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		UPDATE rating_datasets
		SET
			name = $1,
			description = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	params := []any{ds.Name, ds.Description, ds.ID, ds.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&ds.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteRatingDataset(id int64) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		DELETE FROM rating_datasets WHERE id = $1
	`

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
