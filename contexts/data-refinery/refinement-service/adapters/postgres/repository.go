package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"refinery/contexts/data-refinery/refinement-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/refinement-service/domain/errors"
	"refinery/contexts/data-refinery/refinement-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateDataset(ctx context.Context, dataset entities.Dataset) error {
	row, err := datasetModelFromEntity(dataset)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRepositoryInvariantBroke
		}
		return err
	}
	return nil
}

func (r *Repository) GetDataset(ctx context.Context, datasetID string) (entities.Dataset, error) {
	var row datasetModel
	err := r.db.WithContext(ctx).
		Where("dataset_id = ?", datasetID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Dataset{}, domainerrors.ErrDatasetNotFound
		}
		return entities.Dataset{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListDatasetsByOwner(ctx context.Context, ownerID string) ([]entities.Dataset, error) {
	var rows []datasetModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC, dataset_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Dataset, 0, len(rows))
	for _, row := range rows {
		dataset, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, dataset)
	}
	return items, nil
}

func (r *Repository) IngestItems(
	ctx context.Context,
	datasetID string,
	items []entities.Item,
	record ports.IngestionRecord,
	at time.Time,
) (entities.Dataset, error) {
	var totalBytes int64
	for _, item := range items {
		totalBytes += item.SizeBytes
	}

	var updated datasetModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&datasetModel{}).
			Where("dataset_id = ? AND stage = ? AND tombstoned = false", datasetID, string(entities.StageIngested)).
			Updates(map[string]any{
				"stage":            string(entities.StageStored),
				"item_count":       gorm.Expr("item_count + ?", len(items)),
				"total_size_bytes": gorm.Expr("total_size_bytes + ?", totalBytes),
				"updated_at":       at.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.classifyStageMiss(tx, datasetID)
		}

		for _, item := range items {
			row, err := itemModelFromEntity(item)
			if err != nil {
				return err
			}
			if err := tx.Create(&row).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrRepositoryInvariantBroke
				}
				return err
			}
		}

		ingestionRow, err := ingestionModelFromPort(record)
		if err != nil {
			return err
		}
		if err := tx.Create(&ingestionRow).Error; err != nil {
			return err
		}

		return tx.Where("dataset_id = ?", datasetID).First(&updated).Error
	})
	if err != nil {
		return entities.Dataset{}, err
	}
	return updated.toEntity()
}

func (r *Repository) BeginRefinement(ctx context.Context, datasetID string, at time.Time) (entities.Dataset, error) {
	refinable := []string{
		string(entities.StageStored),
		string(entities.StageRefined),
		string(entities.StageFailed),
	}

	var updated datasetModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The guarded UPDATE is the per-dataset mutual-exclusion gate: only
		// one caller can move the row into stage refining.
		result := tx.Model(&datasetModel{}).
			Where("dataset_id = ? AND stage IN ? AND tombstoned = false", datasetID, refinable).
			Updates(map[string]any{
				"stage":      string(entities.StageRefining),
				"updated_at": at.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var row datasetModel
			if err := tx.Where("dataset_id = ?", datasetID).First(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerrors.ErrDatasetNotFound
				}
				return err
			}
			if row.Tombstoned {
				return domainerrors.ErrDatasetTombstoned
			}
			if row.Stage == string(entities.StageRefining) {
				return domainerrors.ErrRefinementInFlight
			}
			return domainerrors.ErrStageConflict
		}
		return tx.Where("dataset_id = ?", datasetID).First(&updated).Error
	})
	if err != nil {
		return entities.Dataset{}, err
	}
	return updated.toEntity()
}

func (r *Repository) CompleteRefinement(
	ctx context.Context,
	datasetID string,
	record entities.RefinementRecord,
	outcomes []ports.ItemOutcome,
	at time.Time,
) (entities.Dataset, error) {
	var updated datasetModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&datasetModel{}).
			Where("dataset_id = ? AND stage = ?", datasetID, string(entities.StageRefining)).
			Updates(map[string]any{
				"stage":         string(entities.StageRefined),
				"quality_score": record.OverallQuality,
				"updated_at":    at.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.classifyStageMiss(tx, datasetID)
		}

		for _, outcome := range outcomes {
			metrics, err := json.Marshal(outcome.Metrics)
			if err != nil {
				return err
			}
			if err := tx.Model(&itemModel{}).
				Where("item_id = ?", outcome.ItemID).
				Updates(map[string]any{
					"status":           string(outcome.Status),
					"rejection_reason": string(outcome.Reason),
					"metrics":          metrics,
				}).Error; err != nil {
				return err
			}
		}

		recordRow, err := recordModelFromEntity(record)
		if err != nil {
			return err
		}
		if err := tx.Create(&recordRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrRepositoryInvariantBroke
			}
			return err
		}

		return tx.Where("dataset_id = ?", datasetID).First(&updated).Error
	})
	if err != nil {
		return entities.Dataset{}, err
	}
	return updated.toEntity()
}

func (r *Repository) FailRefinement(
	ctx context.Context,
	datasetID string,
	record entities.RefinementRecord,
	at time.Time,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&datasetModel{}).
			Where("dataset_id = ? AND stage = ?", datasetID, string(entities.StageRefining)).
			Updates(map[string]any{
				"stage":      string(entities.StageFailed),
				"updated_at": at.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.classifyStageMiss(tx, datasetID)
		}

		recordRow, err := recordModelFromEntity(record)
		if err != nil {
			return err
		}
		return tx.Create(&recordRow).Error
	})
}

func (r *Repository) AdvanceStage(
	ctx context.Context,
	datasetID string,
	from entities.DatasetStage,
	to entities.DatasetStage,
	at time.Time,
) error {
	if !from.CanTransitionTo(to) {
		return domainerrors.ErrStageConflict
	}

	result := r.db.WithContext(ctx).Model(&datasetModel{}).
		Where("dataset_id = ? AND stage = ? AND tombstoned = false", datasetID, string(from)).
		Updates(map[string]any{
			"stage":      string(to),
			"updated_at": at.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.classifyStageMiss(r.db.WithContext(ctx), datasetID)
	}
	return nil
}

func (r *Repository) DeleteDataset(ctx context.Context, datasetID string, referenced bool, at time.Time) (bool, error) {
	if referenced {
		result := r.db.WithContext(ctx).Model(&datasetModel{}).
			Where("dataset_id = ?", datasetID).
			Updates(map[string]any{
				"tombstoned": true,
				"updated_at": at.UTC(),
			})
		if result.Error != nil {
			return false, result.Error
		}
		if result.RowsAffected == 0 {
			return false, domainerrors.ErrDatasetNotFound
		}
		return true, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dataset_id = ?", datasetID).Delete(&itemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("dataset_id = ?", datasetID).Delete(&refinementRecordModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("dataset_id = ?", datasetID).Delete(&ingestionRecordModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("dataset_id = ?", datasetID).Delete(&datasetModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrDatasetNotFound
		}
		return nil
	})
	return false, err
}

func (r *Repository) FailStaleRefinements(
	ctx context.Context,
	deadline time.Time,
	reason string,
	at time.Time,
) (int, error) {
	failed := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stale []datasetModel
		if err := tx.
			Where("stage = ? AND updated_at < ?", string(entities.StageRefining), deadline.UTC()).
			Find(&stale).
			Error; err != nil {
			return err
		}

		for _, row := range stale {
			result := tx.Model(&datasetModel{}).
				Where("dataset_id = ? AND stage = ?", row.DatasetID, string(entities.StageRefining)).
				Updates(map[string]any{
					"stage":      string(entities.StageFailed),
					"updated_at": at.UTC(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				continue
			}

			recordRow, err := recordModelFromEntity(entities.RefinementRecord{
				RecordID:      uuid.NewString(),
				DatasetID:     row.DatasetID,
				FailureReason: reason,
				StartedAt:     at.UTC(),
				CompletedAt:   at.UTC(),
			})
			if err != nil {
				return err
			}
			if err := tx.Create(&recordRow).Error; err != nil {
				return err
			}
			failed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return failed, nil
}

func (r *Repository) ListItems(ctx context.Context, datasetID string) ([]entities.Item, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&datasetModel{}).
		Where("dataset_id = ?", datasetID).
		Count(&count).
		Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domainerrors.ErrDatasetNotFound
	}

	var rows []itemModel
	if err := r.db.WithContext(ctx).
		Where("dataset_id = ?", datasetID).
		Order("position ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return itemsFromModels(rows)
}

func (r *Repository) ListPassedItems(ctx context.Context, datasetID string) ([]entities.Item, error) {
	var rows []itemModel
	if err := r.db.WithContext(ctx).
		Where("dataset_id = ? AND status = ?", datasetID, string(entities.ItemStatusPassed)).
		Order("position ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return itemsFromModels(rows)
}

func (r *Repository) ListRecords(ctx context.Context, datasetID string) ([]entities.RefinementRecord, error) {
	var rows []refinementRecordModel
	if err := r.db.WithContext(ctx).
		Where("dataset_id = ?", datasetID).
		Order("completed_at ASC, record_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	records := make([]entities.RefinementRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *Repository) LatestRecord(ctx context.Context, datasetID string) (entities.RefinementRecord, bool, error) {
	var row refinementRecordModel
	err := r.db.WithContext(ctx).
		Where("dataset_id = ?", datasetID).
		Order("completed_at DESC, record_id DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.RefinementRecord{}, false, nil
		}
		return entities.RefinementRecord{}, false, err
	}
	record, err := row.toEntity()
	if err != nil {
		return entities.RefinementRecord{}, false, err
	}
	return record, true, nil
}

func (r *Repository) ListIngestions(ctx context.Context, datasetID string) ([]ports.IngestionRecord, error) {
	var rows []ingestionRecordModel
	if err := r.db.WithContext(ctx).
		Where("dataset_id = ?", datasetID).
		Order("created_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	records := make([]ports.IngestionRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toPort()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// classifyStageMiss turns a zero-row guarded update into the precise domain
// error: the dataset is missing, tombstoned, or in the wrong stage.
func (r *Repository) classifyStageMiss(tx *gorm.DB, datasetID string) error {
	var row datasetModel
	if err := tx.Where("dataset_id = ?", datasetID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrDatasetNotFound
		}
		return err
	}
	if row.Tombstoned {
		return domainerrors.ErrDatasetTombstoned
	}
	return domainerrors.ErrStageConflict
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
