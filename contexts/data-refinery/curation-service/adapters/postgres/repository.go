package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"refinery/contexts/data-refinery/curation-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/curation-service/domain/errors"

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

type packageModel struct {
	PackageID       string    `gorm:"column:package_id;primaryKey"`
	SourceDatasetID string    `gorm:"column:source_dataset_id;index"`
	Name            string    `gorm:"column:name"`
	Description     string    `gorm:"column:description"`
	Version         string    `gorm:"column:version"`
	ItemCount       int       `gorm:"column:item_count"`
	SizeBytes       int64     `gorm:"column:size_bytes"`
	QualityScore    float64   `gorm:"column:quality_score"`
	Manifest        []byte    `gorm:"column:manifest;type:jsonb"`
	Provenance      []byte    `gorm:"column:provenance;type:jsonb"`
	LicenseType     string    `gorm:"column:license_type"`
	IsAvailable     bool      `gorm:"column:is_available"`
	IsForSale       bool      `gorm:"column:is_for_sale"`
	PriceUSD        float64   `gorm:"column:price_usd"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (packageModel) TableName() string {
	return "curation_packages"
}

func packageModelFromEntity(pkg entities.DataPackage) (packageModel, error) {
	manifest, err := json.Marshal(pkg.Manifest)
	if err != nil {
		return packageModel{}, err
	}
	provenance, err := json.Marshal(pkg.Provenance)
	if err != nil {
		return packageModel{}, err
	}
	return packageModel{
		PackageID:       pkg.PackageID,
		SourceDatasetID: pkg.SourceDatasetID,
		Name:            pkg.Name,
		Description:     pkg.Description,
		Version:         pkg.Version,
		ItemCount:       pkg.ItemCount,
		SizeBytes:       pkg.SizeBytes,
		QualityScore:    pkg.QualityScore,
		Manifest:        manifest,
		Provenance:      provenance,
		LicenseType:     string(pkg.LicenseType),
		IsAvailable:     pkg.IsAvailable,
		IsForSale:       pkg.IsForSale,
		PriceUSD:        pkg.PriceUSD,
		CreatedAt:       pkg.CreatedAt.UTC(),
		UpdatedAt:       pkg.UpdatedAt.UTC(),
	}, nil
}

func (m packageModel) toEntity() (entities.DataPackage, error) {
	var manifest []entities.ManifestEntry
	if len(m.Manifest) > 0 {
		if err := json.Unmarshal(m.Manifest, &manifest); err != nil {
			return entities.DataPackage{}, err
		}
	}
	var provenance []entities.ProvenanceEntry
	if len(m.Provenance) > 0 {
		if err := json.Unmarshal(m.Provenance, &provenance); err != nil {
			return entities.DataPackage{}, err
		}
	}
	return entities.DataPackage{
		PackageID:       m.PackageID,
		SourceDatasetID: m.SourceDatasetID,
		Name:            m.Name,
		Description:     m.Description,
		Version:         m.Version,
		ItemCount:       m.ItemCount,
		SizeBytes:       m.SizeBytes,
		QualityScore:    m.QualityScore,
		Manifest:        manifest,
		Provenance:      provenance,
		LicenseType:     entities.LicenseType(m.LicenseType),
		IsAvailable:     m.IsAvailable,
		IsForSale:       m.IsForSale,
		PriceUSD:        m.PriceUSD,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}

func (r *Repository) CreatePackage(ctx context.Context, pkg entities.DataPackage) error {
	row, err := packageModelFromEntity(pkg)
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

func (r *Repository) GetPackage(ctx context.Context, packageID string) (entities.DataPackage, error) {
	var row packageModel
	err := r.db.WithContext(ctx).
		Where("package_id = ?", packageID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DataPackage{}, domainerrors.ErrPackageNotFound
		}
		return entities.DataPackage{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListPackagesByDataset(ctx context.Context, datasetID string) ([]entities.DataPackage, error) {
	var rows []packageModel
	if err := r.db.WithContext(ctx).
		Where("source_dataset_id = ?", datasetID).
		Order("created_at ASC, package_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.DataPackage, 0, len(rows))
	for _, row := range rows {
		pkg, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, pkg)
	}
	return items, nil
}

func (r *Repository) HasPackages(ctx context.Context, datasetID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&packageModel{}).
		Where("source_dataset_id = ?", datasetID).
		Count(&count).
		Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) SetSaleReadiness(
	ctx context.Context,
	packageID string,
	forSale bool,
	priceUSD float64,
	at time.Time,
) (entities.DataPackage, error) {
	var updated packageModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&packageModel{}).
			Where("package_id = ? AND is_available = true", packageID).
			Updates(map[string]any{
				"is_for_sale": forSale,
				"price_usd":   priceUSD,
				"updated_at":  at.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var row packageModel
			if err := tx.Where("package_id = ?", packageID).First(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerrors.ErrPackageNotFound
				}
				return err
			}
			return domainerrors.ErrPackageUnavailable
		}
		return tx.Where("package_id = ?", packageID).First(&updated).Error
	})
	if err != nil {
		return entities.DataPackage{}, err
	}
	return updated.toEntity()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
