package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/FxPeer/fx_marketplace_app/internal/apperrors"
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	portsrepo "github.com/FxPeer/fx_marketplace_app/internal/core/ports/repositories"
	"github.com/FxPeer/fx_marketplace_app/internal/models"
	"github.com/FxPeer/fx_marketplace_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxVendorRepository struct {
	BaseRepository
}

// newPgxVendorRepository creates a new repository for vendor profile and inventory data.
func newPgxVendorRepository(pool *pgxpool.Pool) portsrepo.VendorRepositoryWithTx {
	return &PgxVendorRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxVendorRepository implements portsrepo.VendorRepositoryWithTx
var _ portsrepo.VendorRepositoryWithTx = (*PgxVendorRepository)(nil)

// FindVendorByID retrieves a vendor profile together with its inventory rows.
func (r *PgxVendorRepository) FindVendorByID(ctx context.Context, vendorID string) (*domain.VendorProfile, error) {
	query := `
		SELECT vendor_id, business_name, description, is_profile_complete,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM vendor_profiles
		WHERE vendor_id = $1;
	`
	var modelProfile models.VendorProfile
	err := r.Pool.QueryRow(ctx, query, vendorID).Scan(
		&modelProfile.VendorID,
		&modelProfile.BusinessName,
		&modelProfile.Description,
		&modelProfile.IsProfileComplete,
		&modelProfile.CreatedAt,
		&modelProfile.CreatedBy,
		&modelProfile.LastUpdatedAt,
		&modelProfile.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find vendor by ID "+vendorID, err)
	}

	inventoryByVendor, err := r.findInventoryByVendorIDs(ctx, []string{vendorID})
	if err != nil {
		return nil, err
	}

	domainProfile := mapping.ToDomainVendorProfile(modelProfile, inventoryByVendor[vendorID])
	return &domainProfile, nil
}

// FindEligibleVendors retrieves vendors with a complete profile that stock at
// least minAmount of toCurrency. Each result carries its full inventory so the
// matcher can price against the markup rows.
func (r *PgxVendorRepository) FindEligibleVendors(ctx context.Context, toCurrency string, minAmount decimal.Decimal) ([]domain.VendorProfile, error) {
	query := `
		SELECT p.vendor_id, p.business_name, p.description, p.is_profile_complete,
		       p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
		FROM vendor_profiles p
		JOIN vendor_inventory i ON i.vendor_id = p.vendor_id
		WHERE p.is_profile_complete = TRUE
		  AND i.currency_code = $1
		  AND i.amount >= $2
		ORDER BY p.vendor_id;
	`
	rows, err := r.Pool.Query(ctx, query, toCurrency, minAmount)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query eligible vendors for "+toCurrency, err)
	}
	defer rows.Close()

	modelProfiles := []models.VendorProfile{}
	for rows.Next() {
		var m models.VendorProfile
		if err := rows.Scan(
			&m.VendorID,
			&m.BusinessName,
			&m.Description,
			&m.IsProfileComplete,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan vendor row", err)
		}
		modelProfiles = append(modelProfiles, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating vendor rows", err)
	}

	if len(modelProfiles) == 0 {
		return []domain.VendorProfile{}, nil
	}

	vendorIDs := make([]string, len(modelProfiles))
	for i, m := range modelProfiles {
		vendorIDs[i] = m.VendorID
	}
	inventoryByVendor, err := r.findInventoryByVendorIDs(ctx, vendorIDs)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.VendorProfile, len(modelProfiles))
	for i, m := range modelProfiles {
		profiles[i] = mapping.ToDomainVendorProfile(m, inventoryByVendor[m.VendorID])
	}
	return profiles, nil
}

// findInventoryByVendorIDs fetches inventory rows for a batch of vendors,
// grouped by vendor ID.
func (r *PgxVendorRepository) findInventoryByVendorIDs(ctx context.Context, vendorIDs []string) (map[string][]models.InventoryItem, error) {
	query := `
		SELECT vendor_id, currency_code, amount, markup
		FROM vendor_inventory
		WHERE vendor_id = ANY($1)
		ORDER BY vendor_id, currency_code;
	`
	rows, err := r.Pool.Query(ctx, query, vendorIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query vendor inventory", err)
	}
	defer rows.Close()

	inventoryByVendor := make(map[string][]models.InventoryItem)
	for rows.Next() {
		var item models.InventoryItem
		if err := rows.Scan(&item.VendorID, &item.CurrencyCode, &item.Amount, &item.Markup); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan inventory row", err)
		}
		inventoryByVendor[item.VendorID] = append(inventoryByVendor[item.VendorID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating inventory rows", err)
	}
	return inventoryByVendor, nil
}

// UpsertVendorProfile creates or replaces a vendor profile and its inventory
// rows within a DB transaction.
func (r *PgxVendorRepository) UpsertVendorProfile(ctx context.Context, profile domain.VendorProfile) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	modelProfile := mapping.ToModelVendorProfile(profile)
	profileQuery := `
		INSERT INTO vendor_profiles (
			vendor_id, business_name, description, is_profile_complete,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (vendor_id) DO UPDATE SET
			business_name = EXCLUDED.business_name,
			description = EXCLUDED.description,
			is_profile_complete = EXCLUDED.is_profile_complete,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err = tx.Exec(ctx, profileQuery,
		modelProfile.VendorID,
		modelProfile.BusinessName,
		modelProfile.Description,
		modelProfile.IsProfileComplete,
		modelProfile.CreatedAt,
		modelProfile.CreatedBy,
		modelProfile.LastUpdatedAt,
		modelProfile.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert vendor profile "+modelProfile.VendorID, err)
	}

	if err := r.replaceInventoryInTx(ctx, tx, profile.VendorID, profile.Inventory, profile.LastUpdatedBy, profile.LastUpdatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// ReplaceInventory atomically swaps a vendor's inventory rows.
func (r *PgxVendorRepository) ReplaceInventory(ctx context.Context, vendorID string, items []domain.InventoryItem, updatedBy string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Touching the profile row both verifies the vendor exists and serializes
	// concurrent inventory replacements for the same vendor.
	touchQuery := `
		UPDATE vendor_profiles
		SET last_updated_at = $2, last_updated_by = $3
		WHERE vendor_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, touchQuery, vendorID, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to touch vendor profile "+vendorID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("vendor " + vendorID + " not found for inventory update")
	}

	if err := r.replaceInventoryInTx(ctx, tx, vendorID, items, updatedBy, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// replaceInventoryInTx deletes and re-inserts the vendor's inventory rows
// using the provided transaction.
func (r *PgxVendorRepository) replaceInventoryInTx(ctx context.Context, tx pgx.Tx, vendorID string, items []domain.InventoryItem, updatedBy string, now time.Time) error {
	deleteQuery := `DELETE FROM vendor_inventory WHERE vendor_id = $1;`
	if _, err := tx.Exec(ctx, deleteQuery, vendorID); err != nil {
		return apperrors.NewAppError(500, "failed to clear inventory for vendor "+vendorID, err)
	}

	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	insertQuery := `
		INSERT INTO vendor_inventory (vendor_id, currency_code, amount, markup, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, row := range mapping.ToModelInventoryItems(vendorID, items) {
		batch.Queue(insertQuery, row.VendorID, row.CurrencyCode, row.Amount, row.Markup, now, updatedBy)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute inventory batch for vendor "+vendorID, err)
	}
	return nil
}

// FindInventoryForUpdate locks the vendor's inventory rows for the given
// currencies and returns them keyed by currency code. Currencies with no row
// are absent from the map.
func (r *PgxVendorRepository) FindInventoryForUpdate(ctx context.Context, tx pgx.Tx, vendorID string, currencies []string) (map[string]domain.InventoryItem, error) {
	query := `
		SELECT vendor_id, currency_code, amount, markup
		FROM vendor_inventory
		WHERE vendor_id = $1 AND currency_code = ANY($2)
		ORDER BY currency_code
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, vendorID, currencies)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock inventory for vendor "+vendorID, err)
	}
	defer rows.Close()

	locked := make(map[string]domain.InventoryItem)
	for rows.Next() {
		var item models.InventoryItem
		if err := rows.Scan(&item.VendorID, &item.CurrencyCode, &item.Amount, &item.Markup); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked inventory row", err)
		}
		locked[item.CurrencyCode] = domain.InventoryItem{
			Currency: item.CurrencyCode,
			Amount:   item.Amount,
			Markup:   item.Markup,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating locked inventory rows", err)
	}
	return locked, nil
}

// AdjustInventoryInTx applies a signed delta to one inventory row. The amount
// guard makes the decrement conditional so a balance can never go negative.
func (r *PgxVendorRepository) AdjustInventoryInTx(ctx context.Context, tx pgx.Tx, vendorID, currency string, delta decimal.Decimal, updatedBy string, now time.Time) error {
	query := `
		UPDATE vendor_inventory
		SET amount = amount + $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE vendor_id = $1 AND currency_code = $2 AND amount + $3 >= 0;
	`
	cmdTag, err := tx.Exec(ctx, query, vendorID, currency, delta, now, updatedBy)
	if err != nil {
		if isSerializationFailure(err) {
			return apperrors.ErrConflict
		}
		return apperrors.NewAppError(500, "failed to adjust inventory for vendor "+vendorID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInsufficientInventory
	}
	return nil
}
