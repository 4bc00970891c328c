package approval

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no action row exists for the provided
// identifier. Transport failures are reported separately so callers can
// tell an empty result from a broken gateway.
var ErrNotFound = errors.New("approval: not found")

// Repository provides joined reads and decision writes against the
// actions table and its relations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const recordSelect = `
	SELECT
		a.id, a.user_id, a.issue_id, a.proposed_vendor_id, a.action_type,
		a.title, a.detail, a.status, a.created_at, a.updated_at,
		i.id, i.name, i.description, i.status, i.urgency,
		u.id, u.name, u.building_id,
		b.id, b.name, b.address,
		t.id, t.name, t.email, t.phone,
		v.id, v.name, v.trade, v.email, v.phone,
		sv.id, sv.name, sv.trade, sv.email, sv.phone
	FROM actions a
	LEFT JOIN issues i ON i.id = a.issue_id
	LEFT JOIN units u ON u.id = i.unit_id
	LEFT JOIN buildings b ON b.id = u.building_id
	LEFT JOIN tenants t ON t.id = i.tenant_id
	LEFT JOIN vendors v ON v.id = i.vendor_id
	LEFT JOIN vendors sv ON sv.id = i.suggested_vendor_id
`

// List fetches all records whose status matches scope, newest first, with
// the full issue detail eagerly resolved. ScopeAll disables the filter.
func (r *Repository) List(ctx context.Context, scope StatusScope) ([]Record, error) {
	query := recordSelect
	args := []any{}
	if scope != ScopeAll && scope != "" {
		query += ` WHERE a.status = $1`
		args = append(args, string(scope))
	}
	query += ` ORDER BY a.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("approval: list: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, 16)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("approval: scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("approval: iterate records: %w", err)
	}

	return records, nil
}

// GetByID fetches a single record with the same join shape as List.
func (r *Repository) GetByID(ctx context.Context, id string) (Record, error) {
	row := r.pool.QueryRow(ctx, recordSelect+` WHERE a.id = $1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("approval: get by id: %w", err)
	}
	return rec, nil
}

// UpdateStatus writes the decided status and a fresh updated_at to the
// action row. The issue side of a decision is a separate write.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE actions
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, id, string(status), updatedAt)
	if err != nil {
		return fmt.Errorf("approval: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkIssueInProgress transitions the linked issue and, when vendorID is
// non-nil, assigns the vendor the approval proposed.
func (r *Repository) MarkIssueInProgress(ctx context.Context, issueID string, vendorID *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE issues
		SET status = $2,
		    vendor_id = COALESCE($3, vendor_id),
		    updated_at = now()
		WHERE id = $1
	`, issueID, IssueStatusInProgress, vendorID)
	if err != nil {
		return fmt.Errorf("approval: mark issue in progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec Record

		issueID, issueName, issueStatus, issueUrgency sql.NullString
		issueDescription                              sql.NullString

		unitID, unitName, unitBuildingID sql.NullString

		buildingID, buildingName, buildingAddress sql.NullString

		tenantID, tenantName, tenantEmail, tenantPhone sql.NullString

		vendorID, vendorName, vendorTrade, vendorEmail, vendorPhone                sql.NullString
		suggestedID, suggestedName, suggestedTrade, suggestedEmail, suggestedPhone sql.NullString
	)

	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.IssueID, &rec.ProposedVendorID, &rec.Type,
		&rec.Title, &rec.Detail, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
		&issueID, &issueName, &issueDescription, &issueStatus, &issueUrgency,
		&unitID, &unitName, &unitBuildingID,
		&buildingID, &buildingName, &buildingAddress,
		&tenantID, &tenantName, &tenantEmail, &tenantPhone,
		&vendorID, &vendorName, &vendorTrade, &vendorEmail, &vendorPhone,
		&suggestedID, &suggestedName, &suggestedTrade, &suggestedEmail, &suggestedPhone,
	)
	if err != nil {
		return Record{}, err
	}

	if issueID.Valid {
		issue := &Issue{
			ID:          issueID.String,
			Name:        issueName.String,
			Description: nullable(issueDescription),
			Status:      issueStatus.String,
			Urgency:     Urgency(issueUrgency.String),
			Unit: Unit{
				ID:         unitID.String,
				Name:       unitName.String,
				BuildingID: unitBuildingID.String,
				Building: Building{
					ID:      buildingID.String,
					Name:    buildingName.String,
					Address: nullable(buildingAddress),
				},
			},
			Tenant: Tenant{
				ID:    tenantID.String,
				Name:  tenantName.String,
				Email: tenantEmail.String,
				Phone: nullable(tenantPhone),
			},
		}
		if vendorID.Valid {
			issue.Vendor = &Vendor{
				ID:    vendorID.String,
				Name:  vendorName.String,
				Trade: nullable(vendorTrade),
				Email: nullable(vendorEmail),
				Phone: nullable(vendorPhone),
			}
		}
		if suggestedID.Valid {
			issue.SuggestedVendor = &Vendor{
				ID:    suggestedID.String,
				Name:  suggestedName.String,
				Trade: nullable(suggestedTrade),
				Email: nullable(suggestedEmail),
				Phone: nullable(suggestedPhone),
			}
		}
		rec.Issue = issue
	}

	return rec, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
