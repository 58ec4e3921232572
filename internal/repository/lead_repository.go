package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/aayush1303/Estatesync/internal/models"
)

// LeadFilter narrows a lead listing. Zero values mean "no filter".
type LeadFilter struct {
	City         string
	PropertyType string
	Status       string
	Timeline     string
	// Search matches fullName, phone and email (case-insensitive).
	Search   string
	Page     int
	PageSize int
}

// LeadRepository defines the interface for lead persistence operations
type LeadRepository interface {
	// CreateLead inserts a single validated lead, assigning its ID and
	// timestamps.
	CreateLead(ctx context.Context, lead *models.Lead) error

	// CreateLeadBatch inserts all leads in one transaction. Used by the
	// bulk import to persist the accepted rows of a batch together.
	CreateLeadBatch(ctx context.Context, leads []models.Lead, ownerID string) error

	// GetLeadByID retrieves a lead by its ID
	GetLeadByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)

	// ListLeads returns a filtered, paginated page of leads plus the
	// total count matching the filter.
	ListLeads(ctx context.Context, filter LeadFilter) ([]*models.Lead, int, error)

	// UpdateLead replaces a lead's editable fields if and only if the
	// stored updated_at still equals expectedUpdatedAt, and records a
	// history entry with the field diff. Returns ErrStaleLead when the
	// row changed underneath the caller.
	UpdateLead(ctx context.Context, lead *models.Lead, expectedUpdatedAt time.Time) error

	// DeleteLead removes a lead by ID
	DeleteLead(ctx context.Context, id uuid.UUID) error

	// GetLeadCountsByStatus returns counts of leads grouped by status
	GetLeadCountsByStatus(ctx context.Context) (map[string]int, error)

	// GetLeadHistory returns the most recent edits for a lead
	GetLeadHistory(ctx context.Context, leadID uuid.UUID, limit int) ([]*models.LeadHistory, error)
}

// leadRepository is the concrete implementation of LeadRepository
type leadRepository struct {
	db *sql.DB
}

// NewLeadRepository creates a new LeadRepository instance
func NewLeadRepository(db *sql.DB) LeadRepository {
	return &leadRepository{
		db: db,
	}
}

const leadColumns = `
	id, full_name, email, phone, city, property_type, bhk, purpose,
	budget_min, budget_max, timeline, source, status, notes, tags,
	attachment_url, owner_id, created_at, updated_at
`

const insertLeadQuery = `
	INSERT INTO leads (
		id, full_name, email, phone, city, property_type, bhk, purpose,
		budget_min, budget_max, timeline, source, status, notes, tags,
		attachment_url, owner_id, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
`

// CreateLead inserts a single validated lead
func (r *leadRepository) CreateLead(ctx context.Context, lead *models.Lead) error {
	prepareForInsert(lead)

	_, err := r.db.ExecContext(ctx, insertLeadQuery, insertArgs(lead)...)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	return nil
}

// CreateLeadBatch inserts all leads in one transaction. If any insert
// fails the whole batch rolls back; rejected rows never reach here, so a
// failure indicates a storage problem rather than bad input.
func (r *leadRepository) CreateLeadBatch(ctx context.Context, leads []models.Lead, ownerID string) error {
	if len(leads) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertLeadQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range leads {
		lead := &leads[i]
		if lead.OwnerID == "" {
			lead.OwnerID = ownerID
		}
		prepareForInsert(lead)

		if _, err := stmt.ExecContext(ctx, insertArgs(lead)...); err != nil {
			return fmt.Errorf("failed to insert imported lead %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import batch: %w", err)
	}

	return nil
}

// GetLeadByID retrieves a lead by its ID
func (r *leadRepository) GetLeadByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	return lead, nil
}

// ListLeads returns a filtered, paginated page of leads ordered by most
// recently updated, plus the total matching count.
func (r *leadRepository) ListLeads(ctx context.Context, filter LeadFilter) ([]*models.Lead, int, error) {
	where, args := buildLeadFilter(filter)

	countQuery := `SELECT COUNT(*) FROM leads` + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	query := fmt.Sprintf(
		`SELECT %s FROM leads%s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`,
		leadColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	leads := []*models.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate leads: %w", err)
	}

	return leads, total, nil
}

// UpdateLead performs an optimistic update guarded by updated_at and
// writes the change history in the same transaction.
func (r *leadRepository) UpdateLead(ctx context.Context, lead *models.Lead, expectedUpdatedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	currentQuery := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 FOR UPDATE`
	current, err := scanLead(tx.QueryRowContext(ctx, currentQuery, lead.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrLeadNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load lead for update: %w", err)
	}

	// The client echoes the updated_at it last saw; a mismatch means
	// someone else edited the lead in the meantime.
	if !current.UpdatedAt.Equal(expectedUpdatedAt) {
		return models.ErrStaleLead
	}

	lead.CreatedAt = current.CreatedAt
	lead.OwnerID = current.OwnerID
	lead.UpdatedAt = time.Now().UTC()

	updateQuery := `
		UPDATE leads SET
			full_name = $2, email = $3, phone = $4, city = $5,
			property_type = $6, bhk = $7, purpose = $8, budget_min = $9,
			budget_max = $10, timeline = $11, source = $12, status = $13,
			notes = $14, tags = $15, attachment_url = $16, updated_at = $17
		WHERE id = $1
	`
	_, err = tx.ExecContext(ctx, updateQuery,
		lead.ID, lead.FullName, nullable(lead.Email), lead.Phone,
		lead.City, lead.PropertyType, nullable(string(lead.BHK)), lead.Purpose,
		lead.BudgetMin, lead.BudgetMax, lead.Timeline, lead.Source, lead.Status,
		nullable(lead.Notes), pq.Array(lead.Tags), nullable(lead.AttachmentURL),
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}

	if diff := current.Diff(lead); len(diff) > 0 {
		historyQuery := `
			INSERT INTO lead_history (lead_id, changed_by, changed_at, diff)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.ExecContext(ctx, historyQuery, lead.ID, lead.OwnerID, lead.UpdatedAt, diff); err != nil {
			return fmt.Errorf("failed to record lead history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit lead update: %w", err)
	}

	return nil
}

// DeleteLead removes a lead by ID
func (r *leadRepository) DeleteLead(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return models.ErrLeadNotFound
	}

	return nil
}

// GetLeadCountsByStatus returns counts of leads grouped by status
func (r *leadRepository) GetLeadCountsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan lead count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lead counts: %w", err)
	}

	return counts, nil
}

// GetLeadHistory returns the most recent edits for a lead
func (r *leadRepository) GetLeadHistory(ctx context.Context, leadID uuid.UUID, limit int) ([]*models.LeadHistory, error) {
	if limit < 1 {
		limit = 10
	}

	query := `
		SELECT id, lead_id, changed_by, changed_at, diff
		FROM lead_history
		WHERE lead_id = $1
		ORDER BY changed_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, leadID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead history: %w", err)
	}
	defer rows.Close()

	history := []*models.LeadHistory{}
	for rows.Next() {
		entry := &models.LeadHistory{}
		var changedBy sql.NullString
		if err := rows.Scan(&entry.ID, &entry.LeadID, &changedBy, &entry.ChangedAt, &entry.Diff); err != nil {
			return nil, fmt.Errorf("failed to scan lead history: %w", err)
		}
		entry.ChangedBy = changedBy.String
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lead history: %w", err)
	}

	return history, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row scanner) (*models.Lead, error) {
	lead := &models.Lead{}
	var email, bhk, notes, attachmentURL, ownerID sql.NullString
	var tags pq.StringArray

	err := row.Scan(
		&lead.ID, &lead.FullName, &email, &lead.Phone, &lead.City,
		&lead.PropertyType, &bhk, &lead.Purpose, &lead.BudgetMin,
		&lead.BudgetMax, &lead.Timeline, &lead.Source, &lead.Status,
		&notes, &tags, &attachmentURL, &ownerID,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Email = email.String
	lead.BHK = models.BHK(bhk.String)
	lead.Notes = notes.String
	lead.AttachmentURL = attachmentURL.String
	lead.OwnerID = ownerID.String
	lead.Tags = []string(tags)
	if lead.Tags == nil {
		lead.Tags = []string{}
	}

	return lead, nil
}

func prepareForInsert(lead *models.Lead) {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	now := time.Now().UTC()
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	if lead.UpdatedAt.IsZero() {
		lead.UpdatedAt = now
	}
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
}

func insertArgs(lead *models.Lead) []interface{} {
	return []interface{}{
		lead.ID, lead.FullName, nullable(lead.Email), lead.Phone,
		lead.City, lead.PropertyType, nullable(string(lead.BHK)), lead.Purpose,
		lead.BudgetMin, lead.BudgetMax, lead.Timeline, lead.Source, lead.Status,
		nullable(lead.Notes), pq.Array(lead.Tags), nullable(lead.AttachmentURL),
		nullable(lead.OwnerID), lead.CreatedAt, lead.UpdatedAt,
	}
}

// nullable maps the empty string to SQL NULL for optional columns.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// buildLeadFilter renders the WHERE clause for a filter. It returns the
// clause (with leading space) and its positional args.
func buildLeadFilter(filter LeadFilter) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.City != "" {
		add("city = $%d", filter.City)
	}
	if filter.PropertyType != "" {
		add("property_type = $%d", filter.PropertyType)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Timeline != "" {
		add("timeline = $%d", filter.Timeline)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(full_name ILIKE $%d OR phone ILIKE $%d OR email ILIKE $%d)", n, n, n,
		))
	}

	if len(clauses) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}
