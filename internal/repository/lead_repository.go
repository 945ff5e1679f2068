package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baroform/lead-service/internal/domain"
)

// LeadPatch is a partial update: only non-nil fields are written.
type LeadPatch struct {
	Name        *string
	Contact     *string
	Education   *string
	HopeCourse  *string
	Reasons     *[]domain.ReasonTag
	ClickSource *string
	Concerns    *[]domain.Concern
	Memo        *string
	Residence   *string
	Manager     *string
	SubjectCost *int64
	Status      *domain.LeadStatus
}

// LeadRepository encapsulates lead persistence. Reason and concern tag sets
// are joined/split at this boundary; everywhere else they are explicit slices.
type LeadRepository interface {
	List(ctx context.Context) ([]domain.Lead, error)
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	Create(ctx context.Context, lead *domain.Lead) error
	UpdateFields(ctx context.Context, id string, patch LeadPatch) error
	Delete(ctx context.Context, ids []string) (int64, error)
}

type leadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository returns a Postgres-backed implementation.
func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &leadRepository{pool: pool}
}

const leadColumns = `id, name, contact, education, hope_course, reason, click_source,
               counsel_check, memo, residence, manager, subject_cost, status, manual, created_at`

// List returns every lead, newest first.
func (r *leadRepository) List(ctx context.Context) ([]domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeads(rows)
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	leads, err := scanLeads(rows)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &leads[0], nil
}

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	const query = `
        INSERT INTO leads (name, contact, education, hope_course, reason, click_source,
            counsel_check, memo, residence, manager, subject_cost, status, manual)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at`
	status := lead.Status
	if status == "" {
		status = domain.LeadStatusAwaiting
	}
	if err := r.pool.QueryRow(ctx, query,
		lead.Name,
		lead.Contact,
		lead.Education,
		lead.HopeCourse,
		domain.JoinReasonTags(lead.Reasons),
		lead.ClickSource,
		domain.JoinConcerns(lead.Concerns),
		lead.Memo,
		lead.Residence,
		lead.Manager,
		lead.SubjectCost,
		status,
		lead.Manual,
	).Scan(&lead.ID, &lead.CreatedAt); err != nil {
		return err
	}
	lead.Status = status
	return nil
}

// UpdateFields applies a partial patch: only supplied fields change.
func (r *leadRepository) UpdateFields(ctx context.Context, id string, patch LeadPatch) error {
	query, args := buildLeadUpdate(id, patch)
	if query == "" {
		return nil
	}

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// buildLeadUpdate renders the dynamic SET clause for a partial patch, with
// numbered args and the id last. An empty patch yields an empty query.
func buildLeadUpdate(id string, patch LeadPatch) (string, []any) {
	sets := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Contact != nil {
		add("contact", *patch.Contact)
	}
	if patch.Education != nil {
		add("education", *patch.Education)
	}
	if patch.HopeCourse != nil {
		add("hope_course", *patch.HopeCourse)
	}
	if patch.Reasons != nil {
		add("reason", domain.JoinReasonTags(*patch.Reasons))
	}
	if patch.ClickSource != nil {
		add("click_source", *patch.ClickSource)
	}
	if patch.Concerns != nil {
		add("counsel_check", domain.JoinConcerns(*patch.Concerns))
	}
	if patch.Memo != nil {
		add("memo", *patch.Memo)
	}
	if patch.Residence != nil {
		add("residence", *patch.Residence)
	}
	if patch.Manager != nil {
		add("manager", *patch.Manager)
	}
	if patch.SubjectCost != nil {
		add("subject_cost", *patch.SubjectCost)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}

	if len(sets) == 0 {
		return "", nil
	}

	args = append(args, id)
	return fmt.Sprintf("UPDATE leads SET %s WHERE id=$%d", strings.Join(sets, ", "), len(args)), args
}

// Delete removes the given leads in a single batched statement and reports
// how many rows were removed.
func (r *leadRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanLeads(rows pgx.Rows) ([]domain.Lead, error) {
	var result []domain.Lead
	for rows.Next() {
		var (
			lead    domain.Lead
			reason  string
			concern string
		)
		if err := rows.Scan(
			&lead.ID,
			&lead.Name,
			&lead.Contact,
			&lead.Education,
			&lead.HopeCourse,
			&reason,
			&lead.ClickSource,
			&concern,
			&lead.Memo,
			&lead.Residence,
			&lead.Manager,
			&lead.SubjectCost,
			&lead.Status,
			&lead.Manual,
			&lead.CreatedAt,
		); err != nil {
			return nil, err
		}
		lead.Reasons = domain.ParseReasonTags(reason)
		lead.Concerns = domain.ParseConcerns(concern)
		result = append(result, lead)
	}
	return result, rows.Err()
}
