package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dafiprotocol/gateway/internal/domain"
)

// ErrNotFound indicates that no profile is registered for the principal.
var ErrNotFound = errors.New("profile not found")

// Repository defines persistent storage for registered profiles.
type Repository interface {
	Save(ctx context.Context, profile domain.Profile) error
	GetByPrincipal(ctx context.Context, principal string) (domain.Profile, error)
	ListByKYCStatus(ctx context.Context, status domain.KYCStatus) ([]domain.Profile, error)
	UpdateKYCStatus(ctx context.Context, principal string, status domain.KYCStatus) error
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL profile repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const profileColumns = `principal, role, name, email, wallet_address,
	experience, specialization, investment_goals, risk_profile, kyc_status, registered_at`

func (r *PgRepository) Save(ctx context.Context, p domain.Profile) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO profiles (principal, role, name, email, wallet_address,
			experience, specialization, investment_goals, risk_profile, kyc_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (principal) DO UPDATE SET
			role = $2, name = $3, email = $4, wallet_address = $5,
			experience = $6, specialization = $7, investment_goals = $8, risk_profile = $9`,
		p.Principal, p.Role, p.Name, p.Email, p.WalletAddress,
		p.Experience, p.Specialization, p.InvestmentGoals, p.RiskProfile, p.KYCStatus)
	if err != nil {
		return fmt.Errorf("saving profile for %s: %w", p.Principal, err)
	}
	return nil
}

func (r *PgRepository) GetByPrincipal(ctx context.Context, principal string) (domain.Profile, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE principal = $1`, principal)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, ErrNotFound
		}
		return domain.Profile{}, fmt.Errorf("getting profile for %s: %w", principal, err)
	}
	return p, nil
}

func (r *PgRepository) ListByKYCStatus(ctx context.Context, status domain.KYCStatus) ([]domain.Profile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE kyc_status = $1 ORDER BY registered_at`, status)
	if err != nil {
		return nil, fmt.Errorf("listing profiles with status %s: %w", status, err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *PgRepository) UpdateKYCStatus(ctx context.Context, principal string, status domain.KYCStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE profiles SET kyc_status = $2 WHERE principal = $1`, principal, status)
	if err != nil {
		return fmt.Errorf("updating kyc status for %s: %w", principal, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(&p.Principal, &p.Role, &p.Name, &p.Email, &p.WalletAddress,
		&p.Experience, &p.Specialization, &p.InvestmentGoals, &p.RiskProfile,
		&p.KYCStatus, &p.RegisteredAt)
	return p, err
}
