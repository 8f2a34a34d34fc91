package corporate

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists corporate service requests.
type Repository interface {
	CreateRequest(ctx context.Context, r *Request) (*Request, error)
	ListRequests(ctx context.Context) ([]Request, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) CreateRequest(ctx context.Context, req *Request) (*Request, error) {
	out := *req

	err := r.pool.QueryRow(ctx, `
		INSERT INTO corporate_requests (
			company_name, contact_person, email, phone, service_type,
			number_of_employees, preferred_date, message, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING id, created_at
	`, req.CompanyName, req.ContactPerson, req.Email, req.Phone,
		req.ServiceType, req.NumberOfEmployees, req.PreferredDate, req.Message,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create corporate request: %w", err)
	}

	return &out, nil
}

func (r *PgRepository) ListRequests(ctx context.Context) ([]Request, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, company_name, contact_person, email, phone, service_type,
		       number_of_employees, preferred_date, message, created_at
		FROM corporate_requests
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list corporate requests: %w", err)
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		var req Request
		err := rows.Scan(
			&req.ID,
			&req.CompanyName,
			&req.ContactPerson,
			&req.Email,
			&req.Phone,
			&req.ServiceType,
			&req.NumberOfEmployees,
			&req.PreferredDate,
			&req.Message,
			&req.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
