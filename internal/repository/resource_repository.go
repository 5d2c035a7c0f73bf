package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"github.com/Freeeeeet/consultation_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ResourceRepository struct {
	*base.Repository
}

func NewResourceRepository(pool *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает ресурс по ID
func (r *ResourceRepository) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	query := `
		SELECT id, name, operator_id, operator_chat_id, operator_email, created_at
		FROM resources
		WHERE id = $1
	`

	resource, err := scanResource(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resource by id: %w", err)
	}

	return resource, nil
}

// List получает все ресурсы
func (r *ResourceRepository) List(ctx context.Context) ([]*model.Resource, error) {
	query := `
		SELECT id, name, operator_id, operator_chat_id, operator_email, created_at
		FROM resources
		ORDER BY id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var resources []*model.Resource
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, resource)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}

	return resources, nil
}

func scanResource(row pgx.Row) (*model.Resource, error) {
	var resource model.Resource
	err := row.Scan(
		&resource.ID,
		&resource.Name,
		&resource.OperatorID,
		&resource.OperatorChatID,
		&resource.OperatorEmail,
		&resource.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resource, nil
}
