package service

import (
	"context"
	"fmt"
)

// Authorizer отвечает на вопрос "является ли участник оператором ресурса"
type Authorizer interface {
	IsOperator(ctx context.Context, resourceID, actorID string) (bool, error)
}

// ResourceAuthorizer сверяет участника с operator_id ресурса
type ResourceAuthorizer struct {
	resources ResourceRepository
}

func NewResourceAuthorizer(resources ResourceRepository) *ResourceAuthorizer {
	return &ResourceAuthorizer{resources: resources}
}

func (a *ResourceAuthorizer) IsOperator(ctx context.Context, resourceID, actorID string) (bool, error) {
	if actorID == "" {
		return false, nil
	}

	resource, err := a.resources.GetByID(ctx, resourceID)
	if err != nil {
		return false, fmt.Errorf("get resource: %w", err)
	}
	if resource == nil {
		return false, nil
	}

	return resource.OperatorID == actorID, nil
}
