package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"littlelemon/infras/otel"
	"littlelemon/infras/postgres"
	"littlelemon/internal/domains/user/model"
	gDto "littlelemon/shared/dto"
	gRepo "littlelemon/shared/repository"

	"github.com/jmoiron/sqlx"
)

type User interface {
	Insert(ctx context.Context, model model.User) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type Group interface {
	Insert(ctx context.Context, model model.Group) (int64, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Group, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
}

type Membership interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Membership, error)
	// Replace swaps every membership of userID for groupIDs in one transaction.
	Replace(ctx context.Context, userID int64, groupIDs []int64) error
}

type userRepository struct {
	gRepo.Repository[model.User]
}

func NewUser(db *postgres.Connection, otel otel.Otel) User {
	return &userRepository{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

type groupRepository struct {
	gRepo.Repository[model.Group]
}

func NewGroup(db *postgres.Connection, otel otel.Otel) Group {
	return &groupRepository{
		Repository: gRepo.NewRepository[model.Group](model.GroupEntityName, model.GroupTableName, model.FieldID, db, otel),
	}
}

type membershipRepository struct {
	gRepo.Repository[model.Membership]
}

func NewMembership(db *postgres.Connection, otel otel.Otel) Membership {
	return &membershipRepository{
		Repository: gRepo.NewRepository[model.Membership](model.MembershipEntityName, model.MembershipTableName, model.FieldUserID, db, otel),
	}
}

func (r *membershipRepository) Replace(ctx context.Context, userID int64, groupIDs []int64) error {
	memberships := make([]model.Membership, len(groupIDs))
	for i, groupID := range groupIDs {
		memberships[i] = model.Membership{UserID: userID, GroupID: groupID}
	}

	filter := gDto.FilterGroup{}
	filter.And(gDto.Filter{
		Field:    model.FieldUserID,
		Value:    userID,
		Operator: gDto.FilterOperatorEq,
		Table:    model.MembershipTableName,
	})

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := r.DeleteTx(ctx, tx, filter); err != nil {
			return err //nolint:wrapcheck
		}

		return r.InsertBulkTx(ctx, tx, memberships) //nolint:wrapcheck
	})
	if err != nil {
		return fmt.Errorf("failed to replace memberships of user %d: %w", userID, err)
	}

	return nil
}
