package repository

import (
	"context"
	"littlelemon/infras/otel/mocks"
	"littlelemon/shared/dto"
	"littlelemon/shared/failure"
	"littlelemon/shared/model"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dish struct {
	ID        int64  `db:"id" insert:"-"`
	Title     string `db:"title"`
	Category  string `db:"category_name" table:"categories" column:"name"`
	Transient string
	Skipped   string `db:"-"`
	model.Metadata
}

func (dish) GetJoinQuery() string {
	return "LEFT JOIN categories ON categories.id = dishes.category_id"
}

func (dish) GetOrderQuery() string {
	return "dishes.title ASC, dishes.id ASC"
}

type membership struct {
	UserID  int64 `db:"user_id"`
	GroupID int64 `db:"group_id"`
}

func TestNewRepository_Columns(t *testing.T) {
	repo := NewRepository[dish]("dish", "dishes", "id", nil, mocks.NewOtel())

	assert.Equal(t, []string{"title", "created_at", "modified_at", "created_by", "modified_by"}, repo.InsertColumns)
	assert.True(t, repo.returning)
	assert.Equal(t, "LEFT JOIN categories ON categories.id = dishes.category_id", repo.join)
	assert.Equal(t,
		"dishes.id, dishes.title, categories.name AS category_name, dishes.created_at, dishes.modified_at, dishes.created_by, dishes.modified_by",
		repo.getSelectQuery(context.Background()),
	)
	assert.Equal(t, "dishes.id, dishes.title", repo.getSelectQuery(context.Background(), "id", "title"))
}

func TestInsertQuery(t *testing.T) {
	repo := NewRepository[dish]("dish", "dishes", "id", nil, mocks.NewOtel())
	assert.Equal(t,
		"INSERT INTO dishes (title, created_at, modified_at, created_by, modified_by) VALUES (:title, :created_at, :modified_at, :created_by, :modified_by) RETURNING id",
		repo.insertQuery(),
	)

	link := NewRepository[membership]("membership", "user_groups", "user_id", nil, mocks.NewOtel())
	assert.False(t, link.returning)
	assert.Equal(t, "INSERT INTO user_groups (user_id, group_id) VALUES (:user_id, :group_id)", link.insertQuery())
}

func TestOrderClause(t *testing.T) {
	repo := NewRepository[dish]("dish", "dishes", "id", nil, mocks.NewOtel())

	order, err := repo.orderClause(dto.QueryParams{})
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY dishes.title ASC, dishes.id ASC", order)

	order, err = repo.orderClause(dto.QueryParams{SortBy: "created_at", SortDir: dto.SortDirDesc})
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY dishes.created_at DESC, dishes.title ASC, dishes.id ASC", order)

	_, err = repo.orderClause(dto.QueryParams{SortBy: "title; DROP TABLE dishes"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	link := NewRepository[membership]("membership", "user_groups", "user_id", nil, mocks.NewOtel())
	order, err = link.orderClause(dto.QueryParams{})
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestPaginationClause(t *testing.T) {
	args := map[string]any{}
	assert.Equal(t, "LIMIT :limit OFFSET :offset", paginationClause(dto.QueryParams{Page: 3, Limit: 10}, args))
	assert.Equal(t, map[string]any{"limit": 10, "offset": 20}, args)

	args = map[string]any{}
	assert.Equal(t, "LIMIT :limit", paginationClause(dto.QueryParams{Limit: 5}, args))

	assert.Empty(t, paginationClause(dto.QueryParams{}, map[string]any{}))
}

func TestUpdateQuery(t *testing.T) {
	repo := NewRepository[dish]("dish", "dishes", "id", nil, mocks.NewOtel())

	filter := dto.FilterGroup{Filters: []any{dto.Filter{Field: "id", Value: int64(4), Operator: dto.FilterOperatorEq, Table: "dishes"}}}

	query, args := repo.updateQuery(context.Background(), map[string]any{"title": "Bruschetta", "modified_by": "mario"}, filter)

	assert.Equal(t, "UPDATE dishes SET modified_by = :modified_by, title = :title  WHERE (dishes.id = :id) ", query)
	assert.Equal(t, map[string]any{"id": int64(4), "title": "Bruschetta", "modified_by": "mario"}, args)
}
