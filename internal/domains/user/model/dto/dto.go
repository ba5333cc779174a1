package dto

import (
	"littlelemon/internal/domains/user/model"
	gDto "littlelemon/shared/dto"
	gModel "littlelemon/shared/model"
	"net/http"
	"net/url"
	"strings"
)

const QueryParamSearch = "search"

// UserResponse is the outward view of a user. Groups are flattened to their names.
type UserResponse struct {
	URL      string   `json:"url"`
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Groups   []string `json:"groups"`
}

func (r *UserResponse) FromModel(user model.User, groups []string) {
	if groups == nil {
		groups = []string{}
	}

	r.URL = user.URL()
	r.ID = user.ID
	r.Username = user.Username
	r.Email = user.Email
	r.Groups = groups
}

type GetUsersResponse struct {
	Items []UserResponse `json:"items"`
	Total int            `json:"total"`
}

func (r *GetUsersResponse) FromModels(users []model.User, groups map[int64][]string, total int) {
	r.Total = total

	r.Items = make([]UserResponse, len(users))
	for i, user := range users {
		r.Items[i].FromModel(user, groups[user.ID])
	}
}

// SetGroupsRequest replaces every membership of a user; an empty list removes them all.
type SetGroupsRequest struct {
	Groups []string `json:"groups" validate:"required,dive,notblank,max=150"`
}

// Names returns the requested names trimmed and without duplicates, keeping their order.
func (r *SetGroupsRequest) Names() []string {
	seen := make(map[string]bool, len(r.Groups))
	names := make([]string, 0, len(r.Groups))

	for _, name := range r.Groups {
		name = strings.TrimSpace(name)
		if seen[name] {
			continue
		}

		seen[name] = true
		names = append(names, name)
	}

	return names
}

type GroupRequest struct {
	Name *string `json:"name" validate:"required,notblank,max=150"`
}

func (r *GroupRequest) ToModel(user string) model.Group {
	group := model.Group{Metadata: gModel.NewMetadata(user)}

	if r.Name != nil {
		group.Name = strings.TrimSpace(*r.Name)
	}

	return group
}

// GroupResponse is only served on administrative routes, so it carries the audit trail.
type GroupResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	gDto.Metadata
}

func (r *GroupResponse) FromModel(group model.Group) {
	r.ID = group.ID
	r.Name = group.Name
	r.Metadata.FromModel(group.Metadata)
}

func FromGroups(groups []model.Group) []GroupResponse {
	res := make([]GroupResponse, len(groups))
	for i, group := range groups {
		res[i].FromModel(group)
	}

	return res
}

// UserFilter narrows the admin user listing to usernames containing Search.
type UserFilter struct {
	Search string
}

func (f *UserFilter) FromRequest(r *http.Request) {
	f.Search = strings.TrimSpace(r.URL.Query().Get(QueryParamSearch))
}

func (f *UserFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{}

	if f.Search != "" {
		group.And(gDto.Filter{
			Field:    model.FieldUsername,
			Value:    f.Search,
			Operator: gDto.FilterOperatorLike,
			Table:    model.TableName,
		})
	}

	return group
}

func (f *UserFilter) Values() url.Values {
	values := url.Values{}

	if f.Search != "" {
		values.Set(QueryParamSearch, strings.ToLower(f.Search))
	}

	return values
}
