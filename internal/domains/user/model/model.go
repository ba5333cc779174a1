package model

import (
	"littlelemon/shared/constant"
	"littlelemon/shared/model"
	"strconv"
	"time"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldIsStaff   = "is_staff"
	FieldIsActive  = "is_active"
	FieldLastLogin = "last_login"

	UsernameMaxLength = 150
)

const (
	GroupTableName  = "groups"
	GroupEntityName = "group"

	FieldGroupName = "name"
)

const (
	MembershipTableName  = "user_groups"
	MembershipEntityName = "user group"

	FieldUserID  = "user_id"
	FieldGroupID = "group_id"
)

type User struct {
	ID        int64      `db:"id"         insert:"-"`
	Username  string     `db:"username"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	IsStaff   bool       `db:"is_staff"`
	IsActive  bool       `db:"is_active"`
	LastLogin *time.Time `db:"last_login"`
	model.Metadata
}

func (User) GetOrderQuery() string {
	return TableName + ".username ASC"
}

// Role is the role carried in the user's tokens.
func (u User) Role() string {
	if u.IsStaff {
		return constant.RoleAdmin
	}

	return constant.RoleUser
}

// URL is the address clients use to refer to the user.
func (u User) URL() string {
	return "/auth/users/" + strconv.FormatInt(u.ID, 10) + "/"
}

type Group struct {
	ID   int64  `db:"id"   insert:"-"`
	Name string `db:"name"`
	model.Metadata
}

func (Group) GetOrderQuery() string {
	return GroupTableName + ".name ASC"
}

// Membership links a user to a group. GroupName is read through the join and never written.
type Membership struct {
	UserID    int64  `db:"user_id"`
	GroupID   int64  `db:"group_id"`
	GroupName string `db:"group_name" table:"groups" column:"name"`
}

func (Membership) GetJoinQuery() string {
	return "JOIN " + GroupTableName + " ON " + GroupTableName + ".id = " + MembershipTableName + ".group_id"
}

func (Membership) GetOrderQuery() string {
	return GroupTableName + ".name ASC"
}

// GroupNames collects the names of memberships per user.
func GroupNames(memberships []Membership) map[int64][]string {
	names := make(map[int64][]string, len(memberships))

	for _, membership := range memberships {
		names[membership.UserID] = append(names[membership.UserID], membership.GroupName)
	}

	return names
}
