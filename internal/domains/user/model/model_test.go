package model_test

import (
	"littlelemon/internal/domains/user/model"
	"littlelemon/shared/constant"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_Role(t *testing.T) {
	assert.Equal(t, constant.RoleAdmin, model.User{IsStaff: true}.Role())
	assert.Equal(t, constant.RoleUser, model.User{}.Role())
}

func TestUser_URL(t *testing.T) {
	assert.Equal(t, "/auth/users/12/", model.User{ID: 12}.URL())
}

func TestGroupNames(t *testing.T) {
	names := model.GroupNames([]model.Membership{
		{UserID: 1, GroupName: "Manager"},
		{UserID: 2, GroupName: "Delivery crew"},
		{UserID: 1, GroupName: "Delivery crew"},
	})

	assert.Equal(t, map[int64][]string{
		1: {"Manager", "Delivery crew"},
		2: {"Delivery crew"},
	}, names)
	assert.Empty(t, model.GroupNames(nil))
}
