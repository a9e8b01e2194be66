package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentPersistenceProjectionOmitsPassword(t *testing.T) {
	student := NewStudent("Budi Santoso", "2110511001", "2110511001", "rahasia", "TI-3A")
	student.ID = 7

	projection := student.PersistenceProjection()

	_, hasPassword := projection["password"]
	assert.False(t, hasPassword)
	for key, value := range projection {
		assert.NotEqual(t, "rahasia", value, "field %s leaks the password", key)
	}
	assert.Equal(t, int64(7), projection["id"])
	assert.Equal(t, "2110511001", projection["nim"])
	assert.Equal(t, "TI-3A", projection["class"])
	assert.Equal(t, RoleStudent, projection["role"])
}

func TestAdminPersistenceProjectionNullsStudentFields(t *testing.T) {
	admin := NewAdmin("Pak Agus", "admin", "admin123")

	projection := admin.PersistenceProjection()

	_, hasPassword := projection["password"]
	assert.False(t, hasPassword)
	assert.Nil(t, projection["nim"])
	assert.Nil(t, projection["class"])
	assert.Nil(t, projection["id"], "unpersisted admin carries a null id")
	assert.Equal(t, RoleAdmin, projection["role"])
}

func TestUserJSONNeverExposesPassword(t *testing.T) {
	student := NewStudent("Budi", "2110511001", "2110511001", "rahasia", "TI-3A")

	data, err := json.Marshal(student)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "rahasia")
}

func TestValidateCredential(t *testing.T) {
	user := User{Password: "rahasia"}

	assert.True(t, user.ValidateCredential("rahasia"))
	assert.False(t, user.ValidateCredential("salah"))
	empty := User{}
	assert.False(t, empty.ValidateCredential(""))
}

func TestPersisted(t *testing.T) {
	assert.False(t, (&User{}).Persisted())
	assert.True(t, (&User{ID: 1}).Persisted())
}
