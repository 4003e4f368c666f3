package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRoleFromString(t *testing.T) {
	r, err := RoleFromString("ADMIN")
	require.NoError(t, err)
	assert.Equal(t, ADMIN, r)

	r, err = RoleFromString("")
	require.NoError(t, err)
	assert.Equal(t, EMPLOYE, r)

	_, err = RoleFromString("superuser")
	assert.Error(t, err)
}

func TestRoleJSON(t *testing.T) {
	u := User{Nom: "Diallo", Role: RESPONSABLE, Password: "hash"}
	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"role":"responsable"`)
	assert.NotContains(t, string(b), "hash")

	var back User
	require.NoError(t, json.Unmarshal([]byte(`{"role":"admin"}`), &back))
	assert.Equal(t, ADMIN, back.Role)
}

func TestRoleBSON_StoredByName(t *testing.T) {
	raw, err := bson.Marshal(User{Nom: "Diallo", Role: ADMIN})
	require.NoError(t, err)
	assert.Equal(t, "admin", bson.Raw(raw).Lookup("role").StringValue())

	var back User
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.Equal(t, ADMIN, back.Role)

	bad, err := bson.Marshal(bson.M{"role": 3})
	require.NoError(t, err)
	assert.Error(t, bson.Unmarshal(bad, &back))
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("loading task: %w", NewNotFoundError("Tâche non trouvée"))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindAuthentication, KindOf(ErrInvalidToken()))

	v := NewValidationError("invalide", map[string]string{"titre": "requis"})
	assert.Equal(t, map[string]string{"titre": "requis"}, FieldsOf(fmt.Errorf("ctx: %w", v)))
}
