package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntListScanAndValue(t *testing.T) {
	var l IntList
	require.NoError(t, l.Scan([]byte(`[1,3]`)))
	assert.Equal(t, IntList{1, 3}, l)

	v, err := IntList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)
	assert.Error(t, l.Scan(42))
}

func TestRawListKeepsOpaqueValues(t *testing.T) {
	var l RawList
	require.NoError(t, l.Scan(`["admin", {"org": 7}]`))
	require.Len(t, l, 2)
	assert.JSONEq(t, `{"org": 7}`, string(l[1]))

	out, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `["admin", {"org": 7}]`, string(out))
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, AnnouncementStatusUnpublished.Valid())
	assert.False(t, AnnouncementStatus(5).Valid())
	assert.Equal(t, "PUBLISHED", AnnouncementStatusPublished.String())
	assert.True(t, RecipientFilterUser.Valid())
	assert.False(t, RecipientFilterType(0).Valid())
}

func TestClaimsHasPermission(t *testing.T) {
	operator := &JWTClaims{Role: RoleOperator, Permissions: []string{"notify:announcement:read"}}
	assert.True(t, operator.HasPermission("notify:announcement:read"))
	assert.False(t, operator.HasPermission("notify:announcement:edit"))

	root := &JWTClaims{Role: RoleSuperAdmin}
	assert.True(t, root.HasPermission("notify:announcement:del"))

	var missing *JWTClaims
	assert.False(t, missing.HasPermission("notify:announcement:read"))
}
