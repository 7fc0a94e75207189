package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecFor(t *testing.T) {
	assert.Equal(t, "uuid", CodecFor("postgres").ColumnType())
	assert.Equal(t, "varchar(36)", CodecFor("sqlite").ColumnType())
	assert.Equal(t, "varchar(36)", CodecFor("mysql").ColumnType())
}

func TestCodecEncode(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, CodecFor("postgres").Encode(id))
	assert.Equal(t, id.String(), CodecFor("sqlite").Encode(id))
}

func TestCodecDecode(t *testing.T) {
	id := uuid.New()
	raw := [16]byte(id)

	native := CodecFor("postgres")
	for _, src := range []any{raw, raw[:], id.String(), []byte(id.String())} {
		got, err := native.Decode(src)
		require.NoError(t, err, "%T", src)
		assert.Equal(t, id, got)
	}

	str := CodecFor("sqlite")
	for _, src := range []any{id.String(), []byte(id.String())} {
		got, err := str.Decode(src)
		require.NoError(t, err, "%T", src)
		assert.Equal(t, id, got)
	}
	_, err := str.Decode(42)
	assert.Error(t, err)
	_, err = str.Decode("not-a-uuid")
	assert.Error(t, err)
}

func TestUUIDScan(t *testing.T) {
	id := uuid.New()
	raw := [16]byte(id)
	for _, src := range []any{id.String(), []byte(id.String()), raw[:], raw} {
		var u UUID
		require.NoError(t, u.Scan(src), "%T", src)
		assert.Equal(t, id, u.UUID())
	}

	var u UUID
	require.NoError(t, u.Scan(nil))
	assert.True(t, u.IsNil())
	assert.Error(t, u.Scan(12))
}

func TestUserJSON(t *testing.T) {
	u := User{
		ID:        NewUUID(),
		Name:      "John Doe",
		Email:     "john@example.com",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	b, err := json.Marshal(u)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, u.ID.String(), m["id"])
	assert.Equal(t, "John Doe", m["name"])
	assert.Equal(t, "john@example.com", m["email"])
	assert.Equal(t, "2024-01-02T03:04:05Z", m["created_at"])

	var back User
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, u.ID, back.ID)
}

func TestBeforeCreateKeepsID(t *testing.T) {
	id := NewUUID()
	u := User{ID: id}
	require.NoError(t, u.BeforeCreate(nil))
	assert.Equal(t, id, u.ID)

	var fresh User
	require.NoError(t, fresh.BeforeCreate(nil))
	assert.False(t, fresh.ID.IsNil())
}
