package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared", true)
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, db.Migrator().HasTable("recipes"))
	assert.True(t, db.Migrator().HasTable("ingredients"))
	assert.True(t, db.Migrator().HasIndex("ingredients", "idx_recipe_ingredient_name"))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(DriverMemory, "", true)
	assert.ErrorContains(t, err, "unsupported database driver")
}
