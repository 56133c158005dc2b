package locations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
)

func setupLocationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	universities := `
CREATE TABLE IF NOT EXISTS universities (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  city TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	rooms := `
CREATE TABLE IF NOT EXISTS rooms (
  id TEXT PRIMARY KEY,
  university_id TEXT NOT NULL,
  name TEXT NOT NULL,
  building TEXT,
  floor INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(universities).Error)
	require.NoError(t, db.Exec(rooms).Error)
	return db
}

func seedUniversity(t *testing.T, db *gorm.DB, name string) *models.University {
	t.Helper()
	row := &models.University{
		ID:        uuid.New(),
		Name:      name,
		City:      "Lyon",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func seedRoom(t *testing.T, db *gorm.DB, universityID uuid.UUID, name string) *models.Room {
	t.Helper()
	row := &models.Room{
		ID:           uuid.New(),
		UniversityID: universityID,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestListUniversitiesOrdersByName(t *testing.T) {
	db := setupLocationsTestDB(t)
	repo := NewRepository(db)

	seedUniversity(t, db, "Université de Lyon")
	seedUniversity(t, db, "Université Paris-Saclay")

	rows, err := repo.ListUniversities(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Case-insensitive ordering: "de Lyon" sorts before "Paris-Saclay"
	// even though 'P' < 'd' in raw byte order.
	assert.Equal(t, "Université de Lyon", rows[0].Name)
	assert.Equal(t, "Université Paris-Saclay", rows[1].Name)
}

func TestListRoomsFiltersByUniversity(t *testing.T) {
	db := setupLocationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	lyon := seedUniversity(t, db, "Université de Lyon")
	saclay := seedUniversity(t, db, "Université Paris-Saclay")
	seedRoom(t, db, lyon.ID, "Salle C12")
	seedRoom(t, db, saclay.ID, "Salle A101")
	seedRoom(t, db, saclay.ID, "Salle B204")

	all, err := repo.ListRooms(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	scoped, err := repo.ListRooms(ctx, &saclay.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	for _, room := range scoped {
		assert.Equal(t, saclay.ID, room.UniversityID)
	}
}

func TestFindUniversityByIDMissing(t *testing.T) {
	db := setupLocationsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindUniversityByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
