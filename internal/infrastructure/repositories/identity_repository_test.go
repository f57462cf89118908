package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/aarogyam/domain"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&DBIdentity{}, &DBAppointment{}, &DBMedicalReport{}, &DBContactMessage{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func createIdentityForTest(t *testing.T, repo domain.IdentityRepository, identity *domain.Identity) *domain.Identity {
	t.Helper()
	if identity.Role == "" {
		identity.Role = domain.RolePatient
	}
	require.NoError(t, repo.Create(context.Background(), identity))
	return identity
}

func TestIdentityRepositoryImpl_CreateAndFind(t *testing.T) {
	repo := NewIdentityRepository(setupTestDB(t))
	ctx := context.Background()

	created := createIdentityForTest(t, repo, &domain.Identity{
		Name:         "Jane",
		Email:        "Jane@X.com",
		PasswordHash: "hash",
		Health: domain.HealthProfile{
			BloodGroup:     "O+",
			Allergies:      []string{"pollen", "nuts"},
			AdditionalInfo: map[string]string{"smoker": "no"},
		},
	})
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := repo.FindByEmail(ctx, "jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "jane@x.com", byEmail.Email)
	assert.Empty(t, byEmail.Phone)
	assert.Equal(t, []string{"pollen", "nuts"}, byEmail.Health.Allergies)
	assert.Equal(t, "no", byEmail.Health.AdditionalInfo["smoker"])

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", byID.Name)

	_, err = repo.FindByPhone(ctx, "+919876543210")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestIdentityRepositoryImpl_NullableUniqueIndexes(t *testing.T) {
	repo := NewIdentityRepository(setupTestDB(t))
	ctx := context.Background()

	// Several identities without email or phone must not collide on NULL.
	createIdentityForTest(t, repo, &domain.Identity{Name: "A", Phone: "+919000000001"})
	createIdentityForTest(t, repo, &domain.Identity{Name: "B", Phone: "+919000000002"})
	createIdentityForTest(t, repo, &domain.Identity{Name: "C", Email: "c@x.com"})
	createIdentityForTest(t, repo, &domain.Identity{Name: "D", Email: "d@x.com"})

	tests := []struct {
		name     string
		identity *domain.Identity
		wantMsg  string
	}{
		{"duplicate email", &domain.Identity{Name: "E", Email: "c@x.com", Role: domain.RolePatient}, "email already registered"},
		{"duplicate email different case", &domain.Identity{Name: "E", Email: "C@X.COM", Role: domain.RolePatient}, "email already registered"},
		{"duplicate phone", &domain.Identity{Name: "F", Phone: "+919000000001", Role: domain.RolePatient}, "phone number already registered"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.identity)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConflict), "got %v", err)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestIdentityRepositoryImpl_UpdateOTP(t *testing.T) {
	repo := NewIdentityRepository(setupTestDB(t))
	ctx := context.Background()
	id := createIdentityForTest(t, repo, &domain.Identity{Name: "Raj", Phone: "+919876543210"})

	expiry := time.Now().Add(10 * time.Minute).UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateOTP(ctx, id.ID, "123456", &expiry))

	got, err := repo.FindByPhone(ctx, "+919876543210")
	require.NoError(t, err)
	assert.Equal(t, "123456", got.OTPCode)
	require.NotNil(t, got.OTPExpiresAt)
	assert.True(t, got.OTPExpiresAt.Equal(expiry))

	require.NoError(t, repo.UpdateOTP(ctx, id.ID, "123456", nil))
	got, err = repo.FindByID(ctx, id.ID)
	require.NoError(t, err)
	assert.Empty(t, got.OTPCode, "code and expiry are cleared together")
	assert.Nil(t, got.OTPExpiresAt)

	err = repo.UpdateOTP(ctx, 9999, "1", &expiry)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestIdentityRepositoryImpl_UpdateKeepsCreatedAt(t *testing.T) {
	repo := NewIdentityRepository(setupTestDB(t))
	ctx := context.Background()
	id := createIdentityForTest(t, repo, &domain.Identity{Name: "Jane", Email: "jane@x.com"})
	createdAt := id.CreatedAt

	id.Name = "Jane Doe"
	id.Phone = "+919876543210"
	id.Role = domain.RoleDoctor
	require.NoError(t, repo.Update(ctx, id, []domain.IdentityField{domain.FieldName, domain.FieldPhone, domain.FieldRole}))

	got, err := repo.FindByID(ctx, id.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "+919876543210", got.Phone)
	assert.Equal(t, domain.RoleDoctor, got.Role)
	assert.True(t, got.CreatedAt.Equal(createdAt))
}

func TestIdentityRepositoryImpl_UpdateConflict(t *testing.T) {
	repo := NewIdentityRepository(setupTestDB(t))
	ctx := context.Background()
	createIdentityForTest(t, repo, &domain.Identity{Name: "A", Email: "a@x.com"})
	b := createIdentityForTest(t, repo, &domain.Identity{Name: "B", Email: "b@x.com"})

	b.Email = "a@x.com"
	err := repo.Update(ctx, b, []domain.IdentityField{domain.FieldEmail})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestIdentityRepositoryImpl_UpdateWritesOnlyListedFields(t *testing.T) {
	repo := NewIdentityRepository(setupTestDB(t))
	ctx := context.Background()
	expiry := time.Now().Add(10 * time.Minute).UTC().Truncate(time.Second)
	created := createIdentityForTest(t, repo, &domain.Identity{
		Name: "Jane", Email: "jane@x.com", PasswordHash: "hash", Role: domain.RoleAdmin,
	})
	require.NoError(t, repo.UpdateOTP(ctx, created.ID, "123456", &expiry))

	stale, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)

	// another request demotes the identity and consumes its code after the read
	demoted := *stale
	demoted.Role = domain.RolePatient
	require.NoError(t, repo.Update(ctx, &demoted, []domain.IdentityField{domain.FieldRole}))
	require.NoError(t, repo.UpdateOTP(ctx, created.ID, "", nil))

	stale.Name = "Jane Doe"
	stale.Health.BloodGroup = "B+"
	stale.PasswordHash = "other"
	require.NoError(t, repo.Update(ctx, stale, []domain.IdentityField{domain.FieldName, domain.FieldBloodGroup}))

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "B+", got.Health.BloodGroup)
	assert.Equal(t, domain.RolePatient, got.Role)
	assert.Empty(t, got.OTPCode)
	assert.Nil(t, got.OTPExpiresAt)
	assert.Equal(t, "hash", got.PasswordHash)
}

func TestIdentityRepositoryImpl_UpdateEdgeCases(t *testing.T) {
	repo := NewIdentityRepository(setupTestDB(t))
	ctx := context.Background()
	created := createIdentityForTest(t, repo, &domain.Identity{Name: "Jane", Email: "jane@x.com"})

	assert.NoError(t, repo.Update(ctx, created, nil))

	err := repo.Update(ctx, created, []domain.IdentityField{"password"})
	assert.Error(t, err)

	err = repo.Update(ctx, &domain.Identity{ID: 9999, Name: "Ghost"}, []domain.IdentityField{domain.FieldName})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	created.Email = ""
	created.Phone = "+919876543210"
	require.NoError(t, repo.Update(ctx, created, []domain.IdentityField{domain.FieldEmail, domain.FieldPhone}))
	_, err = repo.FindByEmail(ctx, "jane@x.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	createIdentityForTest(t, repo, &domain.Identity{Name: "Other", Email: "jane@x.com"})
}

func TestIdentityRepositoryImpl_DeleteListCount(t *testing.T) {
	repo := NewIdentityRepository(setupTestDB(t))
	ctx := context.Background()

	admin := createIdentityForTest(t, repo, &domain.Identity{Name: "Admin", Email: "admin@x.com", Role: domain.RoleAdmin})
	p1 := createIdentityForTest(t, repo, &domain.Identity{Name: "P1", Email: "p1@x.com"})
	p2 := createIdentityForTest(t, repo, &domain.Identity{Name: "P2", Phone: "+919000000009"})

	n, err := repo.CountByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err := repo.List(ctx, domain.IdentityFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	patients, err := repo.List(ctx, domain.IdentityFilter{ExcludeRole: domain.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, p2.ID, patients[0].ID, "newest first")
	assert.Equal(t, p1.ID, patients[1].ID)

	require.NoError(t, repo.Delete(ctx, admin.ID))
	err = repo.Delete(ctx, admin.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
