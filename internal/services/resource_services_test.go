package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/you/aarogyam/domain"
	"github.com/you/aarogyam/internal/infrastructure/database"
	"github.com/you/aarogyam/internal/infrastructure/repositories"
	"github.com/you/aarogyam/internal/mocks"
)

func setupServiceDB(t *testing.T) (appointments domain.AppointmentRepository, reports domain.ReportRepository, contacts domain.ContactRepository) {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))

	return repositories.NewAppointmentRepository(db), repositories.NewReportRepository(db), repositories.NewContactRepository(db)
}

func validBooking() domain.AppointmentInput {
	return domain.AppointmentInput{
		Name:  "Raj",
		Phone: "9876543210",
		Email: "Raj@X.com",
		Date:  "2026-03-05",
		Time:  "10:30",
	}
}

func newAppointmentServiceForTest(t *testing.T) (*AppointmentServiceImpl, *mocks.MockNotificationService) {
	t.Helper()
	repo, _, _ := setupServiceDB(t)
	notifier := mocks.NewMockNotificationService()
	svc := NewAppointmentService(repo, domain.NewPhoneNormalizer("+91"), notifier, nil).(*AppointmentServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC) }
	return svc, notifier
}

func TestAppointmentService_Book(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(in *domain.AppointmentInput)
		expectedError error
	}{
		{name: "valid booking"},
		{name: "today is allowed", mutate: func(in *domain.AppointmentInput) { in.Date = "2026-03-01" }},
		{name: "past date", mutate: func(in *domain.AppointmentInput) { in.Date = "2026-02-28" }, expectedError: domain.ErrValidation},
		{name: "bad time", mutate: func(in *domain.AppointmentInput) { in.Time = "25:00" }, expectedError: domain.ErrValidation},
		{name: "missing email", mutate: func(in *domain.AppointmentInput) { in.Email = "" }, expectedError: domain.ErrValidation},
		{name: "short phone", mutate: func(in *domain.AppointmentInput) { in.Phone = "12345" }, expectedError: domain.ErrValidation},
		{name: "negative age", mutate: func(in *domain.AppointmentInput) { in.Age = -3 }, expectedError: domain.ErrValidation},
		{name: "garbage date", mutate: func(in *domain.AppointmentInput) { in.Date = "next tuesday" }, expectedError: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, notifier := newAppointmentServiceForTest(t)
			in := validBooking()
			if tt.mutate != nil {
				tt.mutate(&in)
			}

			a, err := svc.Book(context.Background(), nil, in)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, a.ID)
			assert.Equal(t, domain.AppointmentPending, a.Status)
			assert.Equal(t, domain.DefaultAppointmentReason, a.Reason)
			assert.Equal(t, "+919876543210", a.Phone)
			assert.Equal(t, "raj@x.com", a.Email)
			assert.Nil(t, a.UserID)
			assert.Len(t, notifier.SMS, 1)
		})
	}
}

func TestAppointmentService_Ownership(t *testing.T) {
	svc, notifier := newAppointmentServiceForTest(t)
	notifier.SendSMSFunc = func(ctx context.Context, to, message string) error {
		return errors.New("sms down")
	}
	ctx := context.Background()
	owner := uint(7)

	a, err := svc.Book(ctx, &owner, validBooking())
	require.NoError(t, err, "confirmation failures must not fail the booking")

	mine, err := svc.ListMine(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.GetMine(ctx, 8, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.UpdateMyStatus(ctx, 8, a.ID, domain.AppointmentConfirmed)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.UpdateMyStatus(ctx, owner, a.ID, "bogus")
	assert.ErrorIs(t, err, domain.ErrValidation)

	cancelled, err := svc.Cancel(ctx, owner, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentCancelled, cancelled.Status)

	_, err = svc.Cancel(ctx, owner, a.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAppointmentService_AdminUpdate(t *testing.T) {
	svc, _ := newAppointmentServiceForTest(t)
	ctx := context.Background()

	a, err := svc.Book(ctx, nil, validBooking())
	require.NoError(t, err)

	doctor := uint(3)
	updated, err := svc.Update(ctx, a.ID, domain.AppointmentPatch{
		Status:   strPtr(domain.AppointmentConfirmed),
		Time:     strPtr("11:00"),
		DoctorID: &doctor,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentConfirmed, updated.Status)
	assert.Equal(t, "11:00", updated.Time)
	require.NotNil(t, updated.DoctorID)
	assert.Equal(t, doctor, *updated.DoctorID)

	_, err = svc.Update(ctx, a.ID, domain.AppointmentPatch{Status: strPtr("lost")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type prefixSigner struct{}

func (prefixSigner) Sign(_ context.Context, key string) (string, error) {
	return "https://files.example/" + key, nil
}

func TestReportService(t *testing.T) {
	_, repo, _ := setupServiceDB(t)
	identities := mocks.NewMockIdentityRepository()
	identities.Seed(createValidIdentity(t))
	registry := NewIdentityRegistry(identities, domain.NewPhoneNormalizer(""))
	svc := NewReportService(repo, registry, prefixSigner{})
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, domain.ReportInput{Category: "x-ray"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, 1, domain.ReportInput{Category: domain.ReportBloodTest, Results: json.RawMessage(`{"hb":`)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	dates := []string{"2026-01-10", "2026-01-20", "2026-02-03"}
	for i, d := range dates {
		category := domain.ReportBloodTest
		if i == 2 {
			category = domain.ReportGutTest
		}
		_, err := svc.Create(ctx, 1, domain.ReportInput{
			Category:    category,
			Date:        d,
			Results:     json.RawMessage(`{"hb":13.5}`),
			Attachments: []string{"reports/1/" + d + ".pdf"},
		})
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalReports)
	assert.Equal(t, map[string]int{domain.ReportBloodTest: 2, domain.ReportGutTest: 1}, stats.ByType)
	assert.Equal(t, map[string]int{"Jan 2026": 2, "Feb 2026": 1}, stats.ByMonth)
	require.Len(t, stats.RecentReports, 3)
	assert.Equal(t, "2026-02-03", stats.RecentReports[0].Date.Format(dateLayout))
	assert.True(t, strings.HasPrefix(stats.RecentReports[0].Attachments[0], "https://files.example/"))

	mine, err := svc.ListMine(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 3)

	_, err = svc.GetMine(ctx, 2, mine[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := svc.UpdateMine(ctx, 1, mine[0].ID, domain.ReportPatch{Notes: strPtr("fasting")})
	require.NoError(t, err)
	assert.Equal(t, "fasting", updated.Notes)

	abnormal, err := svc.Abnormalities(ctx, 1, mine[0].ID)
	require.NoError(t, err)
	assert.Empty(t, abnormal)

	_, err = svc.CreateFor(ctx, 42, domain.ReportInput{Category: domain.ReportGutTest})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.ErrorIs(t, svc.DeleteMine(ctx, 2, mine[0].ID), domain.ErrNotFound)
	require.NoError(t, svc.DeleteMine(ctx, 1, mine[0].ID))

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestContactService(t *testing.T) {
	_, _, repo := setupServiceDB(t)
	notifier := mocks.NewMockNotificationService()
	svc := NewContactService(repo, notifier, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		msg     domain.ContactMessage
		wantErr bool
	}{
		{name: "valid", msg: domain.ContactMessage{Name: "Asha", Email: "asha@x.com", Subject: "Timings", Message: "What are your weekend hours?"}},
		{name: "short message", msg: domain.ContactMessage{Name: "Asha", Email: "asha@x.com", Subject: "Hi", Message: "short"}, wantErr: true},
		{name: "bad email", msg: domain.ContactMessage{Name: "Asha", Email: "asha", Subject: "Timings", Message: "What are your weekend hours?"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.msg
			saved, err := svc.Submit(ctx, &msg)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ContactUnread, saved.Status)
		})
	}
	require.Len(t, notifier.Emails, 1)
	assert.Equal(t, "asha@x.com", notifier.Emails[0].To)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.UpdateStatus(ctx, list[0].ID, "archived")
	assert.ErrorIs(t, err, domain.ErrValidation)

	read, err := svc.UpdateStatus(ctx, list[0].ID, domain.ContactRead)
	require.NoError(t, err)
	assert.Equal(t, domain.ContactRead, read.Status)

	require.NoError(t, svc.Delete(ctx, list[0].ID))
	assert.ErrorIs(t, svc.Delete(ctx, list[0].ID), domain.ErrNotFound)
}

func TestAdminService(t *testing.T) {
	f := createAuthServiceForTest(t)
	f.repo.Seed(
		&domain.Identity{Name: "Root", Email: "root@x.com", Role: domain.RoleAdmin},
		createPasswordIdentity(t),
	)
	svc := NewAdminService(f.registry, f.svc, f.audit)
	ctx := context.Background()

	doc, err := svc.CreateUser(ctx, domain.RegisterInput{Name: "Dr Mehta", Email: "mehta@x.com", Password: "secret1"}, domain.RoleDoctor)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, doc.Role)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, doc.ID, users[0].ID, "newest first")
	for _, u := range users {
		assert.NotEqual(t, domain.RoleAdmin, u.Role)
	}

	updated, err := svc.UpdateUser(ctx, 1, 2, domain.IdentityPatch{Role: strPtr(domain.RoleDoctor)})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, updated.Role)

	_, err = svc.UpdateUser(ctx, 1, 2, domain.IdentityPatch{Role: strPtr("superuser")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateUser(ctx, 1, 1, domain.IdentityPatch{Role: strPtr(domain.RolePatient)})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "own role")
	root, err := svc.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, root.Role)

	// other fields and an unchanged role remain editable on the own account
	renamed, err := svc.UpdateUser(ctx, 1, 1, domain.IdentityPatch{
		ProfilePatch: domain.ProfilePatch{Name: strPtr("Root Admin")},
		Role:         strPtr(domain.RoleAdmin),
	})
	require.NoError(t, err)
	assert.Equal(t, "Root Admin", renamed.Name)
	assert.Equal(t, domain.RoleAdmin, renamed.Role)

	assert.ErrorIs(t, svc.DeleteUser(ctx, 1, 1), domain.ErrValidation)
	require.NoError(t, svc.DeleteUser(ctx, 1, 2))
	assert.ErrorIs(t, svc.DeleteUser(ctx, 1, 2), domain.ErrNotFound)
	assert.Contains(t, f.audit.Types(), domain.IdentityDeletedEvent)
}
