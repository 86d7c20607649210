package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/marktrack-service/internal/auth"
	"github.com/SAP-F-2025/marktrack-service/internal/config"
	"github.com/SAP-F-2025/marktrack-service/internal/events"
	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/validator"
)

const (
	testTeacherCode = "TEACH-2024"
	testAdminCode   = "ADMIN-ROOT"
	testPrefix      = "ST"
)

type testEnv struct {
	ctx       context.Context
	repo      *fakeRepository
	issuer    *auth.JWTIssuer
	publisher *events.MockEventPublisher
	services  ServiceManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		ctx:       context.Background(),
		repo:      newFakeRepository(),
		issuer:    auth.NewJWTIssuer("test-secret", time.Hour, "marktrack-test"),
		publisher: events.NewMockEventPublisher(logger),
	}

	env.services = NewServiceManager(env.repo, logger, validator.New(), ServiceManagerConfig{
		RoleCodes: config.RoleCodesConfig{
			TeacherCode:       testTeacherCode,
			AdminCode:         testAdminCode,
			StudentCodePrefix: testPrefix,
		},
		Issuer:    env.issuer,
		Publisher: env.publisher,
	})
	require.NoError(t, env.services.Initialize(env.ctx))
	return env
}

func (e *testEnv) register(t *testing.T) string {
	t.Helper()
	user, err := e.services.Auth().Register(e.ctx, &RegisterRequest{
		Email:    uuid.NewString()[:8] + "@school.test",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user.ID
}

func (e *testEnv) assign(t *testing.T, userID, code string) *auth.Claims {
	t.Helper()
	resp, err := e.services.Role().AssignRole(e.ctx, userID, &AssignRoleRequest{Code: code})
	require.NoError(t, err)
	claims, err := e.issuer.Verify(resp.AccessToken)
	require.NoError(t, err)
	return claims
}

func (e *testEnv) subject(t *testing.T, name string) *models.Subject {
	t.Helper()
	sub, err := e.services.Subject().Create(e.ctx, &CreateSubjectRequest{Name: name})
	require.NoError(t, err)
	return sub
}

func (e *testEnv) user(t *testing.T, id string) *models.User {
	t.Helper()
	u, err := e.repo.User().GetByID(e.ctx, id)
	require.NoError(t, err)
	return u
}

// activeTeacher registers a teacher and completes the profile.
func (e *testEnv) activeTeacher(t *testing.T, subjectID, lastName string) (string, *models.Teacher) {
	t.Helper()
	userID := e.register(t)
	e.assign(t, userID, testTeacherCode)
	_, err := e.services.Profile().CompleteTeacherProfile(e.ctx, userID, &TeacherDetailsRequest{
		FirstName: "Ana",
		LastName:  lastName,
		SubjectID: subjectID,
	})
	require.NoError(t, err)

	teacher, err := e.repo.Teacher().GetByUserID(e.ctx, userID)
	require.NoError(t, err)
	return userID, teacher
}

// activeStudent registers a student with code and completes the profile.
func (e *testEnv) activeStudent(t *testing.T, code, lastName string) (string, *models.Student) {
	t.Helper()
	userID := e.register(t)
	e.assign(t, userID, code)
	_, err := e.services.Profile().CompleteStudentProfile(e.ctx, userID, &StudentDetailsRequest{
		FirstName: "Ion",
		LastName:  lastName,
	})
	require.NoError(t, err)

	student, err := e.repo.Student().GetByUserID(e.ctx, userID)
	require.NoError(t, err)
	return userID, student
}
