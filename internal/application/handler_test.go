package application_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"project-launchpad/internal/application"
	"project-launchpad/internal/cache"
	"project-launchpad/internal/company"
	"project-launchpad/internal/logger"
	"project-launchpad/internal/metrics"
	"project-launchpad/internal/project"
	"project-launchpad/internal/schema"
	"project-launchpad/internal/student"
	"project-launchpad/testing/testdb"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type testEnv struct {
	router    chi.Router
	db        *bun.DB
	publisher *recordingPublisher
	projectID uuid.UUID
}

func setupTest(t *testing.T, db *bun.DB) *testEnv {
	t.Helper()
	testdb.CleanupTables(t, db, schema.Tables...)

	ctx := context.Background()
	log := logger.Discard()
	m := metrics.NewMock()
	timeout := 5 * time.Second

	owner, err := company.NewRepository(db, m, timeout).Create(ctx, &company.Company{
		Name:        "TechCorp Solutions",
		Industry:    "Technology",
		Location:    "San Francisco, CA",
		Description: "Leading technology solutions provider",
	})
	require.NoError(t, err)

	p, err := project.NewRepository(db, m, timeout).Create(ctx, &project.Project{
		CompanyID:    owner.ID,
		Title:        "Data Engineering Intern",
		Description:  "Build data pipelines",
		Requirements: "Python, SQL",
		Duration:     "3 months",
	})
	require.NoError(t, err)

	c := cache.New(cache.NewMemoryBackend(0), log, m)
	publisher := &recordingPublisher{}
	repo := application.NewRepository(db, m, timeout)
	workflow := application.NewWorkflow(student.NewRepository(db, m, timeout), repo, c, publisher, time.Second, log, m)
	handler := application.NewHandler(application.NewService(repo, workflow, c), log)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	return &testEnv{router: router, db: db, publisher: publisher, projectID: p.ID}
}

func (env *testEnv) submit(t *testing.T, req application.SubmitRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/applications", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, r)
	return w
}

func (env *testEnv) list(t *testing.T) []application.Application {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/applications", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var applications []application.Application
	require.NoError(t, json.NewDecoder(w.Body).Decode(&applications))
	return applications
}

func (env *testEnv) students(t *testing.T) []student.Student {
	t.Helper()
	var students []student.Student
	require.NoError(t, env.db.NewSelect().Model(&students).Scan(context.Background()))
	return students
}

func TestApplicationHandler(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)

	t.Run("Submit_NewStudent", func(t *testing.T) {
		env := setupTest(t, pgContainer.DB)

		w := env.submit(t, application.SubmitRequest{
			Student:     anaInput(),
			Application: application.ApplicationInput{ProjectID: env.projectID.String(), CoverLetter: "I like data."},
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var created application.Application
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

		students := env.students(t)
		require.Len(t, students, 1)
		assert.Equal(t, "ana@u.edu", students[0].Email)
		assert.Equal(t, 2025, students[0].GraduationYear)
		assert.Equal(t, students[0].ID, created.StudentID)
		assert.Equal(t, env.projectID, created.ProjectID)
		assert.Len(t, env.publisher.published, 1)
	})

	t.Run("Submit_RepeatEmailUpdatesStudent", func(t *testing.T) {
		env := setupTest(t, pgContainer.DB)

		first := env.submit(t, application.SubmitRequest{
			Student:     anaInput(),
			Application: application.ApplicationInput{ProjectID: env.projectID.String()},
		})
		require.Equal(t, http.StatusCreated, first.Code)

		changed := anaInput()
		changed.Phone = "555-0199"
		second := env.submit(t, application.SubmitRequest{
			Student:     changed,
			Application: application.ApplicationInput{ProjectID: env.projectID.String()},
		})
		require.Equal(t, http.StatusCreated, second.Code)

		students := env.students(t)
		require.Len(t, students, 1)
		require.NotNil(t, students[0].Phone)
		assert.Equal(t, "555-0199", *students[0].Phone)

		applications := env.list(t)
		require.Len(t, applications, 2)
		for _, a := range applications {
			assert.Equal(t, students[0].ID, a.StudentID)
		}
	})

	t.Run("Submit_InvalidGraduationYear", func(t *testing.T) {
		env := setupTest(t, pgContainer.DB)
		input := anaInput()
		input.GraduationYear = "abc"

		w := env.submit(t, application.SubmitRequest{
			Student:     input,
			Application: application.ApplicationInput{ProjectID: env.projectID.String()},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, env.students(t))
	})

	t.Run("Submit_UnknownProjectKeepsStudent", func(t *testing.T) {
		env := setupTest(t, pgContainer.DB)

		w := env.submit(t, application.SubmitRequest{
			Student:     anaInput(),
			Application: application.ApplicationInput{ProjectID: uuid.NewString()},
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Len(t, env.students(t), 1)
		assert.Empty(t, env.list(t))
		assert.Empty(t, env.publisher.published)
	})

	t.Run("List_EmbedsStudentAndProject", func(t *testing.T) {
		env := setupTest(t, pgContainer.DB)

		assert.Empty(t, env.list(t))

		w := env.submit(t, application.SubmitRequest{
			Student:     anaInput(),
			Application: application.ApplicationInput{ProjectID: env.projectID.String()},
		})
		require.Equal(t, http.StatusCreated, w.Code)

		applications := env.list(t)
		require.Len(t, applications, 1)
		require.NotNil(t, applications[0].Student)
		assert.Equal(t, "Ana", applications[0].Student.Name)
		require.NotNil(t, applications[0].Project)
		assert.Equal(t, "Data Engineering Intern", applications[0].Project.Title)
	})
}
