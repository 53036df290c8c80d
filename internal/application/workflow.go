package application

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"project-launchpad/internal/apperr"
	"project-launchpad/internal/cache"
	"project-launchpad/internal/events"
	"project-launchpad/internal/metrics"
	"project-launchpad/internal/student"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultPublishTimeout caps how long a submission waits on the broker when
// no timeout is configured.
const DefaultPublishTimeout = 2 * time.Second

// StudentStore is the part of the student repository the workflow needs.
type StudentStore interface {
	FindByEmail(ctx context.Context, email string) (*student.Student, error)
	Create(ctx context.Context, s *student.Student) (*student.Student, error)
	Update(ctx context.Context, s *student.Student) (*student.Student, error)
}

type ApplicationStore interface {
	Create(ctx context.Context, application *Application) (*Application, error)
}

// Workflow turns one application form into a student row and an
// application row. The steps are not atomic: when the application insert
// fails, a student created or updated just before stays as written.
type Workflow struct {
	students     StudentStore
	applications ApplicationStore
	cache        *cache.Cache
	publisher    events.Publisher
	pubTimeout   time.Duration
	validate     *validator.Validate
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

func NewWorkflow(
	students StudentStore,
	applications ApplicationStore,
	c *cache.Cache,
	publisher events.Publisher,
	publishTimeout time.Duration,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Workflow {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if publishTimeout <= 0 {
		publishTimeout = DefaultPublishTimeout
	}
	return &Workflow{
		students:     students,
		applications: applications,
		cache:        c,
		publisher:    publisher,
		pubTimeout:   publishTimeout,
		validate:     validator.New(),
		logger:       logger,
		metrics:      m,
	}
}

// Submit finds the student by exact email, creating or updating it, then
// records the application. Input is fully checked before the first remote
// call. The first failing step's error is returned and nothing is
// invalidated.
func (w *Workflow) Submit(ctx context.Context, studentIn student.StudentInput, appIn ApplicationInput) (*Application, error) {
	fields, projectID, err := w.parse(studentIn, appIn)
	if err != nil {
		return nil, err
	}

	resolved, created, err := w.resolveStudent(ctx, fields)
	if err != nil {
		return nil, err
	}

	application := &Application{
		StudentID: resolved.ID,
		ProjectID: projectID,
	}
	if appIn.CoverLetter != "" {
		coverLetter := appIn.CoverLetter
		application.CoverLetter = &coverLetter
	}

	saved, err := w.applications.Create(ctx, application)
	if err != nil {
		w.logger.WarnContext(ctx, "application insert failed after student write",
			"student_id", resolved.ID, "project_id", projectID, "error", err)
		return nil, err
	}

	w.cache.Invalidate(ctx, cache.Applications, cache.Students)

	if created {
		w.metrics.RecordStudentCreated(ctx)
	} else {
		w.metrics.RecordStudentUpdated(ctx)
	}
	w.metrics.RecordApplicationSubmitted(ctx)

	w.publish(ctx, saved, resolved.Email)

	w.logger.InfoContext(ctx, "application submitted",
		"application_id", saved.ID,
		"student_id", saved.StudentID,
		"project_id", saved.ProjectID,
		"student_created", created,
	)
	return saved, nil
}

func (w *Workflow) parse(studentIn student.StudentInput, appIn ApplicationInput) (*student.Student, uuid.UUID, error) {
	if err := apperr.Struct(w.validate, studentIn); err != nil {
		return nil, uuid.Nil, err
	}
	if err := apperr.Struct(w.validate, appIn); err != nil {
		return nil, uuid.Nil, err
	}

	year, err := strconv.Atoi(strings.TrimSpace(studentIn.GraduationYear))
	if err != nil {
		return nil, uuid.Nil, apperr.Validation("GraduationYear", "not an integer: %q", studentIn.GraduationYear)
	}

	projectID, err := uuid.Parse(appIn.ProjectID)
	if err != nil {
		return nil, uuid.Nil, apperr.Validation("ProjectID", "not a uuid: %q", appIn.ProjectID)
	}

	fields := &student.Student{
		Name:           studentIn.Name,
		Email:          studentIn.Email,
		University:     studentIn.University,
		Degree:         studentIn.Degree,
		GraduationYear: year,
	}
	if studentIn.Phone != "" {
		phone := studentIn.Phone
		fields.Phone = &phone
	}
	return fields, projectID, nil
}

// resolveStudent reports whether the student row was newly created.
func (w *Workflow) resolveStudent(ctx context.Context, fields *student.Student) (*student.Student, bool, error) {
	existing, err := w.students.FindByEmail(ctx, fields.Email)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		created, err := w.students.Create(ctx, fields)
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	case err != nil:
		return nil, false, err
	}

	fields.ID = existing.ID
	updated, err := w.students.Update(ctx, fields)
	if err != nil {
		return nil, false, err
	}
	return updated, false, nil
}

func (w *Workflow) publish(ctx context.Context, saved *Application, email string) {
	event := events.ApplicationSubmitted{
		ApplicationID: saved.ID,
		StudentID:     saved.StudentID,
		ProjectID:     saved.ProjectID,
		Email:         email,
		SubmittedAt:   saved.CreatedAt,
	}

	// The event is best effort. The wait is capped so a slow broker cannot
	// hold the response, and the publish outlives a disconnecting client.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.pubTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- w.publisher.PublishApplicationSubmitted(pubCtx, event)
	}()

	var err error
	select {
	case err = <-done:
	case <-pubCtx.Done():
		err = pubCtx.Err()
	}
	if err != nil {
		w.metrics.RecordEventFailed(ctx)
		w.logger.ErrorContext(ctx, "failed to publish application event",
			"application_id", saved.ID, "timeout", w.pubTimeout, "error", err)
		return
	}
	w.metrics.RecordEventPublished(ctx, time.Since(start))
}
