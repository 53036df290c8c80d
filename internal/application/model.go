package application

import (
	"time"

	"project-launchpad/internal/project"
	"project-launchpad/internal/student"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Application struct {
	bun.BaseModel `bun:"table:applications,alias:a"`

	ID          uuid.UUID        `bun:"id,pk,type:uuid" json:"id"`
	StudentID   uuid.UUID        `bun:"student_id,notnull,type:uuid" json:"studentId"`
	Student     *student.Student `bun:"rel:belongs-to,join:student_id=id" json:"student,omitempty"`
	ProjectID   uuid.UUID        `bun:"project_id,notnull,type:uuid" json:"projectId"`
	Project     *project.Project `bun:"rel:belongs-to,join:project_id=id" json:"project,omitempty"`
	CoverLetter *string          `bun:"cover_letter" json:"coverLetter,omitempty"`
	CreatedAt   time.Time        `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// ApplicationInput is the application half of the form.
type ApplicationInput struct {
	ProjectID   string `json:"projectId" validate:"required,uuid"`
	CoverLetter string `json:"coverLetter"`
}

// SubmitRequest is the body of POST /applications.
type SubmitRequest struct {
	Student     student.StudentInput `json:"student"`
	Application ApplicationInput     `json:"application"`
}

type ListOptions struct {
	NewestFirst bool
	Embed       bool
}
