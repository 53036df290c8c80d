package student

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID             uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name           string    `bun:"name,notnull" json:"name"`
	Email          string    `bun:"email,unique,notnull" json:"email"`
	Phone          *string   `bun:"phone" json:"phone,omitempty"`
	University     string    `bun:"university,notnull" json:"university"`
	Degree         string    `bun:"degree,notnull" json:"degree"`
	GraduationYear int       `bun:"graduation_year,notnull" json:"graduationYear"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// StudentInput is the student half of an application form. GraduationYear
// arrives as text and is parsed before anything is sent to the store.
type StudentInput struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone"`
	University     string `json:"university" validate:"required"`
	Degree         string `json:"degree" validate:"required"`
	GraduationYear string `json:"graduationYear" validate:"required"`
}
