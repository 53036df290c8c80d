package project

import (
	"time"

	"project-launchpad/internal/company"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
	StatusFilled = "filled"
)

// DateLayout is the wire and input format of start and end dates.
const DateLayout = "2006-01-02"

type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID           uuid.UUID        `bun:"id,pk,type:uuid" json:"id"`
	CompanyID    uuid.UUID        `bun:"company_id,notnull,type:uuid" json:"companyId"`
	Company      *company.Company `bun:"rel:belongs-to,join:company_id=id" json:"company,omitempty"`
	Title        string           `bun:"title,notnull" json:"title"`
	Description  string           `bun:"description,notnull" json:"description"`
	Requirements string           `bun:"requirements,notnull,default:''" json:"requirements"`
	Duration     string           `bun:"duration,notnull,default:''" json:"duration"`
	Stipend      *float64         `bun:"stipend,type:numeric(10,2)" json:"stipend,omitempty"`
	StartDate    *time.Time       `bun:"start_date,type:date" json:"startDate,omitempty"`
	EndDate      *time.Time       `bun:"end_date,type:date" json:"endDate,omitempty"`
	Status       string           `bun:"status,notnull,default:'open'" json:"status"`
	CreatedAt    time.Time        `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// ProjectInput is the payload accepted when a project is posted. Dates use
// DateLayout.
type ProjectInput struct {
	CompanyID    string   `json:"companyId" validate:"required,uuid"`
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Requirements string   `json:"requirements"`
	Duration     string   `json:"duration"`
	Stipend      *float64 `json:"stipend" validate:"omitempty,gte=0"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Status       string   `json:"status" validate:"omitempty,oneof=open closed filled"`
}

type ListOptions struct {
	OpenOnly     bool
	NewestFirst  bool
	EmbedCompany bool
}
