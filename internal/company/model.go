package company

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Company struct {
	bun.BaseModel `bun:"table:companies,alias:c"`

	ID          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Industry    string    `bun:"industry,notnull" json:"industry"`
	Location    string    `bun:"location,notnull" json:"location"`
	Description string    `bun:"description,notnull,default:''" json:"description"`
	Website     *string   `bun:"website" json:"website,omitempty"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// CompanyInput is the payload accepted when a company is added. Description
// and Website may be left out.
type CompanyInput struct {
	Name        string  `json:"name" validate:"required"`
	Industry    string  `json:"industry" validate:"required"`
	Location    string  `json:"location" validate:"required"`
	Description string  `json:"description"`
	Website     *string `json:"website" validate:"omitempty,url"`
}

type ListOptions struct {
	NewestFirst bool
}
