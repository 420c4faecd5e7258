package projects

import (
	"time"

	"worklog/internal/domain/lifecycle"
)

// DeletionPolicy archives projects; time entries keep pointing at them.
const DeletionPolicy = lifecycle.SoftDelete

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateInput struct {
	Name string `json:"name" validate:"required,min=2"`
}

type Patch struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func (p Patch) Apply(project Project) Project {
	if p.Name != nil {
		project.Name = *p.Name
	}
	if p.IsActive != nil {
		project.IsActive = *p.IsActive
	}
	return project
}
