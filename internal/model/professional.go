package model

type Professional struct {
	Base
	Name         string `db:"name" json:"name"`
	Specialty    string `db:"specialty" json:"specialty"`
	Registration string `db:"registration" json:"registration"`
	Email        string `db:"email" json:"email,omitempty"`
	Phone        string `db:"phone" json:"phone,omitempty"`
}

type CreateProfessionalRequest struct {
	Name         string `json:"name" binding:"required"`
	Specialty    string `json:"specialty" binding:"required"`
	Registration string `json:"registration" binding:"required"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
}

type UpdateProfessionalRequest struct {
	Name      *string `json:"name"`
	Specialty *string `json:"specialty"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
}

type ProfessionalFilters struct {
	Specialty  string
	SearchTerm string
}
