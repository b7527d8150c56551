package employee

import "github.com/cmlabs-hris/employee-directory/internal/pkg/validator"

type Employee struct {
	ID               string     `json:"id"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	DateOfEmployment string     `json:"dateOfEmployment"`
	DateOfBirth      string     `json:"dateOfBirth"`
	PhoneNumber      string     `json:"phoneNumber"`
	Email            string     `json:"email"`
	Department       Department `json:"department"`
	Position         Position   `json:"position"`
}

// FullName joins first and last name the way confirmation prompts display it.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type Department string

const (
	DepartmentAnalytics Department = "Analytics"
	DepartmentTech      Department = "Tech"
)

func (d Department) IsValid() bool {
	return validator.IsInSlice(string(d), Departments())
}

type Position string

const (
	PositionJunior Position = "Junior"
	PositionMedior Position = "Medior"
	PositionSenior Position = "Senior"
)

func (p Position) IsValid() bool {
	return validator.IsInSlice(string(p), Positions())
}

// Departments lists every department in display order.
func Departments() []string {
	return []string{string(DepartmentAnalytics), string(DepartmentTech)}
}

// Positions lists every position in display order.
func Positions() []string {
	return []string{string(PositionJunior), string(PositionMedior), string(PositionSenior)}
}
