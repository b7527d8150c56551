package employee

import (
	"time"

	"github.com/cmlabs-hris/employee-directory/internal/pkg/validator"
)

const MinimumAge = 18

type CreateEmployeeRequest struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DateOfEmployment string `json:"dateOfEmployment"`
	DateOfBirth      string `json:"dateOfBirth"`
	PhoneNumber      string `json:"phoneNumber"`
	Email            string `json:"email"`
	Department       string `json:"department"`
	Position         string `json:"position"`
}

func (r *CreateEmployeeRequest) Validate() error {
	return validateFields(fields{
		firstName:        r.FirstName,
		lastName:         r.LastName,
		dateOfEmployment: r.DateOfEmployment,
		dateOfBirth:      r.DateOfBirth,
		phoneNumber:      r.PhoneNumber,
		email:            r.Email,
		department:       r.Department,
		position:         r.Position,
	}, time.Now())
}

func (r CreateEmployeeRequest) ToEntity() Employee {
	return Employee{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		DateOfEmployment: r.DateOfEmployment,
		DateOfBirth:      r.DateOfBirth,
		PhoneNumber:      r.PhoneNumber,
		Email:            r.Email,
		Department:       Department(r.Department),
		Position:         Position(r.Position),
	}
}

// UpdateEmployeeRequest replaces every field; ID comes from the route.
type UpdateEmployeeRequest struct {
	ID               string `json:"-"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DateOfEmployment string `json:"dateOfEmployment"`
	DateOfBirth      string `json:"dateOfBirth"`
	PhoneNumber      string `json:"phoneNumber"`
	Email            string `json:"email"`
	Department       string `json:"department"`
	Position         string `json:"position"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if err := validateFields(fields{
		firstName:        r.FirstName,
		lastName:         r.LastName,
		dateOfEmployment: r.DateOfEmployment,
		dateOfBirth:      r.DateOfBirth,
		phoneNumber:      r.PhoneNumber,
		email:            r.Email,
		department:       r.Department,
		position:         r.Position,
	}, time.Now()); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r UpdateEmployeeRequest) ToEntity() Employee {
	return Employee{
		ID:               r.ID,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		DateOfEmployment: r.DateOfEmployment,
		DateOfBirth:      r.DateOfBirth,
		PhoneNumber:      r.PhoneNumber,
		Email:            r.Email,
		Department:       Department(r.Department),
		Position:         Position(r.Position),
	}
}

type EmployeeResponse struct {
	ID               string `json:"id"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DateOfEmployment string `json:"dateOfEmployment"`
	DateOfBirth      string `json:"dateOfBirth"`
	PhoneNumber      string `json:"phoneNumber"`
	Email            string `json:"email"`
	Department       string `json:"department"`
	Position         string `json:"position"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               e.ID,
		FirstName:        e.FirstName,
		LastName:         e.LastName,
		DateOfEmployment: e.DateOfEmployment,
		DateOfBirth:      e.DateOfBirth,
		PhoneNumber:      e.PhoneNumber,
		Email:            e.Email,
		Department:       string(e.Department),
		Position:         string(e.Position),
	}
}

type fields struct {
	firstName        string
	lastName         string
	dateOfEmployment string
	dateOfBirth      string
	phoneNumber      string
	email            string
	department       string
	position         string
}

// validateFields mirrors the add/edit form rules.
func validateFields(f fields, now time.Time) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.firstName) {
		errs = append(errs, validator.ValidationError{Field: "firstName", Message: "firstName is required"})
	}
	if validator.IsEmpty(f.lastName) {
		errs = append(errs, validator.ValidationError{Field: "lastName", Message: "lastName is required"})
	}

	if validator.IsEmpty(f.dateOfEmployment) {
		errs = append(errs, validator.ValidationError{Field: "dateOfEmployment", Message: "dateOfEmployment is required"})
	} else if _, ok := validator.IsValidDate(f.dateOfEmployment); !ok {
		errs = append(errs, validator.ValidationError{Field: "dateOfEmployment", Message: "dateOfEmployment must be in YYYY-MM-DD format"})
	}

	if validator.IsEmpty(f.dateOfBirth) {
		errs = append(errs, validator.ValidationError{Field: "dateOfBirth", Message: "dateOfBirth is required"})
	} else if _, ok := validator.IsValidDate(f.dateOfBirth); !ok {
		errs = append(errs, validator.ValidationError{Field: "dateOfBirth", Message: "dateOfBirth must be in YYYY-MM-DD format"})
	} else if !validator.IsAdult(f.dateOfBirth, MinimumAge, now) {
		errs = append(errs, validator.ValidationError{Field: "dateOfBirth", Message: ErrMinimumAge.Error()})
	}

	if !validator.IsValidPhoneNumber(f.phoneNumber) {
		errs = append(errs, validator.ValidationError{Field: "phoneNumber", Message: ErrInvalidPhone.Error()})
	}
	if !validator.IsValidEmail(f.email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if !Department(f.department).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "department", Message: ErrInvalidDepartment.Error()})
	}
	if !Position(f.position).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "position", Message: ErrInvalidPosition.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
