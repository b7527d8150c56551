package store

import "github.com/cmlabs-hris/employee-directory/internal/domain/employee"

// SampleEmployees is written on the very first load, when storage holds no employees.
func SampleEmployees() []employee.Employee {
	return []employee.Employee{
		{
			ID:               "1",
			FirstName:        "John",
			LastName:         "Doe",
			DateOfEmployment: "2023-01-15",
			DateOfBirth:      "1990-05-20",
			PhoneNumber:      "555-0123",
			Email:            "john.doe@example.com",
			Department:       employee.DepartmentTech,
			Position:         employee.PositionSenior,
		},
		{
			ID:               "2",
			FirstName:        "Jane",
			LastName:         "Smith",
			DateOfEmployment: "2023-02-01",
			DateOfBirth:      "1992-08-15",
			PhoneNumber:      "555-0124",
			Email:            "jane.smith@example.com",
			Department:       employee.DepartmentAnalytics,
			Position:         employee.PositionMedior,
		},
	}
}
