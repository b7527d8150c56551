// Package export writes employee lists as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/cmlabs-hris/employee-directory/internal/domain/employee"
	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Translator resolves a message key in some language, returning the key when unknown.
type Translator func(key string) string

var columns = []struct {
	header string
	value  func(e employee.Employee, t Translator) string
}{
	{"list.firstName", func(e employee.Employee, _ Translator) string { return e.FirstName }},
	{"list.lastName", func(e employee.Employee, _ Translator) string { return e.LastName }},
	{"list.dateOfEmployment", func(e employee.Employee, _ Translator) string { return e.DateOfEmployment }},
	{"list.dateOfBirth", func(e employee.Employee, _ Translator) string { return e.DateOfBirth }},
	{"list.phone", func(e employee.Employee, _ Translator) string { return e.PhoneNumber }},
	{"list.email", func(e employee.Employee, _ Translator) string { return e.Email }},
	{"list.department", func(e employee.Employee, t Translator) string {
		return localized(t, "departments", string(e.Department))
	}},
	{"list.position", func(e employee.Employee, t Translator) string {
		return localized(t, "positions", string(e.Position))
	}},
}

// localized translates enum values such as "Tech" via "departments.tech", keeping the raw value
// when the catalog has no entry.
func localized(t Translator, group, value string) string {
	key := group + "." + strings.ToLower(value)
	if msg := t(key); msg != key {
		return msg
	}
	return value
}

// WriteEmployees streams employees into a single-sheet workbook with a header row.
func WriteEmployees(w io.Writer, employees []employee.Employee, t Translator) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t("nav.employees"))
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := make([]interface{}, len(columns))
	for i, col := range columns {
		headers[i] = t(col.header)
	}
	if err := sw.SetRow("A1", headers, excelize.RowOpts{StyleID: boldStyle}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, e := range employees {
		row := make([]interface{}, len(columns))
		for j, col := range columns {
			row[j] = col.value(e, t)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush stream: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}

// sheetName drops characters Excel forbids in sheet names and caps the length at 31.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return -1
		}
		return r
	}, name)
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	if name == "" {
		return "Employees"
	}
	return name
}
