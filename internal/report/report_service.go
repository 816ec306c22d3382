package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"go-empms/internal/attendance"
	"go-empms/internal/leave"
	"go-empms/internal/user"

	"go.uber.org/zap"
)

// The readers are narrow views over the other services so this module
// never touches a repository directly.
type EmployeeReader interface {
	GetAll(ctx context.Context) ([]user.EmployeeResponse, error)
	GetByEmpID(ctx context.Context, empID string) (user.EmployeeResponse, error)
	GetProfile(ctx context.Context, userID string) (user.EmployeeResponse, error)
}

type AttendanceReader interface {
	ListOwn(ctx context.Context, userID string) ([]attendance.AttendanceResponse, error)
}

type LeaveReader interface {
	ListOwn(ctx context.Context, userID string) ([]leave.LeaveResponse, error)
	GetOwnBalance(ctx context.Context, userID string, year int) (leave.BalanceResponse, error)
}

type Service interface {
	ExportEmployeeCSV(ctx context.Context, empID string) ([]byte, string, error)
	ExportAllCSV(ctx context.Context) ([]byte, string, error)
	ExportEmployeePDF(ctx context.Context, empID string) ([]byte, string, error)
	ExportSelfCSV(ctx context.Context, userID string) ([]byte, string, error)
	ExportSelfPDF(ctx context.Context, userID string) ([]byte, string, error)
}

type service struct {
	employees  EmployeeReader
	attendance AttendanceReader
	leaves     LeaveReader
	logger     *zap.Logger
}

func NewService(employees EmployeeReader, att AttendanceReader, leaves LeaveReader, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		employees:  employees,
		attendance: att,
		leaves:     leaves,
		logger:     l,
	}
}

func (s *service) ExportEmployeeCSV(ctx context.Context, empID string) ([]byte, string, error) {
	emp, err := s.employees.GetByEmpID(ctx, empID)
	if err != nil {
		return nil, "", err
	}

	data, err := s.renderCSV(ctx, []user.EmployeeResponse{emp})
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("employee_%s.csv", emp.EmpID), nil
}

func (s *service) ExportAllCSV(ctx context.Context) ([]byte, string, error) {
	emps, err := s.employees.GetAll(ctx)
	if err != nil {
		return nil, "", err
	}

	data, err := s.renderCSV(ctx, emps)
	if err != nil {
		return nil, "", err
	}
	return data, "employees.csv", nil
}

func (s *service) ExportEmployeePDF(ctx context.Context, empID string) ([]byte, string, error) {
	emp, err := s.employees.GetByEmpID(ctx, empID)
	if err != nil {
		return nil, "", err
	}

	data, err := s.renderPDF(ctx, emp)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("employee_%s.pdf", emp.EmpID), nil
}

func (s *service) ExportSelfCSV(ctx context.Context, userID string) ([]byte, string, error) {
	emp, err := s.employees.GetProfile(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	data, err := s.renderCSV(ctx, []user.EmployeeResponse{emp})
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("employee_%s.csv", emp.EmpID), nil
}

func (s *service) ExportSelfPDF(ctx context.Context, userID string) ([]byte, string, error) {
	emp, err := s.employees.GetProfile(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	data, err := s.renderPDF(ctx, emp)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("employee_%s.pdf", emp.EmpID), nil
}

// renderCSV writes one block of three sections per employee: details,
// attendance history, leave history.
func (s *service) renderCSV(ctx context.Context, emps []user.EmployeeResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	for _, emp := range emps {
		if err := w.Write([]string{"Employee Details"}); err != nil {
			return nil, err
		}
		if err := w.Write([]string{"Emp ID", "Name", "Email", "Phone", "Address", "Position", "Department", "Role"}); err != nil {
			return nil, err
		}
		if err := w.Write([]string{
			emp.EmpID, emp.FullName, emp.Email, emp.Phone,
			emp.Address, emp.Position, emp.Department, emp.Role,
		}); err != nil {
			return nil, err
		}
		w.Write([]string{})

		records, err := s.attendance.ListOwn(ctx, emp.ID)
		if err != nil {
			s.logger.Error("export attendance lookup failed", zap.String("emp_id", emp.EmpID), zap.Error(err))
			return nil, err
		}
		w.Write([]string{"Attendance"})
		w.Write([]string{"Date", "Status", "Check In", "Check Out"})
		for _, rec := range records {
			w.Write([]string{rec.Date, rec.Status, rec.CheckIn, rec.CheckOut})
		}
		w.Write([]string{})

		leaves, err := s.leaves.ListOwn(ctx, emp.ID)
		if err != nil {
			s.logger.Error("export leave lookup failed", zap.String("emp_id", emp.EmpID), zap.Error(err))
			return nil, err
		}
		w.Write([]string{"Leave Requests"})
		w.Write([]string{"Start Date", "End Date", "Days", "Reason", "Status"})
		for _, lr := range leaves {
			w.Write([]string{
				lr.StartDate, lr.EndDate, fmt.Sprintf("%d", lr.TotalDays), lr.Reason, lr.Status,
			})
		}
		w.Write([]string{})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *service) renderPDF(ctx context.Context, emp user.EmployeeResponse) ([]byte, error) {
	year := time.Now().UTC().Year()

	lines := []string{
		fmt.Sprintf("Employee Report: %s (%s)", emp.FullName, emp.EmpID),
		"",
		fmt.Sprintf("Email: %s", emp.Email),
		fmt.Sprintf("Phone: %s", emp.Phone),
		fmt.Sprintf("Position: %s", emp.Position),
		fmt.Sprintf("Department: %s", emp.Department),
		fmt.Sprintf("Role: %s", emp.Role),
		"",
	}

	if balance, err := s.leaves.GetOwnBalance(ctx, emp.ID, year); err == nil {
		lines = append(lines,
			fmt.Sprintf("Leave balance %d: %d of %d days remaining", year, balance.Balance, balance.Entitlement),
			"",
		)
	}

	leaves, err := s.leaves.ListOwn(ctx, emp.ID)
	if err != nil {
		return nil, err
	}
	lines = append(lines, "Leave Requests:")
	if len(leaves) == 0 {
		lines = append(lines, "  none")
	}
	for _, lr := range leaves {
		lines = append(lines, fmt.Sprintf("  %s to %s (%d days) %s", lr.StartDate, lr.EndDate, lr.TotalDays, lr.Status))
	}

	records, err := s.attendance.ListOwn(ctx, emp.ID)
	if err != nil {
		return nil, err
	}
	lines = append(lines, "", "Attendance:")
	if len(records) == 0 {
		lines = append(lines, "  none")
	}
	for _, rec := range records {
		lines = append(lines, fmt.Sprintf("  %s %s", rec.Date, rec.Status))
	}

	return buildSimpleReportPDF(lines)
}
