package service

import (
	"context"

	"github.com/subtrackhq/go-subtrack-backend/internal/model"

	"gorm.io/gorm"
)

// EmployeeService is the directory collaborator: identity and department
// lookups only, it never participates in duration math.
type EmployeeService struct {
	DB *gorm.DB
}

func NewEmployeeService(db *gorm.DB) *EmployeeService {
	return &EmployeeService{DB: db}
}

func (s *EmployeeService) UpsertEmployee(ctx context.Context, emp model.Employee) error {
	if emp.ID == "" {
		return model.ErrEmptyEmployeeID
	}
	return s.DB.WithContext(ctx).Save(&emp).Error
}

func (s *EmployeeService) GetAllEmployees(ctx context.Context) ([]model.Employee, error) {
	var emps []model.Employee
	err := s.DB.WithContext(ctx).Find(&emps).Error
	return emps, err
}

func (s *EmployeeService) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	var emp model.Employee
	if err := s.DB.WithContext(ctx).First(&emp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

// DepartmentOf implements Directory for department rollups.
func (s *EmployeeService) DepartmentOf(ctx context.Context, employeeID string) (string, error) {
	emp, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return "", err
	}
	return emp.Department, nil
}
