package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/google/uuid"
)

type periodKey struct {
	employeeCode string
	month, year  int
}

// PayrollRepository is an in-process payroll ledger.
type PayrollRepository struct {
	mu       sync.RWMutex
	now      func() time.Time
	byID     map[string]payroll.PayrollRecord
	byPeriod map[periodKey]string
}

var _ payroll.PayrollRepository = (*PayrollRepository)(nil)

func NewPayrollRepository() *PayrollRepository {
	return &PayrollRepository{
		now:      time.Now,
		byID:     make(map[string]payroll.PayrollRecord),
		byPeriod: make(map[periodKey]string),
	}
}

// Create implements payroll.PayrollRepository.
func (r *PayrollRepository) Create(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := periodKey{record.EmployeeCode, record.PeriodMonth, record.PeriodYear}
	if _, ok := r.byPeriod[k]; ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
	}
	if record.ID == "" {
		record.ID = uuid.Must(uuid.NewV7()).String()
	}
	now := r.now()
	record.CreatedAt = now
	record.UpdatedAt = now

	r.byID[record.ID] = record
	r.byPeriod[k] = record.ID
	return record, nil
}

// GetByID implements payroll.PayrollRepository.
func (r *PayrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return record, nil
}

// GetByEmployeePeriod implements payroll.PayrollRepository.
func (r *PayrollRepository) GetByEmployeePeriod(ctx context.Context, employeeCode string, month, year int) (payroll.PayrollRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPeriod[periodKey{employeeCode, month, year}]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r.byID[id], nil
}

// GetByEmployeePeriodForUpdate implements payroll.PayrollRepository.
// Row locking is provided by the Transactor.
func (r *PayrollRepository) GetByEmployeePeriodForUpdate(ctx context.Context, employeeCode string, month, year int) (payroll.PayrollRecord, error) {
	return r.GetByEmployeePeriod(ctx, employeeCode, month, year)
}

// ListByPeriod implements payroll.PayrollRepository.
func (r *PayrollRepository) ListByPeriod(ctx context.Context, month, year int) ([]payroll.PayrollRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]payroll.PayrollRecord, 0)
	for k, id := range r.byPeriod {
		if k.month == month && k.year == year {
			result = append(result, r.byID[id])
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EmployeeCode < result[j].EmployeeCode
	})
	return result, nil
}

// Update implements payroll.PayrollRepository.
func (r *PayrollRepository) Update(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[record.ID]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	record.EmployeeCode = existing.EmployeeCode
	record.PeriodMonth = existing.PeriodMonth
	record.PeriodYear = existing.PeriodYear
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = r.now()

	r.byID[record.ID] = record
	return record, nil
}
