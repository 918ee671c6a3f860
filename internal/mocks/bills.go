package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"residence-be-svc/internal/models"
	"residence-be-svc/internal/repository"
)

// ComplaintRepository is an in-memory repository.ComplaintRepository
type ComplaintRepository struct {
	mu         sync.Mutex
	Complaints map[string]*models.Complaint
	Residents  *ResidentRepository
	Err        error
	Calls      map[string]int
}

func NewComplaintRepository(residents *ResidentRepository, complaints ...*models.Complaint) *ComplaintRepository {
	r := &ComplaintRepository{Complaints: map[string]*models.Complaint{}, Residents: residents, Calls: map[string]int{}}
	for _, c := range complaints {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		r.Complaints[c.ID] = c
	}
	return r
}

func (r *ComplaintRepository) preload(c *models.Complaint) {
	if r.Residents == nil {
		return
	}
	r.Residents.mu.Lock()
	c.Resident = r.Residents.Residents[c.ResidentID]
	r.Residents.mu.Unlock()
}

func (r *ComplaintRepository) FindByID(_ context.Context, id string) (*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["FindByID"]++
	if r.Err != nil {
		return nil, r.Err
	}
	c, ok := r.Complaints[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	r.preload(c)
	return c, nil
}

func (r *ComplaintRepository) List(_ context.Context, filter repository.ComplaintFilter) ([]*models.Complaint, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["List"]++
	if r.Err != nil {
		return nil, 0, r.Err
	}
	var out []*models.Complaint
	for _, c := range r.Complaints {
		if filter.ResidentID != "" && c.ResidentID != filter.ResidentID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if s := filter.Search; s != "" && !contains(c.Title, s) && !contains(c.Description, s) && !contains(c.Category, s) {
			continue
		}
		r.preload(c)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, filter.ListOptions), int64(len(out)), nil
}

func (r *ComplaintRepository) CountByStatus(_ context.Context, residentID string) (map[models.ComplaintStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["CountByStatus"]++
	if r.Err != nil {
		return nil, r.Err
	}
	counts := map[models.ComplaintStatus]int64{}
	for _, c := range r.Complaints {
		if residentID != "" && c.ResidentID != residentID {
			continue
		}
		counts[c.Status]++
	}
	return counts, nil
}

func (r *ComplaintRepository) Create(_ context.Context, complaint *models.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Create"]++
	if r.Err != nil {
		return r.Err
	}
	if complaint.ID == "" {
		complaint.ID = uuid.New().String()
	}
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = time.Now()
	}
	r.Complaints[complaint.ID] = complaint
	return nil
}

func (r *ComplaintRepository) Update(_ context.Context, complaint *models.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Update"]++
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.Complaints[complaint.ID]; !ok {
		return repository.ErrRecordNotFound
	}
	r.Complaints[complaint.ID] = complaint
	return nil
}

// BillRepository is an in-memory repository.BillRepository that enforces one
// bill per resident and period like the unique index does
type BillRepository struct {
	mu        sync.Mutex
	Bills     map[string]*models.MaintenanceBill
	Residents *ResidentRepository
	Err       error
	Calls     map[string]int

	// BeforeCreateBills runs once, ahead of the next CreateBills, so a test can
	// insert rows the caller's duplicate check did not see
	BeforeCreateBills func()
}

func NewBillRepository(residents *ResidentRepository, bills ...*models.MaintenanceBill) *BillRepository {
	r := &BillRepository{Bills: map[string]*models.MaintenanceBill{}, Residents: residents, Calls: map[string]int{}}
	for _, b := range bills {
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		r.Bills[b.ID] = b
	}
	return r
}

func periodKey(residentID, month string, year int) string {
	return fmt.Sprintf("%s|%s|%d", residentID, month, year)
}

func (r *BillRepository) preload(b *models.MaintenanceBill) {
	if r.Residents == nil {
		return
	}
	r.Residents.mu.Lock()
	b.Resident = r.Residents.Residents[b.ResidentID]
	r.Residents.mu.Unlock()
}

func (r *BillRepository) FindByID(_ context.Context, id string) (*models.MaintenanceBill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["FindByID"]++
	if r.Err != nil {
		return nil, r.Err
	}
	b, ok := r.Bills[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	r.preload(b)
	return b, nil
}

func (r *BillRepository) FindBilledResidentIDs(_ context.Context, residentIDs []string, month string, year int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["FindBilledResidentIDs"]++
	if r.Err != nil {
		return nil, r.Err
	}
	wanted := map[string]bool{}
	for _, id := range residentIDs {
		wanted[id] = true
	}
	var out []string
	for _, b := range r.Bills {
		if wanted[b.ResidentID] && b.Month == month && b.Year == year {
			out = append(out, b.ResidentID)
		}
	}
	return out, nil
}

func (r *BillRepository) CreateBills(_ context.Context, bills []*models.MaintenanceBill) ([]*models.MaintenanceBill, error) {
	r.mu.Lock()
	hook := r.BeforeCreateBills
	r.BeforeCreateBills = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["CreateBills"]++
	if r.Err != nil {
		return nil, r.Err
	}
	existing := map[string]bool{}
	for _, b := range r.Bills {
		existing[periodKey(b.ResidentID, b.Month, b.Year)] = true
	}
	created := make([]*models.MaintenanceBill, 0, len(bills))
	for _, b := range bills {
		key := periodKey(b.ResidentID, b.Month, b.Year)
		if existing[key] {
			continue
		}
		existing[key] = true
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		if b.GeneratedDate.IsZero() {
			b.GeneratedDate = time.Now()
		}
		r.Bills[b.ID] = b
		created = append(created, b)
	}
	return created, nil
}

func (r *BillRepository) Update(_ context.Context, bill *models.MaintenanceBill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Update"]++
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.Bills[bill.ID]; !ok {
		return repository.ErrRecordNotFound
	}
	r.Bills[bill.ID] = bill
	return nil
}

func (r *BillRepository) List(_ context.Context, filter repository.BillFilter) ([]*models.MaintenanceBill, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["List"]++
	if r.Err != nil {
		return nil, 0, r.Err
	}
	var out []*models.MaintenanceBill
	for _, b := range r.Bills {
		if filter.ResidentID != "" && b.ResidentID != filter.ResidentID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		r.preload(b)
		if s := filter.Search; s != "" {
			match := contains(b.Month, s) || contains(fmt.Sprint(b.Year), s)
			if b.Resident != nil {
				match = match || contains(b.Resident.Name, s) || contains(b.Resident.Apartment, s) ||
					contains(b.Resident.Email, s) || contains(b.Resident.Phone, s)
			}
			if !match {
				continue
			}
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.After(out[j].DueDate) })
	return page(out, filter.ListOptions), int64(len(out)), nil
}

func (r *BillRepository) ListByResident(_ context.Context, residentID string) ([]*models.MaintenanceBill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["ListByResident"]++
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*models.MaintenanceBill
	for _, b := range r.Bills {
		if b.ResidentID == residentID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].DueDate.After(out[j].DueDate)
	})
	return out, nil
}

func (r *BillRepository) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["MarkOverdue"]++
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for _, b := range r.Bills {
		if b.Status == models.BillPending && b.DueDate.Before(now) {
			b.Status = models.BillOverdue
			n++
		}
	}
	return n, nil
}

// LogSchedulerRepository records scheduler log entries in memory
type LogSchedulerRepository struct {
	mu      sync.Mutex
	Entries []*models.SchedulerLog
	Err     error
}

func (r *LogSchedulerRepository) CreateLogScheduler(_ context.Context, log *models.SchedulerLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	log.ID = uint(len(r.Entries) + 1)
	r.Entries = append(r.Entries, log)
	return nil
}

// Statuses returns the status of every entry in insertion order
func (r *LogSchedulerRepository) Statuses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, e.Status)
	}
	return out
}
