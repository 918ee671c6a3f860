// Package mocks holds in-memory fakes of the repository interfaces for tests.
// Each fake keeps its rows in maps, counts calls and returns Err when set.
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"residence-be-svc/internal/models"
	"residence-be-svc/internal/repository"
)

func page[T any](rows []T, opts repository.ListOptions) []T {
	if opts.Limit <= 0 {
		return rows
	}
	p := opts.Page
	if p < 1 {
		p = 1
	}
	start := (p - 1) * opts.Limit
	if start >= len(rows) {
		return []T{}
	}
	end := start + opts.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// AdminRepository is an in-memory repository.AdminRepository
type AdminRepository struct {
	mu     sync.Mutex
	Admins map[string]*models.Admin
	Err    error
	Calls  map[string]int
}

func NewAdminRepository(admins ...*models.Admin) *AdminRepository {
	r := &AdminRepository{Admins: map[string]*models.Admin{}, Calls: map[string]int{}}
	for _, a := range admins {
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		r.Admins[a.ID] = a
	}
	return r
}

func (r *AdminRepository) FindByID(_ context.Context, id string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["FindByID"]++
	if r.Err != nil {
		return nil, r.Err
	}
	if a, ok := r.Admins[id]; ok {
		return a, nil
	}
	return nil, repository.ErrRecordNotFound
}

func (r *AdminRepository) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["FindByUsername"]++
	if r.Err != nil {
		return nil, r.Err
	}
	for _, a := range r.Admins {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (r *AdminRepository) Create(_ context.Context, admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Create"]++
	if r.Err != nil {
		return r.Err
	}
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	r.Admins[admin.ID] = admin
	return nil
}

// ResidentRepository is an in-memory repository.ResidentRepository
type ResidentRepository struct {
	mu        sync.Mutex
	Residents map[string]*models.Resident
	Err       error
	Calls     map[string]int
}

func NewResidentRepository(residents ...*models.Resident) *ResidentRepository {
	r := &ResidentRepository{Residents: map[string]*models.Resident{}, Calls: map[string]int{}}
	for _, res := range residents {
		if res.ID == "" {
			res.ID = uuid.New().String()
		}
		r.Residents[res.ID] = res
	}
	return r
}

func (r *ResidentRepository) sorted() []*models.Resident {
	out := make([]*models.Resident, 0, len(r.Residents))
	for _, res := range r.Residents {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Apartment < out[j].Apartment })
	return out
}

func (r *ResidentRepository) find(match func(*models.Resident) bool) (*models.Resident, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	for _, res := range r.sorted() {
		if match(res) {
			return res, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (r *ResidentRepository) FindByID(_ context.Context, id string) (*models.Resident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["FindByID"]++
	return r.find(func(res *models.Resident) bool { return res.ID == id })
}

func (r *ResidentRepository) FindByEmail(_ context.Context, email string) (*models.Resident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["FindByEmail"]++
	return r.find(func(res *models.Resident) bool { return res.Email == email })
}

func (r *ResidentRepository) FindByUsername(_ context.Context, username string) (*models.Resident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["FindByUsername"]++
	return r.find(func(res *models.Resident) bool { return res.Username != nil && *res.Username == username })
}

func (r *ResidentRepository) FindByApartment(_ context.Context, apartment string) (*models.Resident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["FindByApartment"]++
	return r.find(func(res *models.Resident) bool { return res.Apartment == apartment })
}

func (r *ResidentRepository) FindBillable(_ context.Context, ids []string) ([]*models.Resident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["FindBillable"]++
	if r.Err != nil {
		return nil, r.Err
	}
	wanted := map[string]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	var out []*models.Resident
	for _, res := range r.sorted() {
		if len(ids) > 0 && !wanted[res.ID] {
			continue
		}
		if res.Billable() {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *ResidentRepository) List(_ context.Context, filter repository.ResidentFilter) ([]*models.Resident, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["List"]++
	if r.Err != nil {
		return nil, 0, r.Err
	}
	var out []*models.Resident
	for _, res := range r.sorted() {
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		if s := filter.Search; s != "" && !contains(res.Name, s) && !contains(res.Email, s) &&
			!contains(res.Apartment, s) && !contains(res.Phone, s) {
			continue
		}
		out = append(out, res)
	}
	return page(out, filter.ListOptions), int64(len(out)), nil
}

func (r *ResidentRepository) Create(_ context.Context, resident *models.Resident) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Create"]++
	if r.Err != nil {
		return r.Err
	}
	if resident.ID == "" {
		resident.ID = uuid.New().String()
	}
	r.Residents[resident.ID] = resident
	return nil
}

func (r *ResidentRepository) Update(_ context.Context, resident *models.Resident) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Update"]++
	if r.Err != nil {
		return r.Err
	}
	r.Residents[resident.ID] = resident
	return nil
}

func (r *ResidentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Delete"]++
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.Residents[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(r.Residents, id)
	return nil
}

// ServiceProviderRepository is an in-memory repository.ServiceProviderRepository
type ServiceProviderRepository struct {
	mu        sync.Mutex
	Providers map[string]*models.ServiceProvider
	Err       error
	Calls     map[string]int
}

func NewServiceProviderRepository(providers ...*models.ServiceProvider) *ServiceProviderRepository {
	r := &ServiceProviderRepository{Providers: map[string]*models.ServiceProvider{}, Calls: map[string]int{}}
	for _, p := range providers {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		r.Providers[p.ID] = p
	}
	return r
}

func (r *ServiceProviderRepository) sorted() []*models.ServiceProvider {
	out := make([]*models.ServiceProvider, 0, len(r.Providers))
	for _, p := range r.Providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegistrationDate.After(out[j].RegistrationDate) })
	return out
}

func (r *ServiceProviderRepository) find(match func(*models.ServiceProvider) bool) (*models.ServiceProvider, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	for _, p := range r.Providers {
		if match(p) {
			return p, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (r *ServiceProviderRepository) FindByID(_ context.Context, id string) (*models.ServiceProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["FindByID"]++
	return r.find(func(p *models.ServiceProvider) bool { return p.ID == id })
}

func (r *ServiceProviderRepository) FindByEmail(_ context.Context, email string) (*models.ServiceProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["FindByEmail"]++
	return r.find(func(p *models.ServiceProvider) bool { return p.Email == email })
}

func (r *ServiceProviderRepository) FindByUsername(_ context.Context, username string) (*models.ServiceProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["FindByUsername"]++
	return r.find(func(p *models.ServiceProvider) bool { return p.Username == username })
}

func (r *ServiceProviderRepository) List(_ context.Context, filter repository.ServiceProviderFilter) ([]*models.ServiceProvider, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["List"]++
	if r.Err != nil {
		return nil, 0, r.Err
	}
	var out []*models.ServiceProvider
	for _, p := range r.sorted() {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(p.ServiceCategory, filter.Category) {
			continue
		}
		if s := filter.Search; s != "" && !contains(p.Name, s) && !contains(p.Email, s) && !contains(p.ServiceCategory, s) {
			continue
		}
		out = append(out, p)
	}
	return page(out, filter.ListOptions), int64(len(out)), nil
}

func (r *ServiceProviderRepository) CountByStatus(_ context.Context) (map[models.ServiceProviderStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["CountByStatus"]++
	if r.Err != nil {
		return nil, r.Err
	}
	counts := map[models.ServiceProviderStatus]int64{}
	for _, p := range r.Providers {
		counts[p.Status]++
	}
	return counts, nil
}

func (r *ServiceProviderRepository) RegisteredSince(_ context.Context, since time.Time, limit int) ([]*models.ServiceProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["RegisteredSince"]++
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*models.ServiceProvider
	for _, p := range r.sorted() {
		if !p.RegistrationDate.Before(since) {
			out = append(out, p)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ServiceProviderRepository) Create(_ context.Context, provider *models.ServiceProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Create"]++
	if r.Err != nil {
		return r.Err
	}
	if provider.ID == "" {
		provider.ID = uuid.New().String()
	}
	if provider.RegistrationDate.IsZero() {
		provider.RegistrationDate = time.Now()
	}
	r.Providers[provider.ID] = provider
	return nil
}

func (r *ServiceProviderRepository) Update(_ context.Context, provider *models.ServiceProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Update"]++
	if r.Err != nil {
		return r.Err
	}
	r.Providers[provider.ID] = provider
	return nil
}

func (r *ServiceProviderRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Delete"]++
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.Providers[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(r.Providers, id)
	return nil
}
