package response

import (
	"residence-be-svc/internal/models"
	"residence-be-svc/pkg/utils"
)

// LoginResponse carries the issued token and the account it belongs to
type LoginResponse struct {
	Token string      `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User  interface{} `json:"user"`
}

// ResidentListResponse is one page of residents
type ResidentListResponse struct {
	Residents  []*models.Resident `json:"residents"`
	Pagination utils.Pagination   `json:"pagination"`
}

// ServiceProviderListResponse is one page of service providers
type ServiceProviderListResponse struct {
	ServiceProviders []*models.ServiceProvider `json:"serviceProviders"`
	Pagination       utils.Pagination          `json:"pagination"`
}

// ServiceProviderStatsResponse is the onboarding overview for the admin dashboard
type ServiceProviderStatsResponse struct {
	Total               int64                     `json:"total" example:"20"`
	Pending             int64                     `json:"pending" example:"4"`
	Approved            int64                     `json:"approved" example:"15"`
	Rejected            int64                     `json:"rejected" example:"1"`
	RecentRegistrations []*models.ServiceProvider `json:"recentRegistrations"`
}
