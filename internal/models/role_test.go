package models

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		claim string
		want  Role
		ok    bool
	}{
		{"", RoleAdmin, true},
		{"admin", RoleAdmin, true},
		{"resident", RoleResident, true},
		{"serviceProvider", RoleServiceProvider, true},
		{"superuser", "", false},
		{"Admin", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseRole(tt.claim)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tt.claim, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResidentBillable(t *testing.T) {
	tests := []struct {
		status   ResidentStatus
		approval ApprovalStatus
		want     bool
	}{
		{ResidentStatusActive, ApprovalApproved, true},
		{ResidentStatusActive, ApprovalPending, false},
		{ResidentStatusPending, ApprovalApproved, false},
		{ResidentStatusInactive, ApprovalRejected, false},
	}

	for _, tt := range tests {
		r := &Resident{Status: tt.status, ApprovalStatus: tt.approval}
		if got := r.Billable(); got != tt.want {
			t.Errorf("Billable(%s, %s) = %v, want %v", tt.status, tt.approval, got, tt.want)
		}
	}
}

func TestAccountIdentity(t *testing.T) {
	var accounts = []Account{
		&Admin{ID: "a", Username: "root", IsSuperAdmin: true},
		&Resident{ID: "r", Apartment: "A-101"},
		&ServiceProvider{ID: "p", Username: "bilal"},
	}
	want := []Role{RoleAdmin, RoleResident, RoleServiceProvider}

	for i, a := range accounts {
		id := a.Identity()
		if id.Role != want[i] || a.AccountRole() != want[i] || id.ID != a.AccountID() {
			t.Errorf("account %d: identity %+v does not match role %s", i, id, want[i])
		}
	}
}
