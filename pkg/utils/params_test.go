package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func contextWithQuery(query string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestGetIDParam(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{
		{Key: "id", Value: "6F9619FF-8B86-D011-B42D-00C04FC964FF"},
		{Key: "bad", Value: "42"},
	}

	id, err := GetIDParam(c, "id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "6f9619ff-8b86-d011-b42d-00c04fc964ff" {
		t.Errorf("id = %q, want canonical lowercase uuid", id)
	}

	if _, err := GetIDParam(c, "bad"); err == nil {
		t.Error("expected error for non-uuid id")
	}
}

func TestGetPageParams(t *testing.T) {
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 10},
		{"page=3&limit=25", 3, 25},
		{"page=0&limit=-5", 1, 10},
		{"page=abc&limit=xyz", 1, 10},
		{"limit=1000", 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page, limit := GetPageParams(contextWithQuery(tt.query))
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("GetPageParams(%q) = (%d, %d), want (%d, %d)", tt.query, page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestSortAscending(t *testing.T) {
	if !SortAscending(contextWithQuery("order=ASC")) {
		t.Error("order=ASC should sort ascending")
	}
	if SortAscending(contextWithQuery("order=desc")) {
		t.Error("order=desc should not sort ascending")
	}
	if SortAscending(contextWithQuery("")) {
		t.Error("default order should be descending")
	}
}
