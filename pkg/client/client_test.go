package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/terra-clan/sitetrack/internal/models"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestListTasksSendsFilters(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/projects/p1/tasks" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("status"); got != "In Progress" {
			t.Errorf("expected status filter, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"data":{"tasks":[{"id":"t1","description":"Pour slab","progress":40}],"total":1}}`)
	})

	tasks, err := c.ListTasks(context.Background(), "p1", TaskListOptions{Status: "In Progress"})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t1" || tasks[0].Progress != 40 {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}

func TestGetScheduleDecodesReport(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"data":{"projectId":"p1","projectName":"Depot",
			"timeline":{"totalDays":181,"daysRemaining":91},
			"summary":{"totalTasks":3,"maxDelayDays":31}}}`)
	})

	report, err := c.GetSchedule(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetSchedule failed: %v", err)
	}
	if report.ProjectName != "Depot" || report.Timeline.DaysRemaining != 91 || report.Summary.MaxDelayDays != 31 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestPatchTaskReturnsAPIError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"success":false,"error":{"code":"not_found","message":"task not found"}}`)
	})

	progress := 50
	_, err := c.PatchTask(context.Background(), "missing", models.TaskPatch{Progress: &progress})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Code != "not_found" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	if err := c.Health(context.Background()); err == nil {
		t.Fatal("expected error for 502")
	}
}
