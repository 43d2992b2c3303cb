// internal/service/engine/engine_test.go
package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shiftcare-service/internal/domain/schedule"
	"shiftcare-service/internal/domain/settings"
	"shiftcare-service/internal/domain/workforce"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solverInput() *GenerateInput {
	return &GenerateInput{
		NumDays:   30,
		Month:     5,
		Year:      2025,
		Employees: []*workforce.Employee{{ID: 1, AccountID: 1, Name: "A"}},
		Shifts:    []*workforce.Shift{{ID: 1, AccountID: 1, Name: "Day", StartTime: "08:00", EndTime: "16:00"}},
		Settings:  settings.Defaults(1),
	}
}

func TestGenerate(t *testing.T) {
	want := schedule.Grid{{{1}}, {{1}}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in GenerateInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, 30, in.NumDays)
		assert.Len(t, in.Employees, 1)

		json.NewEncoder(w).Encode(generateResponse{Schedule: want})
	}))
	defer srv.Close()

	eng := NewHTTPEngine(srv.URL, 5*time.Second)
	got, err := eng.Generate(context.Background(), solverInput())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGenerateSolverError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Error: "infeasible constraints"})
	}))
	defer srv.Close()

	eng := NewHTTPEngine(srv.URL, 5*time.Second)
	_, err := eng.Generate(context.Background(), solverInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "infeasible constraints")
}

func TestGenerateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	eng := NewHTTPEngine(srv.URL, 5*time.Second)
	_, err := eng.Generate(context.Background(), solverInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGenerateEmptySchedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{})
	}))
	defer srv.Close()

	eng := NewHTTPEngine(srv.URL, 5*time.Second)
	_, err := eng.Generate(context.Background(), solverInput())
	require.Error(t, err)
}

func TestGenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(generateResponse{Schedule: schedule.Grid{{{1}}}})
	}))
	defer srv.Close()

	eng := NewHTTPEngine(srv.URL, 50*time.Millisecond)
	_, err := eng.Generate(context.Background(), solverInput())
	require.Error(t, err)
}
