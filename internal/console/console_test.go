package console

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitfit/internal/operation"
	"github.com/commitfit/internal/transport"
	"github.com/commitfit/pkg/models"
)

func endpoints(kind models.OperationKind) string {
	switch kind {
	case models.OperationGather:
		return "/run_github_gather"
	case models.OperationFitBass:
		return "/run_bass_model"
	default:
		return "/run_innovation_model"
	}
}

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method + " " + r.URL.Path {
		case "POST /run_github_gather":
			w.Write([]byte(`{"success":true}`))
		case "POST /run_bass_model":
			w.Write([]byte(`{"success":true,"output":"p=0.03, q=0.38","images":["b1.png","b2.png"]}`))
		case "POST /run_innovation_model":
			w.Write([]byte(`{"success":false,"error":"not enough monthly data"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newConsole(t *testing.T, output string, out *bytes.Buffer, repo models.RepoRef) *Console {
	t.Helper()
	srv := newBackend(t)
	c, err := New(Options{
		Repo:         repo,
		Definitions:  operation.Definitions(endpoints),
		Sender:       transport.NewClient(srv.URL, nil),
		DiscardStale: true,
		Output:       output,
		Out:          out,
	})
	require.NoError(t, err)
	return c
}

func TestRunPretty(t *testing.T) {
	var out bytes.Buffer
	c := newConsole(t, OutputPretty, &out, models.RepoRef{Owner: "octocat", Repo: "Hello-World"})

	report, err := c.Run(context.Background(), []models.OperationKind{models.OperationGather, models.OperationFitBass})
	require.NoError(t, err)
	require.Len(t, report.Operations, 2)

	printed := out.String()
	assert.Contains(t, printed, "[status] Processing... This may take a few minutes.\n")
	assert.Contains(t, printed, "[status] Commit data gathered successfully!\n")
	assert.Contains(t, printed, "[download-links] Monthly Commits: data/octocat-Hello-World-monthly.csv\n")
	assert.Contains(t, printed, "[bass-model-status] Bass Model Fitting Completed!\n")
	assert.Contains(t, printed, "[bass-model-status] p=0.03, q=0.38\n")
	assert.Contains(t, printed, "[bass-model-images]   Image: b2.png\n")
	assert.Contains(t, printed, "Repository: octocat/Hello-World\n")
}

func TestRunJSON(t *testing.T) {
	var out bytes.Buffer
	c := newConsole(t, OutputJSON, &out, models.RepoRef{Owner: "octocat", Repo: "Hello-World"})

	_, err := c.Run(context.Background(), []models.OperationKind{models.OperationFitBass})
	require.NoError(t, err)

	var report Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Operations, 1)

	op := report.Operations[0]
	assert.Equal(t, models.OperationFitBass, op.Operation)
	assert.Equal(t, models.StateSuccess, op.State)
	assert.NotEmpty(t, op.RequestID)
	assert.Equal(t, "Bass Model Fitting Completed!", op.Status.Message)
	assert.Equal(t, "p=0.03, q=0.38", op.Status.Output)
	require.NotNil(t, op.Result.Gallery)
	assert.Equal(t, []string{"b1.png", "b2.png"}, op.Result.Gallery.Images)
}

func TestRunFailureDoesNotStopOthers(t *testing.T) {
	var out bytes.Buffer
	c := newConsole(t, OutputJSON, &out, models.RepoRef{Owner: "octocat", Repo: "Hello-World"})

	report, err := c.Run(context.Background(), models.AllOperations())
	require.Error(t, err)
	assert.Equal(t, "1 of 3 operations failed", err.Error())
	assert.Equal(t, 1, report.Failed())

	states := make(map[models.OperationKind]models.State)
	for _, op := range report.Operations {
		states[op.Operation] = op.State
	}
	assert.Equal(t, map[models.OperationKind]models.State{
		models.OperationGather:        models.StateSuccess,
		models.OperationFitBass:       models.StateSuccess,
		models.OperationFitInnovation: models.StateError,
	}, states)

	assert.Equal(t, "Error: not enough monthly data", report.Operations[2].Status.Message)
	assert.Equal(t, "not enough monthly data", report.Operations[2].Error)
}

func TestRunValidation(t *testing.T) {
	var out bytes.Buffer
	c := newConsole(t, OutputPretty, &out, models.RepoRef{Owner: "octocat"})

	report, err := c.Run(context.Background(), []models.OperationKind{models.OperationFitInnovation})
	require.Error(t, err)
	assert.Equal(t, "Please enter repository owner and name first.", report.Operations[0].Status.Message)
	assert.Empty(t, report.Operations[0].RequestID)
	assert.True(t, strings.Contains(out.String(), "[innovation-model-status] Please enter repository owner and name first."))
}

func TestNewRejectsUnknownOutput(t *testing.T) {
	_, err := New(Options{Output: "yaml", Out: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestParseKinds(t *testing.T) {
	kinds, err := ParseKinds([]string{"all"})
	require.NoError(t, err)
	assert.Equal(t, models.AllOperations(), kinds)

	kinds, err = ParseKinds([]string{"fit-bass", "gather", "fit-bass"})
	require.NoError(t, err)
	assert.Equal(t, []models.OperationKind{models.OperationFitBass, models.OperationGather}, kinds)

	_, err = ParseKinds([]string{"fit-logistic"})
	assert.Error(t, err)

	_, err = ParseKinds(nil)
	assert.Error(t, err)
}
