package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencydesk/internal/models"
)

func taskIn(stage models.Stage) models.Task {
	return models.Task{ID: "t-" + string(stage), Stage: stage}
}

func TestProjectStage(t *testing.T) {
	tests := []struct {
		name   string
		stages []models.Stage
		want   models.Stage
	}{
		{"empty board reads as to-do", nil, models.StageToDo},
		{"single to-do", []models.Stage{models.StageToDo}, models.StageToDo},
		{"review wins over to-do", []models.Stage{models.StageToDo, models.StageReview}, models.StageReview},
		{"one done task pulls the project to done", []models.Stage{models.StageToDo, models.StageToDo, models.StageDone}, models.StageDone},
		{"in-progress only", []models.Stage{models.StageInProgress, models.StageInProgress}, models.StageInProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tasks []models.Task
			for _, st := range tt.stages {
				tasks = append(tasks, taskIn(st))
			}
			assert.Equal(t, tt.want, ProjectStage(tasks))
		})
	}
}

// Adding a done task can only move the rollup forward, never backward.
func TestProjectStageMonotonic(t *testing.T) {
	base := []models.Task{taskIn(models.StageToDo), taskIn(models.StageReview)}
	before := ProjectStage(base)
	after := ProjectStage(append(base, taskIn(models.StageDone)))
	require.GreaterOrEqual(t, after.Index(), before.Index())
	assert.Equal(t, models.StageDone, after)
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.25, Progress(models.StageToDo))
	assert.Equal(t, 0.5, Progress(models.StageInProgress))
	assert.Equal(t, 0.75, Progress(models.StageReview))
	assert.Equal(t, 1.0, Progress(models.StageDone))
	assert.Equal(t, 0.25, Progress(models.Stage("bogus")))
}

func TestStageProgress(t *testing.T) {
	tasks := []models.Task{taskIn(models.StageToDo), taskIn(models.StageReview)}
	stage, current, total, percent := StageProgress(tasks)
	assert.Equal(t, models.StageReview, stage)
	assert.Equal(t, 3, current)
	assert.Equal(t, 4, total)
	assert.Equal(t, 75.0, percent)
}

func paymentWith(status models.PaymentStatus) models.Payment {
	return models.Payment{ID: "p-" + string(status), Status: status}
}

func TestProjectPaymentStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []models.PaymentStatus
		want     models.PaymentStatus
	}{
		{"no payments rolls up to pending", nil, models.PaymentPending},
		{"all paid", []models.PaymentStatus{models.PaymentPaid, models.PaymentPaid}, models.PaymentPaid},
		{"paid and partial", []models.PaymentStatus{models.PaymentPaid, models.PaymentPartial}, models.PaymentPartial},
		{"paid and pending", []models.PaymentStatus{models.PaymentPaid, models.PaymentPending}, models.PaymentPending},
		{"all pending", []models.PaymentStatus{models.PaymentPending}, models.PaymentPending},
		{"partial alone", []models.PaymentStatus{models.PaymentPartial}, models.PaymentPartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pays []models.Payment
			for _, st := range tt.statuses {
				pays = append(pays, paymentWith(st))
			}
			assert.Equal(t, tt.want, ProjectPaymentStatus(pays))
		})
	}
}

func TestClassifyDeadline(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
		bucket   DeadlineBucket
		label    string
	}{
		{"past deadline is overdue", now.Add(-36 * time.Hour), DeadlineOverdue, "Overdue"},
		{"later today is due today", now.Add(-2 * time.Hour), DeadlineDueToday, "Due today"},
		{"under a day away is due tomorrow", now.Add(20 * time.Hour), DeadlineDueTomorrow, "Due tomorrow"},
		{"five days out", now.Add(5 * 24 * time.Hour), DeadlineDaysLeft, "5 days left"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ClassifyDeadline(tt.deadline, now)
			assert.Equal(t, tt.bucket, d.Bucket)
			assert.Equal(t, tt.label, d.Label)
		})
	}
}

func TestSortFinished(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	projects := []models.Project{
		{ID: "a", UpdatedAt: base},
		{ID: "b", UpdatedAt: base.Add(48 * time.Hour)},
		{ID: "c", UpdatedAt: base.Add(24 * time.Hour)},
	}

	sorted := SortFinished(projects)
	require.Len(t, sorted, 3)
	assert.Equal(t, "b", sorted[0].ID)
	assert.Equal(t, "c", sorted[1].ID)
	assert.Equal(t, "a", sorted[2].ID)

	// Input untouched.
	assert.Equal(t, "a", projects[0].ID)
}

func TestComputeStats(t *testing.T) {
	projects := []models.Project{
		{ID: "p1", Status: models.ProjectOngoing},
		{ID: "p2", Status: models.ProjectFinished},
		{ID: "p3", Status: models.ProjectFinished},
	}
	paymentsByProject := map[string][]models.Payment{
		"p2": {paymentWith(models.PaymentPaid)},
		"p3": {paymentWith(models.PaymentPaid), paymentWith(models.PaymentPartial)},
	}

	st := ComputeStats(projects, 4, paymentsByProject)
	assert.Equal(t, 3, st.TotalProjects)
	assert.Equal(t, 1, st.Ongoing)
	assert.Equal(t, 2, st.Finished)
	assert.Equal(t, 4, st.Clients)
	// p3 is delivered but not fully paid.
	assert.Equal(t, 1, st.UncompletedPayments)
}
