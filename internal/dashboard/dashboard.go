// Package dashboard derives the summary values shown on the admin and
// client dashboards. Everything here is a pure function over snapshots
// already fetched from storage; nothing in this package mutates state.
package dashboard

import (
	"fmt"
	"math"
	"sort"
	"time"

	"agencydesk/internal/models"
)

// ProjectStage rolls a project's tasks up to a single stage label: the
// furthest column any task has reached, scanning from done backwards. One
// task hitting done pulls the whole project's displayed stage forward; an
// empty board reads as to-do.
func ProjectStage(tasks []models.Task) models.Stage {
	for i := len(models.Stages) - 1; i >= 0; i-- {
		for _, t := range tasks {
			if t.Stage == models.Stages[i] {
				return models.Stages[i]
			}
		}
	}
	return models.StageToDo
}

// Progress is the fraction of the four-stage pipeline the rollup stage
// represents: (index+1)/4. An unknown stage counts as to-do.
func Progress(stage models.Stage) float64 {
	idx := stage.Index()
	if idx < 0 {
		idx = 0
	}
	return float64(idx+1) / float64(len(models.Stages))
}

// StageProgress combines ProjectStage and Progress for a task set and also
// reports the current/total step counts the project cards render.
func StageProgress(tasks []models.Task) (stage models.Stage, current, total int, percent float64) {
	stage = ProjectStage(tasks)
	total = len(models.Stages)
	current = stage.Index() + 1
	percent = Progress(stage) * 100
	return stage, current, total, percent
}

// ProjectPaymentStatus rolls a project's payments up to one label: paid
// when every payment is paid, partial when any payment is partial,
// otherwise pending. No payments at all reads as pending.
func ProjectPaymentStatus(payments []models.Payment) models.PaymentStatus {
	if len(payments) == 0 {
		return models.PaymentPending
	}
	allPaid := true
	anyPartial := false
	for _, p := range payments {
		if p.Status != models.PaymentPaid {
			allPaid = false
		}
		if p.Status == models.PaymentPartial {
			anyPartial = true
		}
	}
	switch {
	case allPaid:
		return models.PaymentPaid
	case anyPartial:
		return models.PaymentPartial
	default:
		return models.PaymentPending
	}
}

// DeadlineBucket classifies how close a deadline is.
type DeadlineBucket string

const (
	DeadlineOverdue     DeadlineBucket = "overdue"
	DeadlineDueToday    DeadlineBucket = "due-today"
	DeadlineDueTomorrow DeadlineBucket = "due-tomorrow"
	DeadlineDaysLeft    DeadlineBucket = "days-left"
)

// Deadline is the classified distance between now and a project deadline.
type Deadline struct {
	Bucket DeadlineBucket `json:"bucket"`
	Days   int            `json:"days"`
	Label  string         `json:"label"`
}

// ClassifyDeadline buckets a deadline relative to now. Days is the ceiling
// of the remaining time in 24h days, so any part of a day still counts as
// a full day left, matching what the project cards display.
func ClassifyDeadline(deadline, now time.Time) Deadline {
	days := int(math.Ceil(deadline.Sub(now).Hours() / 24))
	switch {
	case days < 0:
		return Deadline{Bucket: DeadlineOverdue, Days: days, Label: "Overdue"}
	case days == 0:
		return Deadline{Bucket: DeadlineDueToday, Days: 0, Label: "Due today"}
	case days == 1:
		return Deadline{Bucket: DeadlineDueTomorrow, Days: 1, Label: "Due tomorrow"}
	default:
		return Deadline{Bucket: DeadlineDaysLeft, Days: days, Label: fmt.Sprintf("%d days left", days)}
	}
}

// SortFinished orders projects most recently finished first. The input is
// not modified.
func SortFinished(projects []models.Project) []models.Project {
	out := make([]models.Project, len(projects))
	copy(out, projects)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Stats are the admin dashboard counters.
type Stats struct {
	TotalProjects       int `json:"totalProjects"`
	Ongoing             int `json:"ongoing"`
	Finished            int `json:"finished"`
	Clients             int `json:"clients"`
	UncompletedPayments int `json:"uncompletedPayments"`
}

// ComputeStats derives the admin dashboard counters. UncompletedPayments
// counts finished projects whose payment rollup is anything but paid, that
// is, delivered work the agency has not been fully paid for.
func ComputeStats(projects []models.Project, clientCount int, paymentsByProject map[string][]models.Payment) Stats {
	st := Stats{TotalProjects: len(projects), Clients: clientCount}
	for _, p := range projects {
		if p.Status == models.ProjectFinished {
			st.Finished++
			if ProjectPaymentStatus(paymentsByProject[p.ID]) != models.PaymentPaid {
				st.UncompletedPayments++
			}
		} else {
			st.Ongoing++
		}
	}
	return st
}
