package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name     string
	schedule Schedule
	err      error
	runs     int
}

func (j *stubJob) Name() string       { return j.name }
func (j *stubJob) Schedule() Schedule { return j.schedule }
func (j *stubJob) Execute(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestSchedulerService_AddJob(t *testing.T) {
	tests := []struct {
		name    string
		job     *stubJob
		wantErr bool
	}{
		{name: "Interval job", job: &stubJob{name: "interval", schedule: Every(15 * time.Second)}},
		{name: "Daily job", job: &stubJob{name: "daily", schedule: DailyAt("03:00")}},
		{name: "Job without schedule", job: &stubJob{name: "none"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := NewSchedulerService(time.UTC)

			err := scheduler.AddJob(tt.job)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, 0, scheduler.GetJobCount())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, 1, scheduler.GetJobCount())
		})
	}
}

func TestSchedulerService_StartWithoutJobs(t *testing.T) {
	scheduler := NewSchedulerService(nil)

	require.NoError(t, scheduler.Start(context.Background()))
	assert.False(t, scheduler.IsRunning())
	assert.NoError(t, scheduler.Stop(context.Background()))
}

func TestSchedulerService_TriggerJobByName(t *testing.T) {
	scheduler := NewSchedulerService(time.UTC)
	job := &stubJob{name: "cleanliness", schedule: Every(time.Hour)}
	failing := &stubJob{name: "failing", schedule: Every(time.Hour), err: errors.New("boom")}
	require.NoError(t, scheduler.AddJob(job))
	require.NoError(t, scheduler.AddJob(failing))

	assert.NoError(t, scheduler.TriggerJobByName(context.Background(), "cleanliness"))
	assert.Equal(t, 1, job.runs)

	assert.Error(t, scheduler.TriggerJobByName(context.Background(), "failing"))
	assert.Error(t, scheduler.TriggerJobByName(context.Background(), "missing"))
}
