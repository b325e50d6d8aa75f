package jobs

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shenikar/field_dispatch_system/internal/models"
	"github.com/shenikar/field_dispatch_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestJob(t *testing.T) (*AutoAssignJob, *mocks.MockIncidentService) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockIncidentService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	job := NewAutoAssignJob(svc, logger)
	job.now = func() time.Time { return time.Date(2026, 3, 2, 6, 30, 0, 0, time.Local) }
	return job, svc
}

func TestRunOnce_AllSites(t *testing.T) {
	job, svc := newTestJob(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

	svc.EXPECT().ListSites(gomock.Any()).Return([]*models.Site{{ID: "sede_1"}, {ID: "sede_2"}}, nil)
	gomock.InOrder(
		svc.EXPECT().AutoAssign(gomock.Any(), "sede_1", day).Return(&models.AutoAssignResult{}, nil),
		svc.EXPECT().AutoAssign(gomock.Any(), "sede_2", day).Return(&models.AutoAssignResult{}, nil),
	)

	require.NoError(t, job.RunOnce(context.Background()))
}

func TestRunOnce_ContinuesAfterSiteFailure(t *testing.T) {
	job, svc := newTestJob(t)
	boom := errors.New("disk full")

	svc.EXPECT().ListSites(gomock.Any()).Return([]*models.Site{{ID: "sede_1"}, {ID: "sede_2"}}, nil)
	svc.EXPECT().AutoAssign(gomock.Any(), "sede_1", gomock.Any()).Return(nil, boom)
	svc.EXPECT().AutoAssign(gomock.Any(), "sede_2", gomock.Any()).Return(&models.AutoAssignResult{}, nil)

	err := job.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "sede_1")
}

func TestRunOnce_ListSitesError(t *testing.T) {
	job, svc := newTestJob(t)
	svc.EXPECT().ListSites(gomock.Any()).Return(nil, errors.New("unreadable sedes.json"))

	err := job.RunOnce(context.Background())
	assert.ErrorContains(t, err, "could not list sites")
}

func TestRun_InvalidSchedule(t *testing.T) {
	job, _ := newTestJob(t)
	err := job.Run(context.Background(), "every morning")
	assert.ErrorContains(t, err, "invalid AUTO_ASSIGN_CRON")
}

func TestRun_StopsOnCancel(t *testing.T) {
	job, _ := newTestJob(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- job.Run(ctx, "0 7 * * *") }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("job did not stop after cancel")
	}
}
