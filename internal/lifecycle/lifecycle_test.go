package lifecycle

import (
	"testing"
	"time"

	"github.com/shenikar/field_dispatch_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)

func newTestLifecycle() *Lifecycle {
	return New(func() time.Time { return fixedNow })
}

func newPending(t *testing.T, l *Lifecycle) *models.Incident {
	t.Helper()
	inc, err := l.Create(models.CreateIncidentInput{Title: "Fuga de agua", SiteID: "s_1"})
	require.NoError(t, err)
	return inc
}

func TestCreate_Defaults(t *testing.T) {
	l := newTestLifecycle()

	inc, err := l.Create(models.CreateIncidentInput{Title: "  Caldera  ", SiteID: "s_1"})

	require.NoError(t, err)
	assert.NotEmpty(t, inc.ID)
	assert.Equal(t, "Caldera", inc.Title)
	assert.Equal(t, models.StatusPending, inc.Status)
	assert.Equal(t, models.PriorityMedium, inc.Priority)
	assert.Equal(t, 1.0, inc.EstimatedHours)
	assert.Nil(t, inc.TechnicianID)
	assert.Nil(t, inc.StartAt)
	assert.Nil(t, inc.Deadline)
	assert.Equal(t, fixedNow, inc.CreatedAt)
	assert.Equal(t, fixedNow, inc.UpdatedAt)
	require.NoError(t, CheckInvariants(inc))
}

func TestCreate_ValidationErrors(t *testing.T) {
	l := newTestLifecycle()
	cases := map[string]models.CreateIncidentInput{
		"missing title":     {SiteID: "s_1"},
		"missing site":      {Title: "x"},
		"negative duration": {Title: "x", SiteID: "s_1", EstimatedHours: -2},
		"unknown priority":  {Title: "x", SiteID: "s_1", Priority: "urgente"},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := l.Create(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestAssign_FromPending(t *testing.T) {
	l := newTestLifecycle()
	inc := newPending(t, l)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	assigned, err := l.Assign(inc, "t_1", start)

	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, assigned.Status)
	assert.Equal(t, "t_1", assigned.Technician())
	assert.Equal(t, start, *assigned.StartAt)
	require.NoError(t, CheckInvariants(assigned))
	// исходное значение не изменилось
	assert.Equal(t, models.StatusPending, inc.Status)
	assert.Nil(t, inc.TechnicianID)
}

func TestAssign_RequiresTechnicianAndStart(t *testing.T) {
	l := newTestLifecycle()
	inc := newPending(t, l)

	_, err := l.Assign(inc, "", fixedNow)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = l.Assign(inc, "t_1", time.Time{})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSchedule_OnlyFromPending(t *testing.T) {
	l := newTestLifecycle()
	inc := newPending(t, l)
	start := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)

	scheduled, err := l.Schedule(inc, start)
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, scheduled.Status)
	require.NoError(t, CheckInvariants(scheduled))

	_, err = l.Schedule(scheduled, start)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)

	assigned, err := l.Assign(scheduled, "t_1", start)
	require.NoError(t, err)
	_, err = l.Schedule(assigned, start)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
}

func TestSchedule_LegacyOpenStatus(t *testing.T) {
	l := newTestLifecycle()
	inc := newPending(t, l)
	inc.Status = models.StatusOpen

	scheduled, err := l.Schedule(inc, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, scheduled.Status)
}

func TestSchedule_RequiresStart(t *testing.T) {
	l := newTestLifecycle()
	inc := newPending(t, l)

	_, err := l.Schedule(inc, time.Time{})

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUnassign_OnlyFromAssigned(t *testing.T) {
	l := newTestLifecycle()
	inc := newPending(t, l)

	_, err := l.Unassign(inc)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)

	assigned, err := l.Assign(inc, "t_1", fixedNow)
	require.NoError(t, err)

	pending, err := l.Unassign(assigned)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, pending.Status)
	assert.Nil(t, pending.TechnicianID)
	assert.Nil(t, pending.StartAt)
	require.NoError(t, CheckInvariants(pending))
}

func TestUnassignThenAssign_LeavesSingleTechnician(t *testing.T) {
	l := newTestLifecycle()
	inc := newPending(t, l)
	first := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	second := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

	assigned, err := l.Assign(inc, "t_1", first)
	require.NoError(t, err)
	pending, err := l.Unassign(assigned)
	require.NoError(t, err)
	reassigned, err := l.Assign(pending, "t_2", second)
	require.NoError(t, err)

	assert.Equal(t, "t_2", reassigned.Technician())
	assert.Equal(t, second, *reassigned.StartAt)
	require.NoError(t, CheckInvariants(reassigned))
	// предыдущее значение не разделяет указатели с новым
	assert.Equal(t, "t_1", assigned.Technician())
}

func TestCancel_IsTerminal(t *testing.T) {
	l := newTestLifecycle()
	inc := newPending(t, l)
	assigned, err := l.Assign(inc, "t_1", fixedNow)
	require.NoError(t, err)

	cancelled, err := l.Cancel(assigned)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	require.NoError(t, CheckInvariants(cancelled))

	_, err = l.Cancel(cancelled)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
	_, err = l.Assign(cancelled, "t_1", fixedNow)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
	_, err = l.Schedule(cancelled, fixedNow)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
	_, err = l.Unassign(cancelled)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
}

func TestTransitionsStampUpdatedAt(t *testing.T) {
	clock := fixedNow
	l := New(func() time.Time { return clock })
	inc := newPending(t, l)

	clock = clock.Add(time.Hour)
	scheduled, err := l.Schedule(inc, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, clock, scheduled.UpdatedAt)
	assert.Equal(t, fixedNow, scheduled.CreatedAt)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.IncidentStatus
		want     bool
	}{
		{models.StatusPending, models.StatusScheduled, true},
		{models.StatusPending, models.StatusAssigned, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusPending, false},
		{models.StatusScheduled, models.StatusAssigned, true},
		{models.StatusScheduled, models.StatusScheduled, false},
		{models.StatusScheduled, models.StatusPending, false},
		{models.StatusAssigned, models.StatusPending, true},
		{models.StatusAssigned, models.StatusAssigned, true},
		{models.StatusAssigned, models.StatusScheduled, false},
		{models.StatusCancelled, models.StatusAssigned, false},
		{models.StatusCancelled, models.StatusCancelled, false},
		{models.IncidentStatus("cerrada"), models.StatusCancelled, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
