package syncjob_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/cptracker/core/settings"
	"github.com/trezcool/cptracker/core/syncjob"
	"github.com/trezcool/cptracker/tests"
)

func TestScheduler(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	sched := syncjob.NewScheduler(e.svc, e.settings, testutil.NewLogger())
	assert.False(t, sched.Scheduled())

	require.NoError(t, sched.Start(ctx))
	defer func() { <-sched.Stop().Done() }()
	assert.True(t, sched.Scheduled(), "enabled by default")

	off, on := false, true
	weekly := settings.Weekly

	tests := []struct {
		name  string
		patch settings.SyncSettingsPatch
		want  bool
	}{
		{name: "disable", patch: settings.SyncSettingsPatch{Enabled: &off}, want: false},
		{name: "change while disabled", patch: settings.SyncSettingsPatch{Frequency: &weekly}, want: false},
		{name: "enable", patch: settings.SyncSettingsPatch{Enabled: &on}, want: true},
		{name: "change while enabled", patch: settings.SyncSettingsPatch{Frequency: &weekly}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.settings.UpdateSync(ctx, tt.patch)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sched.Scheduled())
		})
	}

	sched.Reschedule(settings.SyncSettings{Frequency: settings.Daily, Time: "03:00"})
	assert.False(t, sched.Scheduled())
}

func TestScheduler_Start_disabled(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	off := false
	_, err := e.settings.UpdateSync(ctx, settings.SyncSettingsPatch{Enabled: &off})
	require.NoError(t, err)

	sched := syncjob.NewScheduler(e.svc, e.settings, testutil.NewLogger())
	require.NoError(t, sched.Start(ctx))
	defer sched.Stop()
	assert.False(t, sched.Scheduled())
}
