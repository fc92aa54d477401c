package migration

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	version int
	dirty   bool
	forced  []int
	ups     int
	steps   []int
	upErr   error
	closed  bool
}

func (f *fakeMigrator) Up(ctx context.Context) error {
	f.ups++
	if f.upErr != nil {
		return f.upErr
	}
	f.version = 2
	f.dirty = false
	return nil
}

func (f *fakeMigrator) Down(ctx context.Context) error { return nil }

func (f *fakeMigrator) Steps(ctx context.Context, n int) error {
	f.steps = append(f.steps, n)
	f.version += n
	return nil
}

func (f *fakeMigrator) Force(ctx context.Context, version int) error {
	f.forced = append(f.forced, version)
	f.version = version
	f.dirty = false
	return nil
}

func (f *fakeMigrator) Version(ctx context.Context) (int, bool, error) {
	return f.version, f.dirty, nil
}

func (f *fakeMigrator) Close() error {
	f.closed = true
	return nil
}

func newTestService(t *testing.T, m *fakeMigrator) *MigrationService {
	t.Helper()
	s := NewMigrationService(log.New(io.Discard, "", 0))
	require.NoError(t, s.initializeWith(m, MigrationConfig{}))
	return s
}

func TestRunMigrations(t *testing.T) {
	m := &fakeMigrator{}
	s := newTestService(t, m)

	require.NoError(t, s.RunMigrations(context.Background()))
	assert.Equal(t, 1, m.ups)
	assert.Empty(t, m.forced)

	info, err := s.GetMigrationInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &MigrationInfo{Version: 2}, info)
}

func TestRunMigrationsRecoversDirtyState(t *testing.T) {
	m := &fakeMigrator{version: 2, dirty: true}
	s := newTestService(t, m)

	require.NoError(t, s.RunMigrations(context.Background()))
	assert.Equal(t, []int{1}, m.forced)
	assert.Equal(t, 1, m.ups)
}

func TestRunMigrationsUpFailure(t *testing.T) {
	m := &fakeMigrator{upErr: errors.New("syntax error")}
	s := newTestService(t, m)

	assert.Error(t, s.RunMigrations(context.Background()))
}

func TestRollback(t *testing.T) {
	m := &fakeMigrator{version: 2}
	s := newTestService(t, m)

	assert.Error(t, s.Rollback(context.Background(), 0))
	require.NoError(t, s.Rollback(context.Background(), 1))
	assert.Equal(t, []int{-1}, m.steps)

	require.NoError(t, s.Close())
	assert.True(t, m.closed)
}

func TestUninitialized(t *testing.T) {
	s := NewMigrationService(nil)
	assert.Error(t, s.RunMigrations(context.Background()))
	assert.Error(t, s.Rollback(context.Background(), 1))
	_, err := s.GetMigrationInfo(context.Background())
	assert.Error(t, err)
	assert.NoError(t, s.Close())
}
