package main

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmigrations "github.com/wolfman30/coachflow/migrations"
)

type fakeMigrator struct {
	calls   []string
	steps   int
	forced  int
	upErr   error
	version uint
	verErr  error
}

func (f *fakeMigrator) Up() error   { f.calls = append(f.calls, "up"); return f.upErr }
func (f *fakeMigrator) Down() error { f.calls = append(f.calls, "down"); return nil }

func (f *fakeMigrator) Steps(n int) error {
	f.calls = append(f.calls, "steps")
	f.steps = n
	return nil
}

func (f *fakeMigrator) Force(version int) error {
	f.calls = append(f.calls, "force")
	f.forced = version
	return nil
}
func (f *fakeMigrator) Version() (uint, bool, error) {
	f.calls = append(f.calls, "version")
	return f.version, false, f.verErr
}

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		calls []string
	}{
		{"default is up", nil, []string{"up"}},
		{"up", []string{"up"}, []string{"up"}},
		{"down all", []string{"down"}, []string{"down"}},
		{"down steps", []string{"down", "2"}, []string{"steps"}},
		{"force", []string{"force", "1"}, []string{"force"}},
		{"version", []string{"version"}, []string{"version"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMigrator{}
			require.NoError(t, runCommand(m, tt.args))
			assert.Equal(t, tt.calls, m.calls)
		})
	}
}

func TestRunCommandArguments(t *testing.T) {
	m := &fakeMigrator{}
	require.NoError(t, runCommand(m, []string{"down", "3"}))
	assert.Equal(t, -3, m.steps)

	require.NoError(t, runCommand(m, []string{"force", "7"}))
	assert.Equal(t, 7, m.forced)

	assert.Error(t, runCommand(m, []string{"down", "zero"}))
	assert.Error(t, runCommand(m, []string{"force"}))
	assert.Error(t, runCommand(m, []string{"sideways"}))
}

func TestRunCommandErrors(t *testing.T) {
	assert.NoError(t, runCommand(&fakeMigrator{upErr: migrate.ErrNoChange}, nil))
	assert.Error(t, runCommand(&fakeMigrator{upErr: errors.New("dirty database")}, nil))
	assert.NoError(t, runCommand(&fakeMigrator{verErr: migrate.ErrNilVersion}, []string{"version"}))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(appmigrations.FS, "*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(appmigrations.FS, "*.down.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}
