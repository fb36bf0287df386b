package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helljxnn/astrostar-backend-sub000/internal/config"
)

type migratorStub struct {
	calls   []string
	version int64
	err     error
}

func (m *migratorStub) Up(context.Context) error {
	m.calls = append(m.calls, "up")
	m.version = 2
	return m.err
}

func (m *migratorStub) Down(context.Context) error {
	m.calls = append(m.calls, "down")
	m.version = 1
	return m.err
}

func (m *migratorStub) Status(context.Context) error {
	m.calls = append(m.calls, "status")
	return m.err
}

func (m *migratorStub) Version(context.Context) (int64, error) {
	return m.version, nil
}

type closerStub struct{ closed bool }

func (c *closerStub) Close() error {
	c.closed = true
	return nil
}

func run(t *testing.T, stub *migratorStub, prepareErr error, args ...string) (string, *closerStub, error) {
	t.Helper()
	closer := &closerStub{}
	deps := migrateDeps{
		loadEnv: func() error { return errors.New("no .env") },
		loadCfg: func() *config.Config { return &config.Config{} },
		prepare: func(*config.Config) (migrator, io.Closer, error) {
			if prepareErr != nil {
				return nil, nil, prepareErr
			}
			return stub, closer, nil
		},
	}

	var out bytes.Buffer
	root := newRootCommand(deps)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), closer, err
}

func TestMigrate_Up(t *testing.T) {
	stub := &migratorStub{}
	out, closer, err := run(t, stub, nil, "up")

	require.NoError(t, err)
	assert.Equal(t, []string{"up"}, stub.calls)
	assert.Contains(t, out, "schema version 2")
	assert.True(t, closer.closed)
}

func TestMigrate_Down(t *testing.T) {
	stub := &migratorStub{version: 2}
	out, _, err := run(t, stub, nil, "down")

	require.NoError(t, err)
	assert.Equal(t, []string{"down"}, stub.calls)
	assert.Contains(t, out, "schema version 1")
}

func TestMigrate_StatusAndVersion(t *testing.T) {
	stub := &migratorStub{version: 2}
	_, _, err := run(t, stub, nil, "status")
	require.NoError(t, err)
	assert.Equal(t, []string{"status"}, stub.calls)

	out, _, err := run(t, stub, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 2")
}

func TestMigrate_Errors(t *testing.T) {
	_, _, err := run(t, &migratorStub{}, errors.New("failed to ping database"), "up")
	assert.ErrorContains(t, err, "failed to ping database")

	_, _, err = run(t, &migratorStub{err: errors.New("syntax error")}, nil, "up")
	assert.ErrorContains(t, err, "migrate up: syntax error")

	_, _, err = run(t, &migratorStub{}, nil, "up", "extra")
	assert.Error(t, err)
}
