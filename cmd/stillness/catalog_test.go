package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCatalogAddEditRemove(t *testing.T) {
	data := t.TempDir()

	out, err := runCLI(t, "--data", data, "catalog", "add", "--id", "walk-12", "--title", "Walking Practice", "--minutes", "12", "--category", "Basics", "--tags", "outdoor,Movement")
	require.NoError(t, err)
	assert.Equal(t, "added walk-12\n", out)

	out, err = runCLI(t, "--data", data, "catalog", "edit", "--id", "walk-12", "--minutes", "15")
	require.NoError(t, err)
	assert.Contains(t, out, "Walking Practice (walk-12)\n15 min, Basics\ntags: outdoor, movement\n")

	out, err = runCLI(t, "--data", data, "catalog", "list", "--tag", "movement")
	require.NoError(t, err)
	assert.Contains(t, out, "walk-12")
	assert.NotContains(t, out, "focus-15")

	out, err = runCLI(t, "--data", data, "catalog", "remove", "--id", "walk-12")
	require.NoError(t, err)
	assert.Equal(t, "removed walk-12 (Walking Practice)\n", out)

	_, err = runCLI(t, "--data", data, "catalog", "show", "--id", "walk-12")
	require.Error(t, err)

	out, err = runCLI(t, "--data", data, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "focus-15")
}

func TestCatalogAddRequiresTitleAndMinutes(t *testing.T) {
	_, err := runCLI(t, "--data", t.TempDir(), "catalog", "add", "--title", "No length")
	assert.ErrorContains(t, err, "minutes")
}
