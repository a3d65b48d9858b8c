package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paper-portal/paperctl/internal/config"
	"github.com/paper-portal/paperctl/internal/model"
)

func TestFormatCourses(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	formatCourses(&buf, []model.Course{
		{ID: 1, Code: "CS1234", Name: "Data Structures", CreatedAt: created},
		{ID: 2, Code: "EC1201", Name: "Course EC1201", CreatedAt: created},
	})

	out := buf.String()
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "CS1234")
	assert.Contains(t, out, "Data Structures")
	assert.Contains(t, out, "Course EC1201")
	assert.Contains(t, out, "2024-05-01 09:30")
}

func TestApplyImportFlags(t *testing.T) {
	cfg = &config.Config{Import: config.ImportConfig{
		Root:         "./pastpaper",
		OutputDir:    "bulk_import_results",
		OutputFormat: "json",
	}}

	flags := importCmd.Flags()
	require.NoError(t, flags.Set("root", "/data/archive"))
	require.NoError(t, flags.Set("auto-approve", "true"))
	require.NoError(t, flags.Set("format", "xlsx"))

	applyImportFlags(importCmd)

	assert.Equal(t, "/data/archive", cfg.Import.Root)
	assert.True(t, cfg.Import.AutoApprove)
	assert.Equal(t, "xlsx", cfg.Import.OutputFormat)
	assert.Equal(t, "bulk_import_results", cfg.Import.OutputDir)
	assert.Zero(t, cfg.Import.MaxFiles)
}
