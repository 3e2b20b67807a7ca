package main

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driving"
)

const corpusCSV = `texts.id,texts.event_id,texts.lang,texts.source_target,texts.spoken_written,texts.sentence_split_text
A,E1,en,source,written,<text><s>Hello.</s><s>How are you today?</s></text>
B,E1,es,target,written,<text><s>Hola.</s><s>¿Cómo estás hoy?</s></text>
`

const wantXML = "<?xml version='1.0' encoding='utf-8'?>\n" +
	"<linkGrp toDoc='placeholder_toDoc.xml' fromDoc='placeholder_fromDoc.xml'>\n" +
	"<link type='1-1' xtargets='A:0;B:0' status='auto'/>\n" +
	"<link type='1-1' xtargets='A:1;B:1' status='auto'/>\n" +
	"</linkGrp>"

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestEndToEnd_AlignAndRegenerate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "corpus.csv")
	require.NoError(t, os.WriteFile(input, []byte(corpusCSV), 0o644))
	out := filepath.Join(dir, "out")

	settings := domain.DefaultAppSettings()
	settings.Run.ReportFormat = domain.ReportFormatCSV

	pipeline, cleanup, err := newPipeline(ctx, settings)
	require.NoError(t, err)
	defer cleanup()

	summary, err := pipeline.Run(ctx, driving.RunRequest{InputPath: input, OutputDir: out})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Successes())
	assert.Empty(t, summary.Failures)

	data, err := os.ReadFile(filepath.Join(out, "EPTIC.en_written_source.es_written_target.xml"))
	require.NoError(t, err)
	assert.Equal(t, wantXML, string(data))

	records := readCSV(t, filepath.Join(out, "alignments.csv"))
	require.Len(t, records, 2)
	assert.Equal(t, []string{"t1_id", "t2_id", "alignment_file"}, records[0])
	assert.Equal(t, []string{"A", "B", wantXML}, records[1])

	// Regenerate the report from the ledger alone.
	require.NoError(t, os.Remove(filepath.Join(out, "alignments.csv")))
	reports, closeLedger, err := openReports(settings, out)
	require.NoError(t, err)
	defer closeLedger()

	res, err := reports.Regenerate(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, res.Run.ID)
	assert.Equal(t, 1, res.Rows)
	assert.Equal(t, records, readCSV(t, res.ReportPath))
}

func TestEndToEnd_Idempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "corpus.csv")
	require.NoError(t, os.WriteFile(input, []byte(corpusCSV), 0o644))
	out := filepath.Join(dir, "out")
	xmlPath := filepath.Join(out, "EPTIC.en_written_source.es_written_target.xml")

	settings := domain.DefaultAppSettings()
	pipeline, cleanup, err := newPipeline(ctx, settings)
	require.NoError(t, err)
	defer cleanup()

	_, err = pipeline.Run(ctx, driving.RunRequest{InputPath: input, OutputDir: out})
	require.NoError(t, err)
	first, err := os.ReadFile(xmlPath)
	require.NoError(t, err)

	_, err = pipeline.Run(ctx, driving.RunRequest{InputPath: input, OutputDir: out})
	require.NoError(t, err)
	second, err := os.ReadFile(xmlPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.FileExists(t, filepath.Join(out, "alignments.xlsx"))

	reports, closeLedger, err := openReports(settings, out)
	require.NoError(t, err)
	defer closeLedger()
	runs, err := reports.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestLoadSettings_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eptalign.toml")
	content := `
[run]
namespace = "TEST"
workers = 3

[filter]
processors = ["retain"]
retain = ["643:0", "641"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	settings, err := loadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, "TEST", settings.Run.Namespace)
	assert.Equal(t, 3, settings.Run.Workers)
	assert.Equal(t, []string{"retain"}, settings.Filter.Processors)
	assert.Equal(t, []string{"643:0", "641"}, settings.Filter.Retain)
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := loadSettings(filepath.Join(t.TempDir(), "nope.toml"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSettings_InvalidUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".eptalign")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[run]\nworkrs = 2\n"), 0o600))

	_, err := loadSettings("")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadSettings_NoUserConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	settings, err := loadSettings("")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), settings)
}

func TestNewPipeline_RejectsUnknownFilter(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Filter.Processors = []string{"sparkle"}

	_, _, err := newPipeline(context.Background(), settings)

	assert.Error(t, err)
}

func TestOpenReports_NoLedger(t *testing.T) {
	_, _, err := openReports(domain.DefaultAppSettings(), t.TempDir())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
