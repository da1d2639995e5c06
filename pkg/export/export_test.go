package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	data := NewDataset("full_name", "national_id")
	data.AddRow("Juan Pérez", "12345678")

	out, err := exporter.Render(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "full_name,national_id", lines[0])
	assert.Contains(t, lines[1], "12345678")
}

func TestCSVExporterRequiresColumns(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(NewDataset())
	assert.Error(t, err)
	_, err = exporter.Render(nil)
	assert.Error(t, err)
}

func TestDatasetAddRowPadsShortRows(t *testing.T) {
	data := NewDataset("type", "status", "documents")
	data.AddRow("Licencia")

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Licencia,,", lines[1])
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	data := NewDataset("type", "status")
	data.AddRow("Licencia", "Pendiente")

	out, err := exporter.Render(data, "Historial", []string{"Juan Pérez - 12345678"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}
