package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanlens/internal/config"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	return &config.Paths{
		ExecutableDir: base,
		DataDir:       filepath.Join(base, "data"),
		ReportsDir:    filepath.Join(base, "reports"),
		LogsDir:       filepath.Join(base, "logs"),
	}
}

func TestWriteSimpleCSV(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	err := writer.WriteSimpleCSV("table.csv", []string{"grade", "count"}, [][]string{
		{"A", "10"},
		{"B", "7"},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(paths.GetReportPath("table.csv"))
	require.NoError(t, err)

	// BOM then header then rows
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, content[:3])
	assert.Equal(t, "grade,count\nA,10\nB,7\n", string(content[3:]))
}

func TestWriteCSV_Append(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	require.NoError(t, writer.WriteSimpleCSV("log.csv", []string{"a", "b"}, [][]string{{"1", "2"}}))
	require.NoError(t, writer.AppendToCSV("log.csv", [][]string{{"3", "4"}}))

	content, err := os.ReadFile(paths.GetReportPath("log.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n3,4\n", string(content[3:]))
}

func TestResolvePath(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "absolute path unchanged",
			input:    filepath.Join(paths.ExecutableDir, "out.csv"),
			expected: filepath.Join(paths.ExecutableDir, "out.csv"),
		},
		{
			name:     "data prefix goes to data dir",
			input:    "data/loans_cleaned.csv",
			expected: paths.GetDataPath("loans_cleaned.csv"),
		},
		{
			name:     "bare name goes to reports dir",
			input:    "grade_metrics.csv",
			expected: paths.GetReportPath("grade_metrics.csv"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, writer.resolvePath(tt.input))
		})
	}
}

func TestStreamWriter(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"x", "y"})
	require.NoError(t, err)

	require.NoError(t, stream.WriteRecord([]string{"1", "2"}))
	require.NoError(t, stream.WriteRecord([]string{"3", "4"}))
	require.NoError(t, stream.Close())

	content, err := os.ReadFile(paths.GetReportPath("stream.csv"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, content[:3])
	assert.Equal(t, "x,y\n1,2\n3,4\n", string(content[3:]))
}
