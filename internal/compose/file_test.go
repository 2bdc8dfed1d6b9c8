package compose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCompose = `
services:
  app:
    build:
      context: .
    ports:
      - "8000:8000"
    volumes:
      - ./app:/app
  db:
    image: postgres:16-alpine
`

func writeCompose(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_ParsesServices(t *testing.T) {
	f, err := LoadFile(writeCompose(t, sampleCompose))
	require.NoError(t, err)
	require.NotNil(t, f)

	assert.Equal(t, []string{"app", "db"}, f.ServiceNames())
	assert.True(t, f.HasService("db"))
	assert.False(t, f.HasService("worker"))
	assert.Equal(t, []string{"8000:8000"}, f.PublishedPorts("app"))
	assert.Equal(t, "postgres:16-alpine", f.Services["db"].Image)
}

func TestLoadFile_MissingFileIsNil(t *testing.T) {
	f, err := LoadFile(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestLoadFile_RejectsBadYAML(t *testing.T) {
	_, err := LoadFile(writeCompose(t, "services: [not: a: mapping"))
	require.Error(t, err)
}

func TestValidateService(t *testing.T) {
	f, err := LoadFile(writeCompose(t, sampleCompose))
	require.NoError(t, err)

	assert.NoError(t, f.ValidateService("app"))

	err = f.ValidateService("worker")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"worker"`)
	assert.Contains(t, err.Error(), "app")
}

func TestValidateService_NilFileAcceptsAnything(t *testing.T) {
	var f *File
	assert.NoError(t, f.ValidateService("anything"))
}
