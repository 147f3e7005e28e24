package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nissyi-gh/guide/internal/importer"
	"github.com/nissyi-gh/guide/internal/model"
)

func TestGenerateNew(t *testing.T) {
	p := GenerateNew()
	assert.Contains(t, p, "```yaml")
	assert.Contains(t, p, "d/M/yyyy HHmm")
}

func TestGenerateFromTasks(t *testing.T) {
	tagged := model.NewToDo("read book", true)
	tagged.SetTag("fun")
	p := GenerateFromTasks([]*model.Task{
		tagged,
		model.NewDeadline("return book", "2/12/2019 1800", false),
		model.NewEvent("party", "1/1/2024 1900", "1/1/2024 2300", false),
	})

	assert.Contains(t, p, "- todo: read book (done), tag fun\n")
	assert.Contains(t, p, "- deadline: return book (open), by 2/12/2019 1800\n")
	assert.Contains(t, p, "- event: party (open), from 1/1/2024 1900 to 1/1/2024 2300\n")
	assert.NotContains(t, p, "(none)")
}

func TestGenerateFromEmptyList(t *testing.T) {
	assert.Contains(t, GenerateFromTasks(nil), "(none)")
}

// The sample in the prompt must be accepted by the importer.
func TestSampleImports(t *testing.T) {
	p := GenerateNew()
	start := strings.Index(p, "```yaml\n")
	end := strings.LastIndex(p, "```")
	require.True(t, start >= 0 && end > start)

	tasks, err := importer.Parse(p[start+len("```yaml\n") : end])
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}
