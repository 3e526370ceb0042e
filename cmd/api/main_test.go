package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := execute(t, "analyze", "今天很开心，也很高兴", "--seed", "7")
	require.NoError(t, err)

	var reading entities.EmotionReading
	require.NoError(t, json.Unmarshal([]byte(out), &reading))
	assert.Equal(t, "positive", string(reading.Type))
	assert.InDelta(t, 0.9, reading.Intensity, 1e-9)
}

func TestAnalyzeCommand_RequiresText(t *testing.T) {
	_, err := execute(t, "analyze")
	assert.Error(t, err)
}

func TestRoutesCommand(t *testing.T) {
	out, err := execute(t, "routes")
	require.NoError(t, err)

	assert.Contains(t, out, "/admin")
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "/chat")
}
