package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_String(t *testing.T) {
	result, err := Render("hello {{.name}}", map[string]any{"name": "world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", result)
}

func TestRender_Number(t *testing.T) {
	result, err := Render("{{.count}}", map[string]any{"count": 3})
	require.NoError(t, err)
	assert.Equal(t, float64(3), result)
}

func TestRender_Bool(t *testing.T) {
	result, err := Render("true", nil)
	require.NoError(t, err)
	assert.Equal(t, true, result)
}

func TestRender_JSON(t *testing.T) {
	result, err := Render(`{"a": {{.n}}}`, map[string]any{"n": 1})
	require.NoError(t, err)

	parsed, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), parsed["a"])
}

func TestRender_ParseError(t *testing.T) {
	_, err := Render("{{.broken", nil)
	require.Error(t, err)
}

func TestRenderWithInputs_PromotesKeys(t *testing.T) {
	inputs := map[string]any{"topic": "sunsets"}

	result, err := RenderWithInputs("{{.topic}} / {{.inputs.topic}}", inputs)
	require.NoError(t, err)
	assert.Equal(t, "sunsets / sunsets", result)
}

func TestRenderWithInputs_Env(t *testing.T) {
	t.Setenv("REELFLOW_TEST_VALUE", "from-env")

	result, err := RenderWithInputs("{{.env.REELFLOW_TEST_VALUE}}", nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", result)
}
