package embed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromOptionsMock(t *testing.T) {
	e, err := NewFromOptions(Options{Provider: "mock", Dimension: 16})
	require.NoError(t, err)
	assert.Equal(t, 16, e.Dimension())
	assert.Equal(t, "mock", e.ModelName())
}

func TestNewFromOptionsDefaultsToMock(t *testing.T) {
	e, err := NewFromOptions(Options{})
	require.NoError(t, err)
	assert.IsType(t, &Mock{}, e)
	assert.Equal(t, 8, e.Dimension())
}

func TestNewFromOptionsUnknownProvider(t *testing.T) {
	_, err := NewFromOptions(Options{Provider: "not-a-provider"})
	assert.Error(t, err)
}

func TestNewFromOptionsRemoteProvidersResolveWithoutCredentials(t *testing.T) {
	for _, provider := range []string{"openai", "cohere", "voyage", "hf"} {
		e, err := NewFromOptions(Options{Provider: provider, Dimension: 4})
		require.NoErrorf(t, err, "provider %q", provider)
		assert.Equalf(t, 4, e.Dimension(), "provider %q", provider)
		assert.NotEmptyf(t, e.ModelName(), "provider %q", provider)
	}
}

func TestMockEmbedIsDeterministic(t *testing.T) {
	m := NewMock(8)
	ctx := context.Background()

	v1, err := m.Embed(ctx, "same text")
	require.NoError(t, err)
	v2, err := m.Embed(ctx, "same text")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)

	v3, err := m.Embed(ctx, "different text")
	require.NoError(t, err)
	assert.NotEqual(t, v1, v3)
}

func TestMockEmbedBatchMatchesLooping(t *testing.T) {
	m := NewMock(4)
	ctx := context.Background()

	texts := []string{"a", "b", "c"}
	batch, err := m.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, batch, len(texts))

	for i, text := range texts {
		single, err := m.Embed(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}
}
