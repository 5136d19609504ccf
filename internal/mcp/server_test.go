package mcp

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/mcp-go/middleware"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tasklane/adapter/cli"
	"github.com/felixgeelhaar/tasklane/pkg/config"
)

func TestNewServer_RegistersTools(t *testing.T) {
	srv, err := NewServer(&cli.App{}, "")
	require.NoError(t, err)

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)
	assert.Len(t, tools, 10)
}

func TestNewServer_RequiresApp(t *testing.T) {
	_, err := NewServer(nil, "1.0.0")
	assert.Error(t, err)
}

func TestServe_ValidatesArguments(t *testing.T) {
	ctx := context.Background()

	assert.Error(t, Serve(ctx, nil, &cli.App{}, nil))
	assert.Error(t, Serve(ctx, &config.Config{}, nil, nil))
}

func TestFieldsToArgs(t *testing.T) {
	args := fieldsToArgs([]middleware.Field{
		{Key: "method", Value: "tools/list"},
		{Key: "duration_ms", Value: 3},
	})
	assert.Equal(t, []any{"method", "tools/list", "duration_ms", 3}, args)
}
