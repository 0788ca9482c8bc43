package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bellybutton/adapters/file"
	"bellybutton/adapters/remote"
	"bellybutton/adapters/render"
	"bellybutton/internal/config"
	"bellybutton/internal/errors"
	"bellybutton/internal/testkit"
)

func TestInitSource(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		check  func(t *testing.T, c *Container)
	}{
		{
			name:   "remote",
			mutate: func(cfg *config.Config) {},
			check: func(t *testing.T, c *Container) {
				assert.IsType(t, &remote.Source{}, c.Source)
				assert.Equal(t, config.DefaultDatasetURL, c.Source.Describe())
			},
		},
		{
			name: "file",
			mutate: func(cfg *config.Config) {
				cfg.Dataset.Source = config.SourceFile
				cfg.Dataset.File = "testdata/samples.json"
			},
			check: func(t *testing.T, c *Container) {
				assert.IsType(t, &file.Source{}, c.Source)
				assert.Nil(t, c.DB)
			},
		},
		{
			name:   "synthetic",
			mutate: func(cfg *config.Config) { cfg.Dataset.Source = config.SourceSynthetic },
			check: func(t *testing.T, c *Container) {
				assert.IsType(t, &testkit.Source{}, c.Source)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			c, err := New(cfg)
			require.NoError(t, err)
			require.NoError(t, c.InitSource(context.Background()))
			tt.check(t, c)
			assert.NoError(t, c.Shutdown(context.Background()))
		})
	}
}

func TestInitSourceUnknown(t *testing.T) {
	cfg := config.Default()
	cfg.Dataset.Source = "ftp"

	c, err := New(cfg)
	require.NoError(t, err)
	err = c.InitSource(context.Background())
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestInitSourcePostgresRequiresURL(t *testing.T) {
	cfg := config.Default()
	cfg.Dataset.Source = config.SourcePostgres

	c, err := New(cfg)
	require.NoError(t, err)
	err = c.InitSource(context.Background())
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestNewControllerRequiresSource(t *testing.T) {
	c, err := New(config.Default())
	require.NoError(t, err)

	_, err = c.NewController(render.NewSurface())
	assert.Error(t, err)

	require.NoError(t, c.InitSource(context.Background()))
	controller, err := c.NewController(render.NewSurface())
	require.NoError(t, err)
	assert.NotEmpty(t, controller.SessionID())
}

func TestNilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}
