package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/aipx/internal/config"
	"github.com/vvka-141/aipx/internal/services"
	"github.com/vvka-141/aipx/pkg/aipx"
)

func TestProfileFlags_Resolve(t *testing.T) {
	fromConfig := &config.ProjectConfig{Profile: config.ProfileConfig{
		Mode:      "custom",
		StructMap: "IIIF",
		Files:     []string{`\.tif$`},
		Texts:     []config.TextRuleConfig{{Pattern: `^transcriptions/`}},
	}}

	tests := []struct {
		name     string
		flags    profileFlags
		cfg      *config.ProjectConfig
		wantMode aipx.Mode
		wantErr  error
	}{
		{name: "defaults to folder", wantMode: aipx.ModeFolder},
		{name: "config profile", cfg: fromConfig, wantMode: aipx.ModeCustom},
		{name: "flag overrides config mode and drops its rules", flags: profileFlags{mode: "folder"}, cfg: fromConfig, wantMode: aipx.ModeFolder},
		{name: "root with files", flags: profileFlags{mode: "root", files: []string{`\.jpg$`}}, wantMode: aipx.ModeRoot},
		{name: "custom from flags", flags: profileFlags{mode: "custom", structMap: "pages"}, wantMode: aipx.ModeCustom},
		{name: "custom without struct map", flags: profileFlags{mode: "custom"}, wantErr: aipx.ErrInvalidConfig},
		{name: "folder with files", flags: profileFlags{files: []string{"x"}}, wantErr: aipx.ErrInvalidConfig},
		{name: "invalid regex", flags: profileFlags{mode: "root", files: []string{"("}}, wantErr: aipx.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := tt.flags.resolve(tt.cfg)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, profile.Mode())
		})
	}
}

func TestProfileFlags_ConfigRulesKeptForSameMode(t *testing.T) {
	cfg := &config.ProjectConfig{Profile: config.ProfileConfig{Mode: "root", Files: []string{`\.tif$`}}}

	profile, err := (&profileFlags{mode: "root"}).resolve(cfg)
	require.NoError(t, err)

	root, ok := profile.(aipx.RootProfile)
	require.True(t, ok)
	require.NotNil(t, root.IsFile)
	assert.True(t, root.IsFile("p1.tif", nil))
	assert.False(t, root.IsFile("notes.txt", nil))
}

func TestConnectionFlags_Resolve(t *testing.T) {
	t.Setenv(config.EnvDatabaseURL, "postgres://env/aipx")
	t.Setenv(config.EnvDatabaseURLStd, "")
	t.Setenv(config.EnvAWSRegion, "eu-central-1")

	cfg := &config.ProjectConfig{Database: config.DatabaseConfig{URL: "postgres://file/aipx", AuthMethod: "aws"}}

	t.Run("environment beats config", func(t *testing.T) {
		conn, err := (&connectionFlags{}).resolve(cfg)
		require.NoError(t, err)
		assert.Equal(t, "postgres://env/aipx", conn.URL)
		assert.Equal(t, aipx.AuthMethodAWSIAM, conn.AuthMethod)
		assert.Equal(t, "eu-central-1", conn.AWSRegion)
	})

	t.Run("flags beat environment", func(t *testing.T) {
		flags := connectionFlags{url: "postgres://flag/aipx", authMethod: "standard", awsRegion: "us-east-1"}
		conn, err := flags.resolve(cfg)
		require.NoError(t, err)
		assert.Equal(t, "postgres://flag/aipx", conn.URL)
		assert.Equal(t, aipx.AuthMethodStandard, conn.AuthMethod)
		assert.Equal(t, "us-east-1", conn.AWSRegion)
	})

	t.Run("google requires an instance", func(t *testing.T) {
		_, err := (&connectionFlags{authMethod: "google"}).resolve(nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, aipx.ErrInvalidConfig))
	})
}

func TestResolveTimeout(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{}
		cmd.Flags().Duration("timeout", aipx.DefaultTimeout, "")
		return cmd
	}

	d, err := resolveTimeout(newCmd(), nil, aipx.DefaultTimeout)
	require.NoError(t, err)
	assert.Equal(t, aipx.DefaultTimeout, d)

	d, err = resolveTimeout(newCmd(), &config.ProjectConfig{Timeout: "90s"}, aipx.DefaultTimeout)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	cmd := newCmd()
	require.NoError(t, cmd.Flags().Set("timeout", "2m"))
	d, err = resolveTimeout(cmd, &config.ProjectConfig{Timeout: "90s"}, 2*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)

	_, err = resolveTimeout(newCmd(), &config.ProjectConfig{Timeout: "soon"}, aipx.DefaultTimeout)
	assert.True(t, errors.Is(err, aipx.ErrInvalidConfig))
}

func TestResolveJobs(t *testing.T) {
	assert.Equal(t, 8, resolveJobs(8, &config.ProjectConfig{Jobs: 2}))
	assert.Equal(t, 2, resolveJobs(0, &config.ProjectConfig{Jobs: 2}))
	assert.Equal(t, aipx.DefaultJobs, resolveJobs(0, nil))
}

func TestPackageDone(t *testing.T) {
	ok := packageDone(services.IngestOutcome{
		Path:     "/p/letters-1",
		Result:   aipx.Result{Items: make([]aipx.Item, 3)},
		Duration: 1500 * time.Millisecond,
	})
	assert.Equal(t, "letters-1", ok.Name)
	assert.NoError(t, ok.Err)
	assert.Equal(t, "3 items, 0 text items in 1.5s", ok.Detail)

	failed := packageDone(services.IngestOutcome{
		Path: "/p/broken",
		Err:  &aipx.CollectionError{Path: "/p/broken", Err: aipx.ErrMissingLabel},
	})
	assert.Equal(t, aipx.ErrMissingLabel, failed.Err)
	assert.Empty(t, failed.Detail)
}

func TestIngestRows(t *testing.T) {
	rows := ingestRows([]services.IngestOutcome{
		{Path: "/p/a", Result: aipx.Result{Items: make([]aipx.Item, 2)}},
		{Path: "/p/b", Err: aipx.ErrMissingLabel},
		{Path: "/p/c", Result: aipx.Result{Items: make([]aipx.Item, 5)}},
	}, 2*time.Second)

	values := make(map[string]string)
	for _, r := range rows {
		values[r.Label] = r.Value
	}
	assert.Equal(t, "2", values["stored"])
	assert.Equal(t, "1", values["failed"])
	assert.Equal(t, "7", values["items"])
	assert.Equal(t, "2s", values["elapsed"])
}
