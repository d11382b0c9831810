package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootHasExploreSubcommand(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "explore")
}

func TestExploreCommandFlags(t *testing.T) {
	cmd := newExploreCmd()

	depth := cmd.Flags().Lookup("depth")
	require.NotNil(t, depth)
	assert.Equal(t, "d", depth.Shorthand)

	output := cmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)

	assert.NotNil(t, cmd.Flags().Lookup("headless"))
	assert.NotNil(t, cmd.Flags().Lookup("timeout"))
}

func TestExploreRequiresExactlyOneURL(t *testing.T) {
	cmd := newExploreCmd()
	assert.Error(t, cmd.Args(cmd, []string{}))
	assert.Error(t, cmd.Args(cmd, []string{"a", "b"}))
	assert.NoError(t, cmd.Args(cmd, []string{"https://site.test"}))
}

func TestInitializeConfigAppliesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	require.NoError(t, initializeConfig())
	assert.Equal(t, 3, viper.GetInt("explore.max_depth"))
	assert.Equal(t, "exploration_reports", viper.GetString("explore.output_dir"))
	assert.True(t, viper.GetBool("browser.headless"))
}
