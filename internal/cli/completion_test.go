package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCompletion runs the completion command for shell against the real root.
func runCompletion(t *testing.T, shell string) string {
	t.Helper()
	var buf bytes.Buffer
	completionCmd.SetOut(&buf)
	t.Cleanup(func() { completionCmd.SetOut(nil) })

	require.NoError(t, completionCmd.RunE(completionCmd, []string{shell}))
	return buf.String()
}

func TestCompletionBashGeneration(t *testing.T) {
	output := runCompletion(t, "bash")

	assert.Contains(t, output, "# bash completion for sysmon")
	assert.Contains(t, output, "__sysmon_debug")
	assert.Contains(t, output, "complete -o default -F __start_sysmon sysmon")
}

func TestCompletionZshGeneration(t *testing.T) {
	output := runCompletion(t, "zsh")

	assert.Contains(t, output, "#compdef sysmon")
	assert.Contains(t, output, "_sysmon()")
}

func TestCompletionFishGeneration(t *testing.T) {
	output := runCompletion(t, "fish")

	assert.Contains(t, output, "fish completion for sysmon")
	assert.Contains(t, output, "complete -c sysmon")
}

func TestCompletionPowershellGeneration(t *testing.T) {
	output := runCompletion(t, "powershell")

	assert.Contains(t, strings.ToLower(output), "powershell completion")
	assert.Contains(t, output, "Register-ArgumentCompleter")
}

func TestCompletionIncludesBuiltinCommands(t *testing.T) {
	output := runCompletion(t, "bash")

	// Cobra completes dynamically by calling back into the binary.
	assert.Contains(t, output, "__completeNoDesc", "should use dynamic completion")
	assert.Contains(t, output, "_sysmon_root_command", "should have root command function")
	assert.Contains(t, output, "_sysmon_snapshot()")
	assert.Contains(t, output, "_sysmon_completion()")
}

func TestCompletionBashSyntaxValid(t *testing.T) {
	cmd := &cobra.Command{Use: "sysmon", Short: "Live system metrics"}
	cmd.AddCommand(&cobra.Command{Use: "snapshot", Short: "Print one reading"})

	var buf bytes.Buffer
	require.NoError(t, cmd.GenBashCompletion(&buf))
	output := buf.String()

	openBraces := strings.Count(output, "{")
	closeBraces := strings.Count(output, "}")
	assert.Equal(t, openBraces, closeBraces, "braces should be balanced")
	assert.Contains(t, output, "__start_sysmon()")
}

func TestCompletionCommandValidArgs(t *testing.T) {
	assert.Equal(t, []string{"bash", "zsh", "fish", "powershell"}, completionCmd.ValidArgs)
}

func TestConfigSetCompletesKeys(t *testing.T) {
	keys, directive := configSetCmd.ValidArgsFunction(configSetCmd, nil, "")
	assert.Contains(t, keys, "interval")
	assert.Contains(t, keys, "thresholds.disk.critical")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	values, _ := configSetCmd.ValidArgsFunction(configSetCmd, []string{"interval"}, "")
	assert.Empty(t, values)
}
