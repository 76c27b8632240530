package packagemanager

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseMajorVersion(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected uint64
		wantErr  bool
	}{
		{"classic", "1.22.19\n", 1, false},
		{"berry", "4.1.0\n", 4, false},
		{"prerelease", "4.0.0-rc.53\n", 4, false},
		{"leading noise", "warning: corepack is enabled\n3.6.4\n", 3, false},
		{"classic prefix without semver", "1.x-nightly build\n", 1, false},
		{"garbage", "command not found\n", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			major, err := ParseMajorVersion(tt.output)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnparseableOutput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, major)
		})
	}
}

func TestParseClassicWorkspaces(t *testing.T) {
	output := `yarn workspaces v1.22.19
{
  "pkg-b": {
    "location": "packages/b",
    "workspaceDependencies": ["pkg-a"],
    "mismatchedWorkspaceDependencies": []
  },
  "pkg-a": {
    "location": "packages/a",
    "workspaceDependencies": [],
    "mismatchedWorkspaceDependencies": []
  }
}
Done in 0.04s.
`
	workspaces, err := ParseClassicWorkspaces(output)

	require.NoError(t, err)
	assert.Equal(t, []Workspace{
		{Name: "pkg-a", Location: "packages/a"},
		{Name: "pkg-b", Location: "packages/b"},
	}, workspaces)
}

func TestParseClassicWorkspacesInvalid(t *testing.T) {
	_, err := ParseClassicWorkspaces("error An unexpected error occurred")
	assert.ErrorIs(t, err, ErrUnparseableOutput)

	_, err = ParseClassicWorkspaces("{ not json }")
	assert.ErrorIs(t, err, ErrUnparseableOutput)
}

func TestParseBerryWorkspaces(t *testing.T) {
	output := `{"location":".","name":"monorepo"}
{"location":"packages/a","name":"pkg-a"}

{"location":"packages/b","name":"@scope/pkg-b"}
`
	workspaces, err := ParseBerryWorkspaces(output)

	require.NoError(t, err)
	assert.Equal(t, []Workspace{
		{Name: "monorepo", Location: "."},
		{Name: "pkg-a", Location: "packages/a"},
		{Name: "@scope/pkg-b", Location: "packages/b"},
	}, workspaces)
}

func TestParseBerryWorkspacesInvalid(t *testing.T) {
	_, err := ParseBerryWorkspaces("Usage Error: Couldn't find a script named \"workspaces\".\n")
	assert.ErrorIs(t, err, ErrUnparseableOutput)
}

func TestParseBerryWorkspacesEmpty(t *testing.T) {
	workspaces, err := ParseBerryWorkspaces("\n")
	require.NoError(t, err)
	assert.Empty(t, workspaces)
}

func TestClientWorkspacesClassic(t *testing.T) {
	tool := new(MockTool)
	tool.On("Run", mock.Anything, "/repo", []string{"--version"}).Return("1.22.19\n", nil)
	tool.On("Run", mock.Anything, "/repo", []string{"--silent", "workspaces", "info"}).
		Return(`{"pkg-a": {"location": "packages/a"}}`, nil)

	workspaces, err := New(tool, zap.NewNop()).Workspaces(context.Background(), "/repo")

	require.NoError(t, err)
	assert.Equal(t, []Workspace{{Name: "pkg-a", Location: "packages/a"}}, workspaces)
	tool.AssertExpectations(t)
}

func TestClientWorkspacesBerry(t *testing.T) {
	tool := new(MockTool)
	tool.On("Run", mock.Anything, "/repo", []string{"--version"}).Return("4.1.0\n", nil)
	tool.On("Run", mock.Anything, "/repo", []string{"workspaces", "list", "--json"}).
		Return("{\"location\":\".\",\"name\":\"root\"}\n{\"location\":\"packages/a\",\"name\":\"pkg-a\"}\n", nil)

	workspaces, err := New(tool, nil).Workspaces(context.Background(), "/repo")

	require.NoError(t, err)
	assert.Equal(t, []Workspace{
		{Name: "root", Location: "."},
		{Name: "pkg-a", Location: "packages/a"},
	}, workspaces)
	tool.AssertExpectations(t)
	tool.AssertNotCalled(t, "Run", mock.Anything, "/repo", []string{"--silent", "workspaces", "info"})
}

func TestClientWorkspacesVersionFailure(t *testing.T) {
	toolErr := &ToolError{Program: "yarn", Args: []string{"--version"}, ExitCode: 127}
	tool := new(MockTool)
	tool.On("Run", mock.Anything, "/repo", []string{"--version"}).Return("yarn: command not found\n", toolErr)

	_, err := New(tool, nil).Workspaces(context.Background(), "/repo")

	var target *ToolError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, 127, target.ExitCode)
}

func TestToolErrorMessage(t *testing.T) {
	err := &ToolError{Program: "yarn", Args: []string{"workspaces", "info"}, ExitCode: 1}
	assert.Equal(t, "yarn workspaces info: exit status 1", err.Error())

	cause := errors.New("boom")
	err = &ToolError{Program: "yarn", Args: []string{"help"}, Err: cause}
	assert.Equal(t, "yarn help: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestShellToolRunsProgram(t *testing.T) {
	tool := NewShellTool("echo")

	output, err := tool.Run(context.Background(), t.TempDir(), "1.22.19")

	require.NoError(t, err)
	assert.Equal(t, "1.22.19\n", output)
}

func TestShellToolNonZeroExit(t *testing.T) {
	tool := NewShellTool("exit")

	_, err := tool.Run(context.Background(), "", "2")

	var target *ToolError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, 2, target.ExitCode)
	assert.Equal(t, []string{"2"}, target.Args)
}
