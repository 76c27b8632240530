package packagemanager

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
)

// Workspace is one project of a multi-project repository.
type Workspace struct {
	Name string `json:"name"`
	// Location is relative to the repository root; "." is the root itself.
	Location string `json:"location"`
}

// Client wraps a Tool with yarn-specific knowledge.
type Client struct {
	tool   Tool
	logger *zap.Logger
}

func New(tool Tool, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		tool:   tool,
		logger: logger,
	}
}

// MajorVersion runs `yarn --version` in dir and returns its major version.
func (c *Client) MajorVersion(ctx context.Context, dir string) (uint64, error) {
	output, err := c.tool.Run(ctx, dir, "--version")
	if err != nil {
		return 0, err
	}
	return ParseMajorVersion(output)
}

// Workspaces lists the workspaces of the repository rooted at dir using the
// command and output format of the installed yarn major version.
func (c *Client) Workspaces(ctx context.Context, dir string) ([]Workspace, error) {
	major, err := c.MajorVersion(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("detecting yarn version: %w", err)
	}
	c.logger.Debug("detected yarn version", zap.Uint64("major", major), zap.String("dir", dir))

	if major == 1 {
		output, err := c.tool.Run(ctx, dir, "--silent", "workspaces", "info")
		if err != nil {
			return nil, err
		}
		return ParseClassicWorkspaces(output)
	}

	output, err := c.tool.Run(ctx, dir, "workspaces", "list", "--json")
	if err != nil {
		return nil, err
	}
	return ParseBerryWorkspaces(output)
}

// ParseMajorVersion extracts the major version from `yarn --version` output.
// Output that is not a semantic version is still accepted when it carries
// the classic "1." prefix.
func ParseMajorVersion(output string) (uint64, error) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if v, err := semver.NewVersion(line); err == nil {
			return v.Major(), nil
		}
	}

	if strings.HasPrefix(strings.TrimSpace(output), "1.") {
		return 1, nil
	}
	return 0, fmt.Errorf("%w: version %q", ErrUnparseableOutput, strings.TrimSpace(output))
}

// ParseClassicWorkspaces decodes the object printed by yarn 1's
// `workspaces info`: workspace name mapped to its details. Text around the
// outermost braces (banners, "Done in" lines) is ignored.
func ParseClassicWorkspaces(output string) ([]Workspace, error) {
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no workspace object in output", ErrUnparseableOutput)
	}

	var info map[string]struct {
		Location string `json:"location"`
	}
	if err := json.Unmarshal([]byte(output[start:end+1]), &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseableOutput, err)
	}

	workspaces := make([]Workspace, 0, len(info))
	for name, details := range info {
		workspaces = append(workspaces, Workspace{Name: name, Location: details.Location})
	}
	sort.Slice(workspaces, func(i, j int) bool {
		return workspaces[i].Name < workspaces[j].Name
	})
	return workspaces, nil
}

// ParseBerryWorkspaces decodes the newline-delimited JSON records printed by
// `yarn workspaces list --json` by joining them into one array.
func ParseBerryWorkspaces(output string) ([]Workspace, error) {
	var records []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			records = append(records, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseableOutput, err)
	}

	var workspaces []Workspace
	if err := json.Unmarshal([]byte("["+strings.Join(records, ",")+"]"), &workspaces); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseableOutput, err)
	}
	return workspaces, nil
}
