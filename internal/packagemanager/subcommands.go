package packagemanager

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// ansiEscape matches the color and erase-line sequences yarn emits when
// FORCE_COLOR or YARN_ENABLE_COLORS is set.
var ansiEscape = regexp.MustCompile("\x1b\\[[0-9;]*[mK]")

// SubcommandLister supplies the names of the package manager's built-in
// subcommands.
type SubcommandLister interface {
	Subcommands(ctx context.Context, dir string) ([]string, error)
}

// StaticLister returns a fixed list. It never fails and does not depend on
// the installed yarn version.
type StaticLister struct {
	Names []string
}

func NewStaticLister(names []string) *StaticLister {
	return &StaticLister{Names: names}
}

func (l *StaticLister) Subcommands(ctx context.Context, dir string) ([]string, error) {
	return lo.Uniq(l.Names), nil
}

// HelpLister scrapes `<program> help`. It follows whatever the installed
// version offers, at the cost of depending on the exact help layout.
type HelpLister struct {
	Tool    Tool
	Program string
}

func NewHelpLister(tool Tool, program string) *HelpLister {
	return &HelpLister{Tool: tool, Program: program}
}

func (l *HelpLister) Subcommands(ctx context.Context, dir string) ([]string, error) {
	output, err := l.Tool.Run(ctx, dir, "help")
	if err != nil {
		return nil, err
	}

	names := ParseHelpSubcommands(output, l.Program)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no subcommands in %s help", ErrUnparseableOutput, l.Program)
	}
	return names, nil
}

// ParseHelpSubcommands reads help text and returns subcommand names found
// after the first commands heading. A line contributes its second field when
// its first field is a "-" bullet or the program name itself.
func ParseHelpSubcommands(output string, program string) []string {
	lines := strings.Split(ansiEscape.ReplaceAllString(output, ""), "\n")

	start := -1
	for i, line := range lines {
		if isCommandsHeading(line) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	var names []string
	for _, line := range lines[start:] {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if fields[0] != "-" && fields[0] != program {
			continue
		}
		name := fields[1]
		if strings.ContainsAny(name[:1], "-[<$") {
			continue
		}
		names = append(names, name)
	}

	return lo.Uniq(names)
}

// isCommandsHeading matches "Commands:" as well as decorated headings such
// as "━━━ General commands ━━━".
func isCommandsHeading(line string) bool {
	heading := strings.ToLower(strings.Trim(line, " \t\r:━─="))
	return strings.HasSuffix(heading, "commands")
}
