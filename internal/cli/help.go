package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Help styles, built on the shared palette.
var (
	helpTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).MarginBottom(1)
	helpDescStyle  = lipgloss.NewStyle().Foreground(mutedColor).Italic(true).MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).MarginTop(1)
	helpFlagStyle    = lipgloss.NewStyle().Bold(true).Foreground(successColor)
	helpArgStyle     = lipgloss.NewStyle().Bold(true).Foreground(infoColor)
	helpDefaultStyle = lipgloss.NewStyle().Italic(true).Foreground(mutedColor)
	helpExampleStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

// flagGroups orders the help output by concern instead of kong's flat
// walk. Flags not named here land in the last group.
var flagGroups = []struct {
	title string
	names []string
}{
	{"Detection", []string{
		"frame-size", "hop-size", "energy-threshold", "bandwidth-threshold",
		"min-gap", "min-track-gap", "preset", "write-preset",
	}},
	{"Output", []string{"batch", "output", "sample-rate", "channels"}},
	{"Upload", []string{"s3-bucket", "s3-prefix", "bitrate"}},
	{"General", []string{"help", "version", "verbose", "log-file"}},
}

var helpExamples = []string{
	"bandsaw rehearsal.flac",
	"bandsaw --batch --min-gap 2.5 -o tracks.zip rehearsal.flac",
	"bandsaw --batch --s3-bucket my-sessions --s3-prefix full-band rehearsal.flac",
}

// StyledHelpPrinter renders grouped, colored help for the bandsaw CLI.
func StyledHelpPrinter(options kong.HelpOptions) func(options kong.HelpOptions, ctx *kong.Context) error {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render("Bandsaw 🪚"))
		sb.WriteString("\n")
		sb.WriteString(helpDescStyle.Render("Session recording track splitter"))
		sb.WriteString("\n")

		sb.WriteString(helpSectionStyle.Render("Usage:"))
		sb.WriteString(fmt.Sprintf("\n  %s [flags] <input>\n", ctx.Model.Name))

		if positional := ctx.Model.Node.Positional; len(positional) > 0 {
			sb.WriteString("\n")
			sb.WriteString(helpSectionStyle.Render("Arguments:"))
			sb.WriteString("\n")
			for _, arg := range positional {
				sb.WriteString("  ")
				sb.WriteString(helpArgStyle.Render(arg.Summary()))
				if arg.Help != "" {
					sb.WriteString("  ")
					sb.WriteString(arg.Help)
				}
				sb.WriteString("\n")
			}
		}

		grouped := groupFlags(ctx.Model.Node.Flags)
		for gi, group := range flagGroups {
			if len(grouped[gi]) == 0 {
				continue
			}
			sb.WriteString("\n")
			sb.WriteString(helpSectionStyle.Render(group.title + " flags:"))
			sb.WriteString("\n")
			for _, f := range grouped[gi] {
				sb.WriteString("  ")
				sb.WriteString(helpFlagStyle.Render(flagUsage(f)))
				if f.Help != "" {
					sb.WriteString("  ")
					sb.WriteString(f.Help)
				}
				if f.HasDefault {
					sb.WriteString(" ")
					sb.WriteString(helpDefaultStyle.Render("(default: " + f.Default + ")"))
				}
				sb.WriteString("\n")
			}
		}

		sb.WriteString("\n")
		sb.WriteString(helpSectionStyle.Render("Examples:"))
		sb.WriteString("\n")
		for _, ex := range helpExamples {
			sb.WriteString("  ")
			sb.WriteString(helpExampleStyle.Render(ex))
			sb.WriteString("\n")
		}

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	}
}

// groupFlags buckets the model's flags by flagGroups membership,
// keeping kong's order inside each bucket.
func groupFlags(flags []*kong.Flag) [][]*kong.Flag {
	index := make(map[string]int)
	for gi, g := range flagGroups {
		for _, name := range g.names {
			index[name] = gi
		}
	}

	general := len(flagGroups) - 1
	grouped := make([][]*kong.Flag, len(flagGroups))
	for _, f := range flags {
		gi, ok := index[f.Name]
		if !ok {
			gi = general
		}
		grouped[gi] = append(grouped[gi], f)
	}
	return grouped
}

// flagUsage formats one flag's invocation, with the short form first
// when the flag has one.
func flagUsage(f *kong.Flag) string {
	usage := "--" + f.Name
	if f.Short != 0 {
		usage = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
	}
	if !f.IsBool() && f.PlaceHolder != "" {
		usage += "=" + strings.ToUpper(f.PlaceHolder)
	}
	return usage
}
