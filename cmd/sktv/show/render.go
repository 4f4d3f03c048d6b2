package show

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sobadon/sktv/usecase"
)

var (
	styleChannel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EB9B19"))
	styleState   = lipgloss.NewStyle().Bold(true)
	styleTime    = lipgloss.NewStyle().Foreground(lipgloss.Color("#797979"))
	styleDur     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#3FC942"))
	styleNote    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#797979"))
)

func programLine(p usecase.ProgramView) string {
	title := p.Title
	if p.EpisodeTitle != "" {
		title += " / " + p.EpisodeTitle
	}
	if p.Episode != "" {
		title += " (" + p.Episode + ")"
	}

	var flags []string
	if p.Live {
		flags = append(flags, "LIVE")
	}
	if p.Premiere {
		flags = append(flags, "PREMIÉRA")
	}
	suffix := ""
	if len(flags) > 0 {
		suffix = " [" + strings.Join(flags, ", ") + "]"
	}

	return fmt.Sprintf("%s %s %s%s",
		styleTime.Render(p.Time+"-"+p.StopTime),
		title,
		styleDur.Render(p.Duration),
		suffix)
}

// all なら全番組も並べる
func render(w io.Writer, views []usecase.ChannelView, all bool) error {
	var b strings.Builder
	for i, v := range views {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s\n", styleChannel.Render(v.Name), styleState.Render(v.State))

		if v.Current != nil {
			fmt.Fprintf(&b, "  ▶ %s\n", programLine(*v.Current))
		}
		for _, p := range v.Upcoming {
			fmt.Fprintf(&b, "    %s\n", programLine(p))
		}

		if all {
			fmt.Fprintf(&b, "  %d programs\n", v.TotalPrograms)
			for _, p := range v.All {
				fmt.Fprintf(&b, "    %s %s\n", styleTime.Render(p.Date), programLine(p))
			}
			if v.Note != "" {
				fmt.Fprintf(&b, "  %s\n", styleNote.Render(v.Note))
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
