package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/checkin-bot/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultHorizon = 30 * 24 * time.Hour
	barWidth       = 24
)

// AccountRow is one account with its offline token verdict.
type AccountRow struct {
	Account    domain.Account
	Assessment domain.TokenAssessment
	// NeedsProbe is set when only the live session probe can decide.
	NeedsProbe bool
}

type RenderOptions struct {
	Now     time.Time
	NextRun time.Time
	Proxies int
	// Horizon is the token lifetime a full bar stands for.
	Horizon time.Duration
}

type verdict int

const (
	verdictReady verdict = iota
	verdictUnverified
	verdictProbe
	verdictSkip
)

func verdictOf(row AccountRow) verdict {
	switch {
	case row.NeedsProbe:
		return verdictProbe
	case !row.Assessment.Valid:
		return verdictSkip
	case row.Assessment.Reason == domain.TokenReasonFailOpen:
		return verdictUnverified
	default:
		return verdictReady
	}
}

// tally counts enabled accounts by verdict; disabled ones are counted apart.
type tally struct {
	byVerdict map[verdict]int
	disabled  int
}

func countVerdicts(rows []AccountRow) tally {
	t := tally{byVerdict: make(map[verdict]int, 4)}
	for _, row := range rows {
		if !row.Account.Enabled {
			t.disabled++
			continue
		}
		t.byVerdict[verdictOf(row)]++
	}
	return t
}

func (t tally) String() string {
	parts := []string{
		fmt.Sprintf("ready: %d", t.byVerdict[verdictReady]+t.byVerdict[verdictUnverified]),
		fmt.Sprintf("skip: %d", t.byVerdict[verdictSkip]),
		fmt.Sprintf("probe: %d", t.byVerdict[verdictProbe]),
	}
	if t.disabled > 0 {
		parts = append(parts, fmt.Sprintf("disabled: %d", t.disabled))
	}
	return strings.Join(parts, "  ")
}

func renderView(rows []AccountRow, t tally, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("PiggyCell Check-in Accounts"),
		s.header.Render(headerLine(rows, opts)),
	}
	if len(rows) > 0 {
		lines = append(lines, s.header.Render(t.String()))
	}

	if len(rows) == 0 {
		lines = append(lines, s.empty.Render("No accounts found."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, row := range rows {
		lines = append(lines, s.section.Render(renderAccount(row, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func headerLine(rows []AccountRow, opts RenderOptions) string {
	parts := []string{fmt.Sprintf("accounts: %d", len(rows))}
	if opts.Proxies > 0 {
		parts = append(parts, fmt.Sprintf("proxies: %d", opts.Proxies))
	} else {
		parts = append(parts, "proxies: none")
	}
	if !opts.NextRun.IsZero() {
		parts = append(parts, "next run: "+formatWhen(opts.NextRun, opts.Now))
	}

	return strings.Join(parts, "  ")
}

func renderAccount(row AccountRow, opts RenderOptions, s styles) string {
	title := s.account.Render(row.Account.Label())
	if !row.Account.Enabled {
		title += " " + s.disabled.Render("[disabled]")
	}

	parts := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, title, " ", verdictBadge(row, s)),
		tokenLine(row, opts, s),
	}
	if row.Account.Cookies != "" {
		parts = append(parts, s.detail.Render(fmt.Sprintf("extra cookies: %d", cookieCount(row.Account.Cookies))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func verdictBadge(row AccountRow, s styles) string {
	switch verdictOf(row) {
	case verdictProbe:
		return s.pending.Render("[probe]")
	case verdictSkip:
		return s.warning.Render("[skip]")
	case verdictUnverified:
		return s.pending.Render("[unverified]")
	default:
		return s.ready.Render("[ready]")
	}
}

func tokenLine(row AccountRow, opts RenderOptions, s styles) string {
	if row.NeedsProbe {
		return s.detail.Render("token: opaque, checked against the service at run time")
	}

	a := row.Assessment
	if a.ExpiresAt.IsZero() {
		return s.detail.Render("token: " + a.Detail)
	}

	horizon := opts.Horizon
	if horizon <= 0 {
		horizon = defaultHorizon
	}

	leftPercent := clampPercent(100 * a.Remaining.Seconds() / horizon.Seconds())
	bar := renderProgressBar(leftPercent, barWidth, s)
	label := s.detail.Render("token:")
	remainingStyle := lipgloss.NewStyle().Foreground(interpolateColor(leftPercent, 0, 100))
	remaining := remainingStyle.Render(formatRemaining(a.Remaining))
	expiry := s.header.Render(fmt.Sprintf("(expires %s)", formatWhen(a.ExpiresAt, opts.Now)))

	return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", bar, " ", remaining, " ", expiry)
}

func renderProgressBar(leftPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(leftPercent) / 100))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "expired"
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%.1f hours left", d.Hours())
	}

	days := int(d.Hours() / 24)
	suffix := "days"
	if days == 1 {
		suffix = "day"
	}
	return fmt.Sprintf("%d %s left", days, suffix)
}

func formatWhen(at, now time.Time) string {
	if now.IsZero() {
		return at.Format(time.RFC3339)
	}

	yearA, monthA, dayA := now.Date()
	yearB, monthB, dayB := at.Date()
	if yearA == yearB && monthA == monthB && dayA == dayB {
		return at.Format("15:04")
	}

	return at.Format("15:04 on 02 Jan")
}

func cookieCount(cookies string) int {
	n := 0
	for _, part := range strings.Split(cookies, ";") {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// 256-colour greyscale ramp: 240 faded at min, 255 bright at max.
	return lipgloss.Color(fmt.Sprintf("%d", int(240+15*normalized)))
}
