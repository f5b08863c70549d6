package version

// Overridden at build time, e.g.
// -ldflags "-X github.com/bnema/checkin-bot/internal/version.Version=v1.2.3 -X github.com/bnema/checkin-bot/internal/version.Commit=abc1234".
var (
	Version = "dev"
	Commit  = ""
)

func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
