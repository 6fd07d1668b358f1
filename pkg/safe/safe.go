package safe

import (
	"log/slog"
	"runtime/debug"
	"strings"
)

func Run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", "safe.Run"),
				slog.String("stack", stackTrace()),
			)
		}
	}()

	fn()
}

// RunWithComponent tags the recovery log with the caller's component name.
func RunWithComponent(fn func(), component string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", component),
				slog.String("stack", stackTrace()),
			)
		}
	}()

	fn()
}

// stackTrace trims the recovery frames off debug.Stack and caps the depth.
func stackTrace() string {
	lines := strings.Split(string(debug.Stack()), "\n")

	var formatted []string
	for i, line := range lines {
		if i >= 24 {
			formatted = append(formatted, "  ... (truncated)")
			break
		}
		line = strings.TrimSpace(line)
		if line != "" {
			formatted = append(formatted, "  "+line)
		}
	}
	return strings.Join(formatted, "\n")
}
