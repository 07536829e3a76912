package gen

import (
	"fmt"

	"go.uber.org/zap/zapcore"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
)

// NoticeLevel is the severity of a notice.
type NoticeLevel int

// Notice levels.
const (
	NoticeInfo NoticeLevel = iota
	NoticeWarn
)

// String returns the level name.
func (l NoticeLevel) String() string {
	if l == NoticeWarn {
		return "warn"
	}
	return "info"
}

// ZapLevel maps the notice level to a zap level.
func (l NoticeLevel) ZapLevel() zapcore.Level {
	if l == NoticeWarn {
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}

// Notice is a non-fatal message reported by a plugin, e.g. a declaration
// that was skipped.
type Notice struct {
	Level   NoticeLevel
	Plugin  string
	Package string
	Decl    ecsact.ID
	Message string
}

// String formats the notice for terminal output.
func (n Notice) String() string {
	if n.Decl.Valid() {
		return fmt.Sprintf("%s: %s [%s, decl %d]: %s", n.Level, n.Package, n.Plugin, n.Decl, n.Message)
	}
	return fmt.Sprintf("%s: %s [%s]: %s", n.Level, n.Package, n.Plugin, n.Message)
}
