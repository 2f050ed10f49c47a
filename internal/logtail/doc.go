// Package logtail reads and colorizes chirp's log file for the logs view.
//
// # Reading Log Files
//
// Read returns the last N lines of a file in one sequential pass, holding at
// most N lines in a ring buffer:
//
//	lines, err := logtail.Read(cfg.Log.File, 400)
//
// A missing file is not an error; it simply has no lines yet.
//
// # Parsing
//
// Parse understands both logrus output formats:
//
//	time="2026-10-18T10:00:00Z" level=info msg="media ready" asset_id=AQID
//	{"time":"2026-10-18T10:00:00Z","level":"info","msg":"media ready","asset_id":"AQID"}
//
// Text fields keep their file order; JSON fields are sorted by key.
//
// # Colorization
//
// Colorize renders a parsed line with a lipgloss Palette: short timestamp,
// four-letter level colored by severity, message, then key=value fields.
// Lines that do not parse (stack traces, panics) pass through untouched.
package logtail
