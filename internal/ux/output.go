package ux

import (
	"fmt"
	"time"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// Commit prints a committed file revision.
func Commit(path string, version int) {
	fmt.Printf("%s[%s]%s  %s✓ %s%s %s(v%d)%s\n",
		Dim, timestamp(), Reset, Green, path, Reset, Dim, version, Reset)
}

// Settled prints a settled-block marker for a message.
func Settled(messageID string, commits int) {
	fmt.Printf("%s[%s]%s  %s■ message %s settled%s %s(%d file commits)%s\n",
		Dim, timestamp(), Reset, Cyan, messageID, Reset, Dim, commits, Reset)
}

// Streaming prints a mid-stream progress marker for a message.
func Streaming(messageID string) {
	fmt.Printf("%s[%s]%s  %s… message %s streaming%s\n",
		Dim, timestamp(), Reset, Dim, messageID, Reset)
}

// FileRow prints one file table entry.
func FileRow(path string, version int, sourceMessageID string) {
	fmt.Printf("  %s%-40s%s v%-3d %sfrom %s%s\n",
		Bold, path, Reset, version, Dim, sourceMessageID, Reset)
}

// Warn prints a warning line to stdout.
func Warn(format string, args ...any) {
	fmt.Printf("%swarning:%s %s\n", Yellow, Reset, fmt.Sprintf(format, args...))
}
