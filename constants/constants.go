package constants

import (
	"os"
	"strconv"
	"strings"
)

const Version = "0.1.0"

// DefaultMergeNoteGap is the gap threshold (seconds) under which repeated
// notes of the same pitch get merged. Transcribed files need this.
const DefaultMergeNoteGap = 0.08

// DefaultUniformVelocity flattens velocities of transcribed files.
const DefaultUniformVelocity = 80

func GetPort() int {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			panic("PORT is not a number: " + v)
		}
		return port
	}
	return 5000
}

func GetCorsOrigins() []string {
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		return strings.Split(v, ",")
	}
	return []string{"*"}
}

func GetMergeNoteGap() float64 {
	if v := os.Getenv("MERGE_NOTE_GAP"); v != "" {
		gap, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic("MERGE_NOTE_GAP is not a number: " + v)
		}
		return gap
	}
	return DefaultMergeNoteGap
}

func GetSoundFontPath() string {
	return os.Getenv("SOUNDFONT_PATH")
}

func GetLogLevel() string {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		return v
	}
	return "info"
}
