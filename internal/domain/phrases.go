package domain

import (
	"fmt"
	"time"
)

// Spoken phrases and asset names of the German voice clock.

const (
	AssetStarting             = "starting.mp3"
	AssetShutdown             = "shutdown.mp3"
	AssetInstructions         = "fallback_instructions.mp3"
	AssetInstructionsFallback = "fallback_instructions_fallback.mp3"
)

const (
	PhraseStarting = "...starte Sprachuhr."
	PhraseShutdown = "...beende die Sprachuhr."
)

// TimeSentence renders the "current time" announcement for the given moment.
func TimeSentence(now time.Time) string {
	return fmt.Sprintf("Es ist jetzt %s.", now.Format("15:04"))
}
