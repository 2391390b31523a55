// sounddeck plays note-notation music on the speakers, on MIDI gear, or
// nowhere at all.
//
// Usage:
//
//	sounddeck play ode_to_joy          # built-in song with the transport UI
//	sounddeck play my_tune.yaml --loop # score file
//	sounddeck parse "C4.D E | F.."     # show how notation is read
//	sounddeck tone neutral_bell        # one preset sound
//	sounddeck ports                    # list MIDI ports
//
// Configuration is stored in ~/.config/go-sounddeck/config.json
package main

import (
	"os"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-sounddeck/cmd/sounddeck/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
