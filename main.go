package main

import (
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"music-controls/cli"
)

func main() {
	cli.Execute()
}
