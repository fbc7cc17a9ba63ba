package main

import (
	"context"

	"speech-scraper/cmd/cli/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
