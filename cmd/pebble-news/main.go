// Command pebble-news serves and administers the news API.
package main

import "github.com/marshallshelly/pebble-news/cmd/pebble-news/commands"

func main() {
	commands.Execute()
}
