package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/platinummonkey/guilddash/pkg/discord"
	"github.com/platinummonkey/guilddash/pkg/permissions"
)

// Default bot permissions requested on invite: view channels, send
// messages, embed links, read message history, manage messages.
const defaultInvitePerms = 0x400 | 0x800 | 0x4000 | 0x10000 | 0x2000

func main() {
	clientID := flag.String("client-id", os.Getenv("GUILDDASH_OAUTH_CLIENT_ID"), "OAuth2 application client ID")
	perms := flag.Uint64("permissions", defaultInvitePerms, "Permission bitmask to request")
	flag.Parse()

	if *clientID == "" {
		fmt.Fprintln(os.Stderr, "client-id is required (flag or GUILDDASH_OAUTH_CLIENT_ID)")
		os.Exit(1)
	}

	fmt.Println(discord.BotInviteURL(*clientID, permissions.Bitmask(*perms)))
}
