package discord

import (
	"context"
	"errors"
	"strconv"
)

// ErrUnknownGuild is returned when the platform does not know the guild, or
// the bot cannot see it. Callers treat it as a subtype of Denied.
var ErrUnknownGuild = errors.New("unknown guild")

// ChannelType mirrors the platform's channel type enumeration.
type ChannelType int

const (
	ChannelTypeText         ChannelType = 0
	ChannelTypeVoice        ChannelType = 2
	ChannelTypeCategory     ChannelType = 4
	ChannelTypeAnnouncement ChannelType = 5
)

// Channel is one guild channel.
type Channel struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Type ChannelType `json:"type"`
}

// TextCapable reports whether messages can be posted to the channel.
func (c Channel) TextCapable() bool {
	return c.Type == ChannelTypeText || c.Type == ChannelTypeAnnouncement
}

// Role is one guild role.
type Role struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color int    `json:"color"`
}

// Guild is the read-only view of a community. Not owned by the dashboard;
// fetched from the membership collaborator per request.
type Guild struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Channels []Channel `json:"channels"`
	Roles    []Role    `json:"roles"`
}

// TextChannels returns the channels messages can be posted to.
func (g *Guild) TextChannels() []Channel {
	out := make([]Channel, 0, len(g.Channels))
	for _, c := range g.Channels {
		if c.TextCapable() {
			out = append(out, c)
		}
	}
	return out
}

// GuildProvider is the membership cache collaborator consumed by the access
// resolver and the configuration API. Implementations must be time-bounded;
// the fake used in tests lives alongside the consumers.
type GuildProvider interface {
	// BotInGuild reports live bot presence. Results are never cached by the
	// provider: every authorization decision sees current presence.
	BotInGuild(ctx context.Context, guildID string) (bool, error)

	// Guild returns guild metadata, or ErrUnknownGuild if the platform does
	// not know it.
	Guild(ctx context.Context, guildID string) (*Guild, error)
}

// flexUint64 unmarshals a permission bitmask that the platform serializes as
// either a JSON number (legacy) or a decimal string.
type flexUint64 uint64

func (f *flexUint64) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*f = flexUint64(v)
	return nil
}
