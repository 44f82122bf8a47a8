package entity

import (
	"github.com/hanpama/haikugraph/internal/dql"
	"github.com/hanpama/haikugraph/internal/selection"
)

// DiscordUser is a Discord account that authored haikus.
type DiscordUser struct {
	wire     discordUserWire
	searches searches
}

type discordUserWire struct {
	DiscordSnowflake scalar[string] `json:"discordSnowflake"`
	Haikus           many[Haiku]    `json:"haikus"`
}

func (u *DiscordUser) UnmarshalJSON(b []byte) error {
	if err := decodeObject("DiscordUser", b, &u.wire); err != nil {
		return err
	}
	u.searches = scanSearches(b, "searchHaikus")
	return nil
}

func (DiscordUser) DgraphType() string { return "DiscordUser" }

func (DiscordUser) MapField(child *selection.Node) (string, error) {
	switch child.Name() {
	case "discordSnowflake":
		return dql.Scalar("discordSnowflake"), nil
	case "haikus":
		return dql.Nested(dql.Edge{Label: "haikus", Predicate: "author", Reverse: true}, Haiku{}, child)
	case "searchHaikus":
		return search("author", child)
	}
	return "", &dql.UnknownFieldError{Field: child.Name()}
}

func (u *DiscordUser) DiscordSnowflake() (string, error) {
	return u.wire.DiscordSnowflake.get("DiscordUser", "discordSnowflake")
}

func (u *DiscordUser) Haikus() ([]*Haiku, error) {
	return u.wire.Haikus.get("DiscordUser", "haikus")
}

// SearchHaikus returns the user's haikus matching the term and page size in
// args.
func (u *DiscordUser) SearchHaikus(args map[string]any) ([]*Haiku, error) {
	return u.searches.get("DiscordUser", "searchHaikus", args)
}

func (u *DiscordUser) Resolve(field string, args map[string]any) (any, error) {
	switch field {
	case "discordSnowflake":
		return u.DiscordSnowflake()
	case "haikus":
		return u.Haikus()
	case "searchHaikus":
		return u.SearchHaikus(args)
	}
	return nil, unknownField("DiscordUser", field)
}

// DiscordChannel is a text channel of a Discord server.
type DiscordChannel struct {
	wire     discordChannelWire
	searches searches
}

type discordChannelWire struct {
	DiscordSnowflake scalar[string]     `json:"discordSnowflake"`
	Server           one[DiscordServer] `json:"server"`
	Haikus           many[Haiku]        `json:"haikus"`
}

func (c *DiscordChannel) UnmarshalJSON(b []byte) error {
	if err := decodeObject("DiscordChannel", b, &c.wire); err != nil {
		return err
	}
	c.searches = scanSearches(b, "searchHaikus")
	return nil
}

func (DiscordChannel) DgraphType() string { return "DiscordChannel" }

func (DiscordChannel) MapField(child *selection.Node) (string, error) {
	switch child.Name() {
	case "discordSnowflake":
		return dql.Scalar("discordSnowflake"), nil
	case "server":
		return dql.Nested(dql.Edge{Predicate: "server"}, DiscordServer{}, child)
	case "haikus":
		return dql.Nested(dql.Edge{Label: "haikus", Predicate: "channel", Reverse: true}, Haiku{}, child)
	case "searchHaikus":
		return search("channel", child)
	}
	return "", &dql.UnknownFieldError{Field: child.Name()}
}

func (c *DiscordChannel) DiscordSnowflake() (string, error) {
	return c.wire.DiscordSnowflake.get("DiscordChannel", "discordSnowflake")
}

func (c *DiscordChannel) Server() (*DiscordServer, error) {
	return c.wire.Server.required("DiscordChannel", "server")
}

func (c *DiscordChannel) Haikus() ([]*Haiku, error) {
	return c.wire.Haikus.get("DiscordChannel", "haikus")
}

func (c *DiscordChannel) SearchHaikus(args map[string]any) ([]*Haiku, error) {
	return c.searches.get("DiscordChannel", "searchHaikus", args)
}

func (c *DiscordChannel) Resolve(field string, args map[string]any) (any, error) {
	switch field {
	case "discordSnowflake":
		return c.DiscordSnowflake()
	case "server":
		return c.Server()
	case "haikus":
		return c.Haikus()
	case "searchHaikus":
		return c.SearchHaikus(args)
	}
	return nil, unknownField("DiscordChannel", field)
}

// DiscordServer is a Discord guild.
type DiscordServer struct {
	wire discordServerWire
}

type discordServerWire struct {
	DiscordSnowflake scalar[string]       `json:"discordSnowflake"`
	Channels         many[DiscordChannel] `json:"channels"`
	HaikuChannels    many[channelHaikus]  `json:"haiku_channels"`
}

// channelHaikus is one channel visited on the way to a server's haikus.
type channelHaikus struct {
	Haikus many[Haiku] `json:"haikus"`
}

func (s *DiscordServer) UnmarshalJSON(b []byte) error {
	return decodeObject("DiscordServer", b, &s.wire)
}

func (DiscordServer) DgraphType() string { return "DiscordServer" }

func (DiscordServer) MapField(child *selection.Node) (string, error) {
	switch child.Name() {
	case "discordSnowflake":
		return dql.Scalar("discordSnowflake"), nil
	case "channels":
		return dql.Nested(dql.Edge{Label: "channels", Predicate: "server", Reverse: true}, DiscordChannel{}, child)
	case "haikus":
		inner, err := dql.Nested(dql.Edge{Label: "haikus", Predicate: "channel", Reverse: true}, Haiku{}, child)
		if err != nil {
			return "", err
		}
		hop := dql.Edge{Label: "haiku_channels", Predicate: "server", Reverse: true, Type: DiscordChannel{}.DgraphType()}
		return hop.Wrap(inner), nil
	}
	return "", &dql.UnknownFieldError{Field: child.Name()}
}

func (s *DiscordServer) DiscordSnowflake() (string, error) {
	return s.wire.DiscordSnowflake.get("DiscordServer", "discordSnowflake")
}

func (s *DiscordServer) Channels() ([]*DiscordChannel, error) {
	return s.wire.Channels.get("DiscordServer", "channels")
}

// Haikus returns the haikus of every channel of the server, channel by
// channel.
func (s *DiscordServer) Haikus() ([]*Haiku, error) {
	channels, err := s.wire.HaikuChannels.get("DiscordServer", "haikus")
	if err != nil {
		return nil, err
	}
	out := []*Haiku{}
	for _, ch := range channels {
		haikus, err := ch.Haikus.get("DiscordServer", "haikus")
		if err != nil {
			return nil, err
		}
		out = append(out, haikus...)
	}
	return out, nil
}

func (s *DiscordServer) Resolve(field string, _ map[string]any) (any, error) {
	switch field {
	case "discordSnowflake":
		return s.DiscordSnowflake()
	case "channels":
		return s.Channels()
	case "haikus":
		return s.Haikus()
	}
	return nil, unknownField("DiscordServer", field)
}
