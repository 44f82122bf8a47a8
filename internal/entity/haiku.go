package entity

import (
	"time"

	"github.com/golang/glog"
	"github.com/hanpama/haikugraph/internal/dql"
	"github.com/hanpama/haikugraph/internal/selection"
)

// Haiku is a poem posted in a Discord channel.
type Haiku struct {
	wire haikuWire
}

type haikuWire struct {
	ID            scalar[string]      `json:"id"`
	Authors       many[DiscordUser]   `json:"authors"`
	Content       scalar[string]      `json:"content"`
	Channel       one[DiscordChannel] `json:"channel"`
	ServerChannel one[serverHop]      `json:"server_channel"`
	RulesVersion  scalar[int]         `json:"rulesVersion"`
	Timestamp     scalar[string]      `json:"timestamp"`
}

// serverHop is the channel a haiku's server is reached through.
type serverHop struct {
	Server one[DiscordServer] `json:"server"`
}

func (h *Haiku) UnmarshalJSON(b []byte) error {
	return decodeObject("Haiku", b, &h.wire)
}

func (Haiku) DgraphType() string { return "Haiku" }

func (Haiku) MapField(child *selection.Node) (string, error) {
	switch child.Name() {
	case "id":
		return dql.Renamed("id", "uid"), nil
	case "authors":
		return dql.Nested(dql.Edge{Label: "authors", Predicate: "author"}, DiscordUser{}, child)
	case "content":
		return dql.Scalar("content"), nil
	case "channel":
		return dql.Nested(dql.Edge{Predicate: "channel"}, DiscordChannel{}, child)
	case "server":
		inner, err := dql.Nested(dql.Edge{Predicate: "server"}, DiscordServer{}, child)
		if err != nil {
			return "", err
		}
		hop := dql.Edge{Label: "server_channel", Predicate: "channel", Type: DiscordChannel{}.DgraphType()}
		return hop.Wrap(inner), nil
	case "rulesVersion":
		return dql.Scalar("rulesVersion"), nil
	case "timestamp":
		return dql.Scalar("timestamp"), nil
	}
	return "", &dql.UnknownFieldError{Field: child.Name()}
}

func (h *Haiku) ID() (string, error) { return h.wire.ID.get("Haiku", "id") }

func (h *Haiku) Authors() ([]*DiscordUser, error) { return h.wire.Authors.get("Haiku", "authors") }

func (h *Haiku) Content() (string, error) { return h.wire.Content.get("Haiku", "content") }

func (h *Haiku) Channel() (*DiscordChannel, error) {
	return h.wire.Channel.required("Haiku", "channel")
}

// Server is the server of the haiku's channel.
func (h *Haiku) Server() (*DiscordServer, error) {
	hop, err := h.wire.ServerChannel.required("Haiku", "server")
	if err != nil {
		return nil, err
	}
	return hop.Server.required("Haiku", "server")
}

func (h *Haiku) RulesVersion() (int, error) {
	return h.wire.RulesVersion.get("Haiku", "rulesVersion")
}

// Timestamp is the time the haiku was posted. Stored values must be RFC 3339.
func (h *Haiku) Timestamp() (time.Time, error) {
	raw, err := h.wire.Timestamp.get("Haiku", "timestamp")
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		glog.Errorf("Haiku.timestamp: %v", err)
		return time.Time{}, ErrUnresolvable
	}
	return t, nil
}

func (h *Haiku) Resolve(field string, _ map[string]any) (any, error) {
	switch field {
	case "id":
		return h.ID()
	case "authors":
		return h.Authors()
	case "content":
		return h.Content()
	case "channel":
		return h.Channel()
	case "server":
		return h.Server()
	case "rulesVersion":
		return h.RulesVersion()
	case "timestamp":
		return h.Timestamp()
	}
	return nil, unknownField("Haiku", field)
}
