package event

import "encoding/json"

// Broadcast renders e as the JSON object shape of spec §6.2: "event" and
// "server" are always present, plus the event-specific fields.
func (e Event) Broadcast() ([]byte, error) {
	out := map[string]interface{}{
		"event":  string(e.Kind),
		"server": e.Server,
	}

	switch e.Kind {
	case KindConnect, KindDisconnect:
		// no extra fields
	case KindInvite:
		out["origin"] = e.Origin
		out["channel"] = e.Channel
	case KindJoin:
		out["origin"] = e.Origin
		out["channel"] = e.Channel
	case KindKick:
		out["origin"] = e.Origin
		out["channel"] = e.Channel
		out["target"] = e.Target
		out["reason"] = e.Reason
	case KindMessage:
		out["origin"] = e.Origin
		out["channel"] = e.Channel
		out["message"] = e.Message
	case KindMe:
		out["origin"] = e.Origin
		out["target"] = e.Target
		out["message"] = e.Message
	case KindMode:
		out["origin"] = e.Origin
		out["channel"] = e.Channel
		out["mode"] = e.Mode
		out["limit"] = e.Limit
		out["user"] = e.User
		out["mask"] = e.Mask
	case KindNames:
		out["channel"] = e.Channel
		names := e.Names
		if names == nil {
			names = []string{}
		}
		out["names"] = names
	case KindNick:
		out["origin"] = e.Origin
		out["nickname"] = e.Nickname
	case KindNotice:
		out["origin"] = e.Origin
		out["channel"] = e.Channel
		out["message"] = e.Message
	case KindPart:
		out["origin"] = e.Origin
		out["channel"] = e.Channel
		out["reason"] = e.Reason
	case KindTopic:
		out["origin"] = e.Origin
		out["channel"] = e.Channel
		out["topic"] = e.Topic
	case KindWhois:
		out["nickname"] = e.Nickname
		out["username"] = e.Username
		out["hostname"] = e.Hostname
		out["realname"] = e.Realname
	}

	return json.Marshal(out)
}
