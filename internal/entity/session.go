package entity

import "time"

// ChatSession is the persisted header of one conversation. Its state lives
// in the state store, its messages in the transcript table.
type ChatSession struct {
	ID           string
	UserID       string
	Channel      Channel
	CreatedAt    time.Time
	LastActivity time.Time
	ClosedAt     *time.Time
}

func (s ChatSession) Closed() bool {
	return s.ClosedAt != nil
}

type Channel uint8

const (
	ChannelUnknown Channel = 0
	ChannelWeb     Channel = 1
	ChannelCLI     Channel = 2
)

var ChannelMap = map[Channel]string{
	ChannelWeb: "web",
	ChannelCLI: "cli",
}

func (c Channel) String() string {
	if name, ok := ChannelMap[c]; ok {
		return name
	}
	return "unknown"
}

func (c Channel) Value() uint8 {
	return uint8(c)
}

func ParseChannel(name string) Channel {
	for c, n := range ChannelMap {
		if n == name {
			return c
		}
	}
	return ChannelWeb
}
