package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/disgoorg/snowflake/v2"
)

// Guild data keys owned by the module.
const (
	KeyMonitoredChannels = "ID_JTC_CHANNELS"
	KeyChannelAliases    = "TEMP_CHANNEL_ALIASES"
)

var (
	ErrChannelAlreadyMonitored = errors.New("channel is already a join-to-create channel")
	ErrChannelNotMonitored     = errors.New("channel is not a join-to-create channel")
)

// ChannelList is the ordered set of join-to-create channels of a guild.
// It is stored as a JSON array of numeric ids; quoted ids are accepted too.
type ChannelList []snowflake.ID

// Contains reports whether channelID is monitored.
func (l ChannelList) Contains(channelID snowflake.ID) bool {
	return slices.Contains(l, channelID)
}

// Add returns a copy of the list with channelID appended.
func (l ChannelList) Add(channelID snowflake.ID) (ChannelList, error) {
	if l.Contains(channelID) {
		return nil, ErrChannelAlreadyMonitored
	}
	return append(slices.Clone(l), channelID), nil
}

// Remove returns a copy of the list without channelID.
func (l ChannelList) Remove(channelID snowflake.ID) (ChannelList, error) {
	idx := slices.Index(l, channelID)
	if idx < 0 {
		return nil, ErrChannelNotMonitored
	}
	return slices.Delete(slices.Clone(l), idx, idx+1), nil
}

// MarshalJSON writes the ids as JSON numbers.
func (l ChannelList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, id := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads ids written as numbers or strings.
func (l *ChannelList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	list := make(ChannelList, 0, len(raw))
	for _, item := range raw {
		text := string(bytes.Trim(item, `"`))
		id, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid channel id %s: %w", item, err)
		}
		list = append(list, snowflake.ID(id))
	}
	*l = list
	return nil
}
